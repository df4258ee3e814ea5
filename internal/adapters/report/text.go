package report

import (
	"depot-analysis/internal/domain"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteSummary prints the comparison table followed by per-depot totals
// and means, then a note for every pair left out.
func WriteSummary(w io.Writer, cmp *domain.Comparison, units domain.Units) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(Header(cmp, units), "\t"))
	for _, row := range cmp.Rows {
		cols := make([]string, 0, 1+len(row.Distances)+len(row.Durations))
		cols = append(cols, row.Location.Name)
		for _, m := range row.Distances {
			cols = append(cols, dash(m))
		}
		for _, m := range row.Durations {
			cols = append(cols, dash(m))
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write summary table: %w", err)
	}

	labels := make([]string, len(cmp.Summaries))
	copy(labels, DepotLabels(cmp.Depots))

	fmt.Fprintln(w, "\nSummary (distances):")
	for k, s := range cmp.Summaries {
		fmt.Fprintf(w, "Total %s -> locations: %d %s\n", labels[k], s.Distance.Sum, units.DistanceLabel)
	}
	for k, s := range cmp.Summaries {
		fmt.Fprintf(w, "Mean %s: %.1f %s\n", labels[k], s.Distance.Mean, units.DistanceLabel)
	}

	fmt.Fprintln(w, "\nSummary (durations):")
	for k, s := range cmp.Summaries {
		fmt.Fprintf(w, "Total %s -> locations: %d %s\n", labels[k], s.Duration.Sum, units.DurationLabel)
	}
	for k, s := range cmp.Summaries {
		fmt.Fprintf(w, "Mean %s: %.1f %s\n", labels[k], s.Duration.Mean, units.DurationLabel)
	}

	if len(cmp.Missing) > 0 {
		fmt.Fprintf(w, "\nNotes (%d pairs left out):\n", len(cmp.Missing))
		for _, m := range cmp.Missing {
			fmt.Fprintf(w, "- %s\n", m.Error())
		}
	}

	return nil
}

// WriteTour prints a tour as "A -> B -> ... -> A" with its total cost.
func WriteTour(w io.Writer, tour domain.Tour, label string, unit string) error {
	if !tour.Found {
		_, err := fmt.Fprintf(w, "%s: no solution.\n", label)
		return err
	}

	names := make([]string, len(tour.Stops))
	for i, s := range tour.Stops {
		names[i] = s.Name
	}

	_, err := fmt.Fprintf(w, "\n%s\n%s\nTotal distance: %d %s\n", label, strings.Join(names, " -> "), tour.Cost, unit)
	return err
}

// WritePotential prints the consumption potential served from each depot.
func WritePotential(w io.Writer, results []domain.PotentialResult) error {
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "Consumption potential served from %s: %s\n", r.Depot, thousands(r.Potential)); err != nil {
			return err
		}
	}
	return nil
}

func dash(m domain.Measure) string {
	if !m.OK {
		return "-"
	}
	return fmt.Sprint(m.Value)
}

// thousands formats v rounded to an integer with English digit grouping.
func thousands(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.0f", v)
}
