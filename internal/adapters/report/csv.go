// Package report renders comparisons, tours and potentials for people:
// CSV for spreadsheets and aligned text for terminals.
package report

import (
	"depot-analysis/internal/domain"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ShortName is the label used for a depot in column headers: the part of
// its name before the first comma ("Recife, PE" -> "Recife").
func ShortName(name string) string {
	short, _, _ := strings.Cut(name, ",")
	return strings.TrimSpace(short)
}

// DepotLabels names each depot by ShortName, falling back to the full
// name for depots whose short names collide ("Recife, PE", "Recife, SP").
func DepotLabels(depots []domain.Location) []string {
	count := make(map[string]int, len(depots))
	for _, d := range depots {
		count[ShortName(d.Name)]++
	}

	labels := make([]string, len(depots))
	for i, d := range depots {
		labels[i] = ShortName(d.Name)
		if count[labels[i]] > 1 {
			labels[i] = d.Name
		}
	}
	return labels
}

// Header returns the CSV header for cmp: the location column, one distance
// column per depot, then one duration column per depot.
func Header(cmp *domain.Comparison, units domain.Units) []string {
	labels := DepotLabels(cmp.Depots)

	h := make([]string, 0, 1+2*len(labels))
	h = append(h, "Location")
	for _, l := range labels {
		h = append(h, fmt.Sprintf("From %s (%s)", l, units.DistanceLabel))
	}
	for _, l := range labels {
		h = append(h, fmt.Sprintf("From %s (%s)", l, units.DurationLabel))
	}
	return h
}

// WriteCSV writes one row per non-depot location. Unavailable cells are
// left empty.
func WriteCSV(w io.Writer, cmp *domain.Comparison, units domain.Units) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header(cmp, units)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range cmp.Rows {
		rec := make([]string, 0, 1+len(row.Distances)+len(row.Durations))
		rec = append(rec, row.Location.Name)
		for _, m := range row.Distances {
			rec = append(rec, cell(m))
		}
		for _, m := range row.Durations {
			rec = append(rec, cell(m))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %q: %w", row.Location.Name, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func cell(m domain.Measure) string {
	if !m.OK {
		return ""
	}
	return strconv.Itoa(m.Value)
}
