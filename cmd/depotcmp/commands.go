package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"depot-analysis/internal/adapters/report"
	"depot-analysis/internal/adapters/solver"
	"depot-analysis/internal/app"
	"depot-analysis/internal/config"
	"depot-analysis/internal/domain"
	"depot-analysis/internal/platform/metrics"
	"depot-analysis/internal/ports"
	"depot-analysis/internal/services"

	"github.com/urfave/cli"
)

var scenarioFlag = cli.StringFlag{
	Name:  "scenario, s",
	Value: "configs/northeast.yaml",
	Usage: "scenario `FILE`",
}

func compareCommand() cli.Command {
	return cli.Command{
		Name:  "compare",
		Usage: "build matrices, write the comparison CSV and print summaries and tours",
		Flags: []cli.Flag{
			scenarioFlag,
			cli.StringFlag{Name: "out, o", Usage: "CSV `FILE` (defaults to the scenario output)"},
			cli.BoolFlag{Name: "no-routes", Usage: "skip tour construction"},
			cli.DurationFlag{Name: "timeout", Value: 5 * time.Minute, Usage: "overall run timeout"},
		},
		Action: func(c *cli.Context) error {
			s, err := config.LoadScenario(c.String("scenario"))
			if err != nil {
				return err
			}
			if len(s.Depots) == 0 {
				return errors.New("compare: scenario lists no depots")
			}

			out := s.Output
			if c.String("out") != "" {
				out = c.String("out")
			}

			ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
			defer cancel()

			return runCompare(ctx, os.Stdout, s, out, !c.Bool("no-routes"))
		},
	}
}

func routeCommand() cli.Command {
	return cli.Command{
		Name:  "route",
		Usage: "print the tour from one depot over every scenario location",
		Flags: []cli.Flag{
			scenarioFlag,
			cli.StringFlag{Name: "depot, d", Usage: "depot `NAME` (defaults to the first scenario depot)"},
		},
		Action: func(c *cli.Context) error {
			s, err := config.LoadScenario(c.String("scenario"))
			if err != nil {
				return err
			}

			depot := c.String("depot")
			if depot == "" {
				if len(s.Depots) == 0 {
					return errors.New("route: pass --depot or list depots in the scenario")
				}
				depot = s.Depots[0]
			}

			return withComponents(context.Background(), func(ctx context.Context, comp *app.Components) error {
				a, err := services.AnalyzeDepots(ctx, analysisRequest(s, []string{depot}, true), comp.Provider, solver.New())
				if err != nil {
					return err
				}
				return report.WriteTour(os.Stdout, a.Tours[0], "Route from "+report.ShortName(depot), s.MatrixUnits().DistanceLabel)
			})
		},
	}
}

func potentialCommand() cli.Command {
	return cli.Command{
		Name:  "potential",
		Usage: "estimate the consumption potential served by each depot",
		Flags: []cli.Flag{scenarioFlag},
		Action: func(c *cli.Context) error {
			s, err := config.LoadScenario(c.String("scenario"))
			if err != nil {
				return err
			}
			results, err := services.ConsumptionPotential(s.RegionList(), s.CoverageList())
			if err != nil {
				return err
			}
			return report.WritePotential(os.Stdout, results)
		},
	}
}

func analysisRequest(s *config.Scenario, depots []string, routes bool) services.AnalysisRequest {
	return services.AnalysisRequest{
		Locations: s.Locations,
		Depots:    depots,
		Travel:    s.Travel(),
		Units:     s.MatrixUnits(),
		Route: services.RouteOptions{
			Strategy:      ports.Strategy(s.Strategy),
			LocalSearch:   s.LocalSearchEnabled(),
			ReturnToDepot: s.ReturnsToDepot(),
		},
		SkipRoutes: !routes,
	}
}

// withComponents wires adapters from the environment, runs fn and writes
// the metrics textfile when METRICS_TEXTFILE is set.
func withComponents(ctx context.Context, fn func(ctx context.Context, comp *app.Components) error) error {
	env := config.FromEnv()

	comp, err := app.Build(ctx, env)
	if err != nil {
		return err
	}
	defer comp.Close()

	runErr := fn(ctx, comp)

	if env.MetricsFile != "" {
		if err := metrics.WriteTextfile(env.MetricsFile); err != nil {
			log.Printf("metrics textfile: %v", err)
		}
	}
	return runErr
}

func runCompare(ctx context.Context, stdout io.Writer, s *config.Scenario, out string, routes bool) error {
	return withComponents(ctx, func(ctx context.Context, comp *app.Components) error {
		fmt.Fprintln(stdout, "Querying distance provider...")

		a, err := services.AnalyzeDepots(ctx, analysisRequest(s, s.Depots, routes), comp.Provider, solver.New())
		if err != nil {
			return err
		}
		units := s.MatrixUnits()

		if err := writeCSVFile(out, a.Comparison, units); err != nil {
			return err
		}

		fmt.Fprintln(stdout, "Matrices collected. Comparison:")
		if err := report.WriteSummary(stdout, a.Comparison, units); err != nil {
			return err
		}

		labels := report.DepotLabels(a.Comparison.Depots)
		for i, t := range a.Tours {
			if err := report.WriteTour(stdout, t, "Route from "+labels[i], units.DistanceLabel); err != nil {
				return err
			}
		}

		if comp.Runs != nil {
			err := comp.Runs.SaveRun(ctx, ports.RunRecord{
				RunID:     a.RunID,
				CreatedAt: time.Now(),
				Summaries: a.Comparison.Summaries,
				Missing:   len(a.Comparison.Missing),
			})
			if err != nil {
				log.Printf("req_id=%s save run failed: %v", a.RunID, err)
			}
		}

		fmt.Fprintf(stdout, "\nResults saved to %s (run %s)\n", out, a.RunID)
		return nil
	})
}

func writeCSVFile(path string, cmp *domain.Comparison, units domain.Units) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %q: %w", path, cerr)
		}
	}()

	return report.WriteCSV(f, cmp, units)
}
