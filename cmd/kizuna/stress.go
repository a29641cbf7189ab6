package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/edwinsyarief/kizuna"
	"github.com/edwinsyarief/kizuna/internal/stress"
	"github.com/edwinsyarief/kizuna/ontology"
)

var formats = []string{"text", "yaml", "json"}

func newStressCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run a seeded random workload and check the graph invariants",
		Long: `Run a seeded random workload against the example world.

The workload creates, destroys, moves and rebinds universes, scenes,
materials, species, brains and objects, checking every edge of the graph at
regular intervals. At the end the world is torn down and any instance left
in an allocator is reported as a leak.

Examples:
  # Default workload
  kizuna stress

  # Reproduce a run and print the report as YAML
  kizuna stress --seed 1234 --ops 50000 --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(formats, format) {
				return fmt.Errorf("unknown format %q (want text, yaml or json)", format)
			}
			caps, err := a.cfg.ArenaCapacities()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			rep, err := stress.Run(ctx, stress.Options{
				Seed:       a.cfg.Stress.Seed,
				Operations: a.cfg.Stress.Operations,
				Universes:  a.cfg.Stress.Universes,
				CheckEvery: a.cfg.Stress.CheckEvery,
				Capacities: caps,
				Logger:     kizuna.Logger(),
			})
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), format, rep)
		},
	}
	cmd.Flags().Uint64("seed", 0, "random seed")
	cmd.Flags().Int("ops", 0, "number of workload steps")
	cmd.Flags().Int("universes", 0, "number of universes")
	cmd.Flags().Int("check-every", 0, "check invariants every N steps")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "report format: text, yaml or json")
	_ = a.v.BindPFlag("stress.seed", cmd.Flags().Lookup("seed"))
	_ = a.v.BindPFlag("stress.operations", cmd.Flags().Lookup("ops"))
	_ = a.v.BindPFlag("stress.universes", cmd.Flags().Lookup("universes"))
	_ = a.v.BindPFlag("stress.check_every", cmd.Flags().Lookup("check-every"))
	return cmd
}

func writeReport(w io.Writer, format string, rep stress.Report) error {
	switch format {
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(rep); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		return encoder.Close()
	case "json":
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "seed\t%d\n", rep.Seed)
		fmt.Fprintf(tw, "operations\t%d\n", rep.Operations)
		fmt.Fprintf(tw, "skipped\t%d\n", rep.Skipped)
		fmt.Fprintf(tw, "checks\t%d\n", rep.Checks)
		fmt.Fprintf(tw, "peak instances\t%d\n", rep.Peak)
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "STEP\tCOUNT")
		steps := make([]string, 0, len(rep.Steps))
		for name := range rep.Steps {
			steps = append(steps, name)
		}
		slices.Sort(steps)
		for _, name := range steps {
			fmt.Fprintf(tw, "%s\t%d\n", name, rep.Steps[name])
		}
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "TYPE\tCREATED\tDESTROYED")
		for _, d := range ontology.Datatypes() {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", d, rep.Created[d.String()], rep.Destroyed[d.String()])
		}
		fmt.Fprintln(tw)
		writeAllocators(tw, rep.Allocators)
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q (want text, yaml or json)", format)
	}
}

func writeAllocators(w io.Writer, stats []kizuna.AllocatorStats) {
	fmt.Fprintln(w, "ALLOCATOR\tCAPACITY\tSTORAGES\tINSTANCES")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", s.Name, s.Capacity, s.Storages, s.Instances)
	}
}
