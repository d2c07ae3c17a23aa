package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"marketsim/internal/adapter/oracle/scripted"
	"marketsim/internal/app/ports"
	"marketsim/internal/app/tick"
)

func newRunCmd(app *app) *cobra.Command {
	var (
		scriptPath string
		scenario   string
		seed       int64
		quiet      bool
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "run [ticks]",
		Short: "Advance a fresh world headless and print what happened",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 1
			if len(args) == 1 {
				v, err := strconv.Atoi(args[0])
				if err != nil || v <= 0 {
					return fmt.Errorf("ticks must be a positive integer, got %q", args[0])
				}
				n = v
			}

			cfg := app.cfg
			if scenario != "" {
				cfg.Sim.Scenario = scenario
			}
			if cmd.Flags().Changed("seed") {
				cfg.Sim.Seed = seed
			}
			var oracle ports.Oracle
			if scriptPath != "" {
				f, err := os.Open(scriptPath)
				if err != nil {
					return fmt.Errorf("open script: %w", err)
				}
				o, err := scripted.Load(f)
				f.Close()
				if err != nil {
					return err
				}
				oracle = o
			}

			sim, err := app.build(cmd.Context(), cfg, oracle)
			if err != nil {
				return err
			}
			defer sim.Close()

			out := cmd.OutOrStdout()
			results := make([]tick.Response, 0, n)
			for i := 0; i < n; i++ {
				resp, err := sim.Tick.Execute(cmd.Context())
				if err != nil {
					return fmt.Errorf("tick %d: %w", i+1, err)
				}
				results = append(results, resp)
				if !quiet && !asJSON {
					fmt.Fprint(out, renderEntries(resp.Outcome.Entries))
				}
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			view, err := sim.Observe.World(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, renderWorld(view))
			return err
		},
	}
	cmd.Flags().StringVar(&scriptPath, "script", "", "YAML file of scripted decisions to use instead of the configured oracle")
	cmd.Flags().StringVar(&scenario, "scenario", "", "scenario file or embedded scenario name")
	cmd.Flags().Int64Var(&seed, "seed", 0, "dice seed for the run")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the final world status")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print tick outcomes as JSON")
	return cmd
}
