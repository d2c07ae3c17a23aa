package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"marketsim/internal/config"
)

func newScenarioCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Inspect scenario seeds",
	}
	cmd.AddCommand(newScenarioValidateCmd(app))
	return cmd
}

func newScenarioValidateCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file-or-name]",
		Short: "Check that a scenario builds a valid world",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := app.cfg.Sim.Scenario
			if len(args) == 1 {
				ref = args[0]
			}
			s, err := config.LoadScenario(ref)
			if err != nil {
				return err
			}
			w, err := s.World()
			if err != nil {
				return err
			}
			active := 0
			for _, a := range w.Agents {
				if a.Spawned {
					active++
				}
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "scenario %s ok: %d companies, %d products, %d agents (%d active at %02d:00)\n",
				ref, len(w.Companies), len(w.Market), len(w.Agents), active, w.Time)
			return err
		},
	}
}
