package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"marketsim/internal/adapter/archive"
	"marketsim/internal/app/observe"
	"marketsim/internal/app/replay"
	"marketsim/internal/config"
	"marketsim/internal/domain/clock"
)

var errDiverged = errors.New("replay diverged from archive")

func newReplayCmd(app *app) *cobra.Command {
	var (
		scenario string
		maxTicks int
		showLog  bool
	)
	cmd := &cobra.Command{
		Use:   "replay <archive-dir>",
		Short: "Re-apply archived decisions to the scenario seed and compare the logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := archive.ReadDir(args[0])
			if err != nil {
				return fmt.Errorf("read archive: %w", err)
			}
			if len(records) == 0 {
				return fmt.Errorf("no tick records under %s", args[0])
			}
			if scenario == "" {
				scenario = app.cfg.Sim.Scenario
			}
			s, err := config.LoadScenario(scenario)
			if err != nil {
				return err
			}
			seed, err := s.World()
			if err != nil {
				return err
			}

			uc := replay.UseCase{Clock: clock.Default()}
			resp, err := uc.Replay(cmd.Context(), replay.ReplayRequest{Seed: seed, Records: records, MaxTicks: maxTicks})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showLog {
				fmt.Fprint(out, renderEntries(resp.Entries))
			}
			fmt.Fprintf(out, "replayed %d of %d ticks\n", resp.Ticks, len(records))
			fmt.Fprintln(out, renderDivergences(resp.Divergences))
			fmt.Fprintln(out, renderWorld(observe.Project(resp.Final, uc.Clock)))
			if len(resp.Divergences) > 0 {
				return errDiverged
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&scenario, "scenario", "", "seed scenario the archive started from (defaults to sim.scenario)")
	cmd.Flags().IntVar(&maxTicks, "max-ticks", 0, "stop after this many ticks")
	cmd.Flags().BoolVar(&showLog, "log", false, "print the regenerated log")
	return cmd
}
