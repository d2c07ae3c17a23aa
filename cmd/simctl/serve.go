package main

import (
	"github.com/spf13/cobra"
)

func newServeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and observer stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sim, err := app.build(cmd.Context(), app.cfg, nil)
			if err != nil {
				return err
			}
			defer sim.Close()
			return sim.Serve(cmd.Context())
		},
	}
}
