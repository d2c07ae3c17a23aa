package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	app := &app{}
	rootCmd := &cobra.Command{
		Use:           "simctl",
		Short:         "Drive the market simulation from the terminal",
		Long:          "simctl runs the agent market simulation headless, serves its HTTP API, replays tick archives and checks scenario files.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.load()
		},
	}
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "path to a config file (yaml, toml or json)")

	rootCmd.AddCommand(
		newRunCmd(app),
		newServeCmd(app),
		newReplayCmd(app),
		newScenarioCmd(app),
	)
	return rootCmd
}
