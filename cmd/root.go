package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "savior",
		Short:         "Savior: a support desk bot routing requesters to operators",
		Long:          "savior relays messages between anonymous requesters and a small pool of operators through a messaging gateway, making sure at most one operator owns a conversation at a time.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(app),
		newRequesterCmd(app),
		newStatsCmd(app),
		newBroadcastCmd(app),
		newGatewayCmd(app),
	)

	return rootCmd
}
