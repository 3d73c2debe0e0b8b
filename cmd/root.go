package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "refinery",
		Short:         "Lumon macrodata refinement over SSH",
		Long:          "refinery serves the macrodata refinement floor over SSH: each connecting refiner gets an isolated set of bins, a number grid, and a quota to meet.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(),
	)

	return rootCmd
}
