package main

import (
	"time"

	"github.com/spf13/cobra"
)

// engineFlags are shared by the local engine commands.
type engineFlags struct {
	file     string
	month    string
	cash     string
	months   int
	currency string
	json     bool
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "runway",
		Short:         "Runway financial projection CLI",
		Long:          `Runs the projection engine on a local entries file, or queries a running Runway API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		kpisCmd(),
		projectionCmd(),
		horizonsCmd(),
		insightsCmd(),
		remoteCmd(),
		tokenCmd(),
	)

	return rootCmd
}

func bindEngineFlags(cmd *cobra.Command, f *engineFlags) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "JSON file with entries (array or API envelope)")
	cmd.Flags().StringVar(&f.month, "month", "", "Base month YYYY-MM (default: current month)")
	cmd.Flags().StringVar(&f.cash, "cash", "", "Cash on hand (default: unset)")
	cmd.Flags().StringVar(&f.currency, "currency", "USD", "Display currency (USD or ARS)")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print JSON instead of a table")
	_ = cmd.MarkFlagRequired("file")
}

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }
