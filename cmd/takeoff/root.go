package main

import (
	"github.com/spf13/cobra"

	"github.com/fieldwise/takeoff/internal/api"
	"github.com/fieldwise/takeoff/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "takeoff",
	Short: "Electrical drawing analysis and material takeoff",
	Long: `Takeoff analyzes electrical construction drawings and produces
material takeoffs for bid estimation.

The pipeline includes:
  - Panel, circuit and conduit detection from drawing text
  - Cross-page aggregation with source-page provenance
  - Material estimates with a documented overage factor
  - Risk flags for items an estimator should verify by hand`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.takeoff/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
