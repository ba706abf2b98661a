package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldwise/takeoff/internal/api"
	"github.com/fieldwise/takeoff/internal/config"
	"github.com/fieldwise/takeoff/internal/engine"
	"github.com/fieldwise/takeoff/internal/extract"
	"github.com/fieldwise/takeoff/internal/report"
)

var (
	analyzeSheet   bool
	analyzeVerbose bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <drawing.pdf> [drawing.pdf...]",
	Short: "Analyze drawing sets locally",
	Long: `Analyze one or more drawing PDFs without a running server.

A single PDF produces one analysis result. Multiple PDFs run as a batch
with combined material totals. A markup sidecar next to a PDF
(<name>.markup.json) contributes field notes to the analysis.

Examples:
  takeoff analyze plans.pdf                  # One drawing set
  takeoff analyze e1.pdf e2.pdf e3.pdf       # Batch with combined totals
  takeoff analyze plans.pdf --sheet          # Printable takeoff sheet`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if analyzeVerbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		eng := engine.New(mgr.Get().Engine, logger)

		if len(args) == 1 {
			doc, err := extract.Document(args[0], logger)
			if err != nil {
				return err
			}
			result, err := eng.Analyze(doc.Filename, doc.Pages)
			if err != nil {
				return err
			}
			if analyzeSheet {
				fmt.Print(report.Render(result))
				return nil
			}
			return api.Output(result)
		}

		docs, err := extract.DocumentSet(args, logger)
		if err != nil {
			return err
		}
		batch, err := eng.AnalyzeBatch(docs)
		if err != nil {
			return err
		}
		if analyzeSheet {
			fmt.Print(report.RenderBatch(batch))
			return nil
		}
		return api.Output(batch)
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeSheet, "sheet", false, "Print a plain-text takeoff sheet instead of structured output")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(analyzeCmd)
}
