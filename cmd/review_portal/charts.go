package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/review-portal/internal/charts"
	"github.com/jonathan/review-portal/internal/observability"
	"github.com/jonathan/review-portal/internal/schemas"
)

var (
	chartsDataFile string
	chartsFormat   string
	chartsOutFile  string
	chartsVerbose  bool
)

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Build dashboard charts from a ChartData file",
	Long: `Validates a ChartData JSON document and writes either the Chart.js widget
configurations (--format json) or a standalone ECharts page (--format echarts).`,
	RunE: runCharts,
}

func init() {
	chartsCmd.Flags().StringVarP(&chartsDataFile, "data", "d", "", "Path to ChartData JSON file (required)")
	chartsCmd.Flags().StringVarP(&chartsFormat, "format", "f", "json", "Output format: json or echarts")
	chartsCmd.Flags().StringVarP(&chartsOutFile, "out", "o", "", "Output file (default stdout)")
	chartsCmd.Flags().BoolVarP(&chartsVerbose, "verbose", "v", false, "Print a summary of the data and widgets to stderr")
	_ = chartsCmd.MarkFlagRequired("data")
	rootCmd.AddCommand(chartsCmd)
}

func runCharts(cmd *cobra.Command, _ []string) error {
	format := strings.ToLower(chartsFormat)
	if format != "json" && format != "echarts" {
		return fmt.Errorf("unknown format %q (want json or echarts)", chartsFormat)
	}

	d, err := schemas.ValidateChartDataFile(chartsDataFile)
	if err != nil {
		return err
	}
	if warnings := d.Misaligned(); len(warnings) > 0 {
		log.Printf("[charts] Series with different lengths, extra entries ignored: %s", strings.Join(warnings, ", "))
	}

	widgets := charts.Build(d)
	if chartsVerbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintChartData(d)
		printer.PrintWidgets(widgets)
	}

	write := func(out io.Writer) error {
		if format == "echarts" {
			return charts.RenderECharts(out, d)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(widgets); err != nil {
			return fmt.Errorf("failed to write widgets: %w", err)
		}
		return nil
	}

	if chartsOutFile == "" {
		return write(cmd.OutOrStdout())
	}
	return writeFile(chartsOutFile, write)
}

// createOutput opens the --out destination.
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// writeFile runs write against path. A failed Close is reported so a
// truncated file does not pass as success.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := createOutput(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()
	return write(f)
}
