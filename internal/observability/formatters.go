// Package observability prints human-readable summaries for verbose CLI output.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/review-portal/internal/charts"
	"github.com/jonathan/review-portal/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeSeries lists the first entries of a label/value series.
func writeSeries(sb *strings.Builder, name string, labels []string, values []float64) {
	fmt.Fprintf(sb, "%s (%d labels, %d values)\n", name, len(labels), len(values))
	count := min(len(labels), len(values), maxItemsToShow)
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "  • %s: %g\n", labels[i], values[i])
	}
	if n := min(len(labels), len(values)); n > maxItemsToShow {
		fmt.Fprintf(sb, "  ... and %d more\n", n-maxItemsToShow)
	}
}

// PrintChartData outputs the first entries of each dashboard series and any
// series whose lengths differ.
func (p *Printer) PrintChartData(d *types.ChartData) {
	if d == nil {
		return
	}

	var sb strings.Builder
	writeSeries(&sb, "Locations", d.Cities, d.JobCounts)
	writeSeries(&sb, "Companies", d.Companies, d.CompanyJobCounts)
	writeSeries(&sb, "Hourly pay", d.Titles, d.HourlyPays)
	writeSeries(&sb, "Ratings", d.Ratings, d.RatingCounts)

	if warnings := d.Misaligned(); len(warnings) > 0 {
		sb.WriteString("\nMisaligned:\n")
		for _, w := range warnings {
			fmt.Fprintf(&sb, "  ! %s\n", w)
		}
	}

	p.printBox("CHART DATA", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWidgets outputs one line per widget: canvas, chart type and point count.
func (p *Printer) PrintWidgets(widgets []charts.Widget) {
	if len(widgets) == 0 {
		return
	}

	var sb strings.Builder
	for i, w := range widgets {
		points := 0
		if len(w.Config.Data.Datasets) > 0 {
			points = len(w.Config.Data.Datasets[0].Data)
		}
		fmt.Fprintf(&sb, "#%d  %-16s %-9s %d points", i+1, w.CanvasID, w.Config.Type, points)
		if i < len(widgets)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("DASHBOARD WIDGETS", sb.String())
}

// PrintStatistics outputs the dashboard header figures.
func (p *Printer) PrintStatistics(stats types.Statistics) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Reviews:    %d\n", stats.TotalReviews)
	fmt.Fprintf(&sb, "Users:      %d\n", stats.TotalUsers)
	fmt.Fprintf(&sb, "Companies:  %d\n", stats.TotalCompanies)
	fmt.Fprintf(&sb, "Locations:  %d\n", stats.TotalLocations)
	fmt.Fprintf(&sb, "Avg pay:    $%.2f/h\n", stats.AverageHourlyPay)
	fmt.Fprintf(&sb, "Avg rating: %.2f", stats.AverageRating)

	p.printBox("STATISTICS", sb.String())
}
