package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/jonathan/review-portal/internal/types"
)

// RenderECharts writes a standalone ECharts page holding the same four charts
// as the Chart.js dashboard, with matching chart IDs.
func RenderECharts(w io.Writer, d *types.ChartData) error {
	d = orEmpty(d)

	page := components.NewPage()
	page.PageTitle = "Job Review Dashboard"
	page.AddCharts(
		locationEChart(d),
		companyEChart(d),
		hourlyPayEChart(d),
		ratingEChart(d),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render echarts page: %w", err)
	}
	return nil
}

func initOpts(id string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		ChartID: id,
		Width:   "900px",
		Height:  "420px",
	})
}

func barItems(values []float64, color RGBA) []opts.BarData {
	items := make([]opts.BarData, len(values))
	for i, v := range values {
		items[i] = opts.BarData{Value: v, ItemStyle: &opts.ItemStyle{Color: color.WithAlpha(fillAlpha).String()}}
	}
	return items
}

func locationEChart(d *types.ChartData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(LocationCanvasID),
		charts.WithTitleOpts(opts.Title{Title: "Jobs by Location"}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0}),
	)
	bar.SetXAxis(copyStrings(d.Cities)).
		AddSeries("# of Jobs", barItems(d.JobCounts, blue))
	return bar
}

func companyEChart(d *types.ChartData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(CompanyCanvasID),
		charts.WithTitleOpts(opts.Title{Title: "Jobs by Company"}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0}),
	)
	bar.SetXAxis(copyStrings(d.Companies)).
		AddSeries("# of Jobs", barItems(d.CompanyJobCounts, teal))
	bar.XYReversal()
	return bar
}

func hourlyPayEChart(d *types.ChartData) *charts.Line {
	items := make([]opts.LineData, len(d.HourlyPays))
	for i, v := range d.HourlyPays {
		items[i] = opts.LineData{Value: v}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts(HourlyPayCanvasID),
		charts.WithTitleOpts(opts.Title{Title: "Hourly Pay by Title"}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0}),
	)
	line.SetXAxis(copyStrings(d.Titles)).
		AddSeries("Hourly Pay ($)", items,
			charts.WithLineStyleOpts(opts.LineStyle{Color: purple.String(), Width: 2}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: purple.String()}),
		)
	return line
}

func ratingEChart(d *types.ChartData) *charts.Pie {
	// Extra labels or values beyond the shorter series are dropped.
	n := min(len(d.Ratings), len(d.RatingCounts))
	items := make([]opts.PieData, n)
	for i := 0; i < n; i++ {
		items[i] = opts.PieData{
			Name:      d.Ratings[i],
			Value:     d.RatingCounts[i],
			ItemStyle: &opts.ItemStyle{Color: SegmentColor(i).WithAlpha(fillAlpha).String()},
		}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		initOpts(RatingCanvasID),
		charts.WithTitleOpts(opts.Title{Title: "Ratings"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "top"}),
	)
	pie.AddSeries("# of Ratings", items,
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
	)
	return pie
}
