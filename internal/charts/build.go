package charts

import "github.com/jonathan/review-portal/internal/types"

// Canvas element IDs on the dashboard page.
const (
	LocationCanvasID  = "locationChart"
	CompanyCanvasID   = "companyChart"
	HourlyPayCanvasID = "hourlyPayChart"
	RatingCanvasID    = "ratingChart"
)

// CanvasIDs lists the dashboard canvases in render order.
var CanvasIDs = []string{LocationCanvasID, CompanyCanvasID, HourlyPayCanvasID, RatingCanvasID}

// Location builds the vertical bar chart of job counts per city.
func Location(d *types.ChartData) Config {
	d = orEmpty(d)
	return Config{
		Type: TypeBar,
		Data: Data{
			Labels: copyStrings(d.Cities),
			Datasets: []Dataset{{
				Label:           "# of Jobs",
				Data:            copyValues(d.JobCounts),
				BackgroundColor: Colors{blue.WithAlpha(fillAlpha).String()},
				BorderColor:     Colors{blue.String()},
				BorderWidth:     1,
			}},
		},
		Options: Options{
			Responsive: true,
			Scales:     map[string]Scale{"y": {BeginAtZero: true}},
		},
	}
}

// Company builds the horizontal bar chart of job counts per company.
func Company(d *types.ChartData) Config {
	d = orEmpty(d)
	return Config{
		Type: TypeBar,
		Data: Data{
			Labels: copyStrings(d.Companies),
			Datasets: []Dataset{{
				Label:           "# of Jobs",
				Data:            copyValues(d.CompanyJobCounts),
				BackgroundColor: Colors{teal.WithAlpha(fillAlpha).String()},
				BorderColor:     Colors{teal.String()},
				BorderWidth:     1,
			}},
		},
		Options: Options{
			Responsive: true,
			IndexAxis:  IndexAxisY,
			Scales:     map[string]Scale{"x": {BeginAtZero: true}},
		},
	}
}

// HourlyPay builds the unfilled line chart of hourly pay per job title.
func HourlyPay(d *types.ChartData) Config {
	d = orEmpty(d)
	fill := false
	return Config{
		Type: TypeLine,
		Data: Data{
			Labels: copyStrings(d.Titles),
			Datasets: []Dataset{{
				Label:           "Hourly Pay ($)",
				Data:            copyValues(d.HourlyPays),
				BackgroundColor: Colors{purple.WithAlpha(fillAlpha).String()},
				BorderColor:     Colors{purple.String()},
				BorderWidth:     2,
				Fill:            &fill,
			}},
		},
		Options: Options{
			Responsive: true,
			Scales:     map[string]Scale{"y": {BeginAtZero: true}},
		},
	}
}

// Rating builds the doughnut chart of review counts per rating.
// Segments are colored positionally from RatingPalette; Chart.js wraps the
// color arrays, so a sixth segment gets the first color again.
func Rating(d *types.ChartData) Config {
	d = orEmpty(d)
	return Config{
		Type: TypeDoughnut,
		Data: Data{
			Labels: copyStrings(d.Ratings),
			Datasets: []Dataset{{
				Label:           "# of Ratings",
				Data:            copyValues(d.RatingCounts),
				BackgroundColor: paletteColors(fillAlpha),
				BorderColor:     paletteColors(borderAlpha),
				BorderWidth:     1,
			}},
		},
		Options: Options{
			Responsive: true,
			Plugins:    &Plugins{Legend: &Legend{Position: "top"}},
		},
	}
}

// Build returns the four dashboard widgets in render order.
func Build(d *types.ChartData) []Widget {
	return []Widget{
		{CanvasID: LocationCanvasID, Title: "Jobs by Location", Config: Location(d)},
		{CanvasID: CompanyCanvasID, Title: "Jobs by Company", Config: Company(d)},
		{CanvasID: HourlyPayCanvasID, Title: "Hourly Pay by Title", Config: HourlyPay(d)},
		{CanvasID: RatingCanvasID, Title: "Ratings", Config: Rating(d)},
	}
}

func orEmpty(d *types.ChartData) *types.ChartData {
	if d == nil {
		return &types.ChartData{}
	}
	return d
}

// copyStrings returns a non-nil copy so empty series encode as [] and the
// caller's slice is never shared with the config.
func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyValues(in []float64) []float64 {
	out := make([]float64, len(in))
	copy(out, in)
	return out
}
