package types

// ChartData is the input shared by the four dashboard charts.
// Each label series is paired with the value series that follows it.
type ChartData struct {
	Cities           []string  `json:"cities"`
	JobCounts        []float64 `json:"jobCounts"`
	Companies        []string  `json:"companies"`
	CompanyJobCounts []float64 `json:"companyJobCounts"`
	Titles           []string  `json:"titles"`
	HourlyPays       []float64 `json:"hourlyPays"`
	Ratings          []string  `json:"ratings"`
	RatingCounts     []float64 `json:"ratingCounts"`
}

// Misaligned returns the names of label/value pairs whose lengths differ.
// A mismatch is not fatal: charts still render, the extra entries are ignored.
func (d *ChartData) Misaligned() []string {
	if d == nil {
		return nil
	}
	var out []string
	if len(d.Cities) != len(d.JobCounts) {
		out = append(out, "cities/jobCounts")
	}
	if len(d.Companies) != len(d.CompanyJobCounts) {
		out = append(out, "companies/companyJobCounts")
	}
	if len(d.Titles) != len(d.HourlyPays) {
		out = append(out, "titles/hourlyPays")
	}
	if len(d.Ratings) != len(d.RatingCounts) {
		out = append(out, "ratings/ratingCounts")
	}
	return out
}

// Statistics summarizes the review corpus for the dashboard header.
type Statistics struct {
	TotalReviews     int     `json:"total_reviews"`
	TotalUsers       int     `json:"total_users"`
	TotalCompanies   int     `json:"total_companies"`
	TotalLocations   int     `json:"total_locations"`
	AverageHourlyPay float64 `json:"average_hourly_pay"`
	AverageRating    float64 `json:"average_rating"`
}

// DashboardData is the JSON payload behind the dashboard page.
type DashboardData struct {
	ChartData            *ChartData                    `json:"chartData"`
	Statistics           Statistics                    `json:"statistics"`
	AveragePayByLocation map[string]map[string]float64 `json:"averagePayByLocation"`
}
