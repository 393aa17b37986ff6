// Package web renders the review dashboard page and serves its static assets.
package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/jonathan/review-portal/internal/charts"
	"github.com/jonathan/review-portal/internal/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html.tmpl"))

// DashboardPage is the view model of the dashboard template.
type DashboardPage struct {
	Title       string
	ChartJSURL  string
	Statistics  types.Statistics
	Widgets     []charts.Widget
	Warnings    []string
	WidgetsJSON template.JS
}

// NewDashboardPage builds the page for d. Misaligned series become warnings.
func NewDashboardPage(chartJSURL string, d *types.ChartData, stats types.Statistics) (*DashboardPage, error) {
	widgets := charts.Build(d)
	payload, err := json.Marshal(widgets)
	if err != nil {
		return nil, fmt.Errorf("failed to encode widgets: %w", err)
	}

	return &DashboardPage{
		Title:       "Job Review Dashboard",
		ChartJSURL:  chartJSURL,
		Statistics:  stats,
		Widgets:     widgets,
		Warnings:    d.Misaligned(),
		WidgetsJSON: template.JS(payload),
	}, nil
}

// RenderDashboard writes the dashboard HTML for page.
func RenderDashboard(w io.Writer, page *DashboardPage) error {
	if err := dashboardTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	return nil
}

// StaticHandler serves the embedded dashboard assets under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
