package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/review-portal/internal/analytics"
	"github.com/jonathan/review-portal/internal/charts"
	"github.com/jonathan/review-portal/internal/schemas"
	"github.com/jonathan/review-portal/internal/types"
	"github.com/jonathan/review-portal/internal/web"
)

// dashboardSnapshot is the data behind every dashboard view.
type dashboardSnapshot struct {
	reviews    []types.Review
	chartData  *types.ChartData
	statistics types.Statistics
}

// loadDashboard reads reviews and the user count concurrently.
func (s *Server) loadDashboard(ctx context.Context) (*dashboardSnapshot, error) {
	var (
		reviews    []types.Review
		totalUsers int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reviews, err = s.store.ListAllReviews(gctx)
		if err != nil {
			return fmt.Errorf("failed to list reviews: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		totalUsers, err = s.store.CountUsers(gctx)
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dashboardSnapshot{
		reviews:    reviews,
		chartData:  analytics.BuildChartData(reviews),
		statistics: analytics.Statistics(reviews, totalUsers),
	}, nil
}

func (s *Server) buildWidgets(d *types.ChartData) []charts.Widget {
	if warnings := d.Misaligned(); len(warnings) > 0 {
		log.Printf("[dashboard] Misaligned chart series: %s", strings.Join(warnings, ", "))
	}
	widgets := charts.Build(d)
	s.metrics.observeWidgets(widgets)
	return widgets
}

func (s *Server) handleDashboardPage(w http.ResponseWriter, r *http.Request) {
	snap, err := s.loadDashboard(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	page, err := web.NewDashboardPage(s.cfg.ChartJSURL, snap.chartData, snap.statistics)
	if err != nil {
		serviceError(w, err)
		return
	}
	s.metrics.observeWidgets(page.Widgets)

	// Render into a buffer so a template failure can still produce a 500.
	var buf bytes.Buffer
	if err := web.RenderDashboard(&buf, page); err != nil {
		serviceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleDashboardData(w http.ResponseWriter, r *http.Request) {
	snap, err := s.loadDashboard(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, types.DashboardData{
		ChartData:            snap.chartData,
		Statistics:           snap.statistics,
		AveragePayByLocation: analytics.AveragePayByLocation(snap.reviews),
	})
}

func (s *Server) handleDashboardCharts(w http.ResponseWriter, r *http.Request) {
	snap, err := s.loadDashboard(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, s.buildWidgets(snap.chartData))
}

// handleDashboardECharts renders the same data with go-echarts.
func (s *Server) handleDashboardECharts(w http.ResponseWriter, r *http.Request) {
	snap, err := s.loadDashboard(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderECharts(&buf, snap.chartData); err != nil {
		serviceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// chartPreviewResponse is the body returned by POST /charts/preview.
type chartPreviewResponse struct {
	Widgets  []charts.Widget `json:"widgets"`
	Warnings []string        `json:"warnings"`
}

// handleChartPreview builds widgets from a client supplied ChartData document.
// Series with different lengths are reported as warnings, not rejected.
func (s *Server) handleChartPreview(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		errorResponse(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	d, err := schemas.ValidateChartData(raw)
	if err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			jsonResponse(w, http.StatusBadRequest, map[string]any{
				"error":   "invalid chart data",
				"details": ve.Errors,
			})
			return
		}
		var le *schemas.SchemaLoadError
		if errors.As(err, &le) {
			serviceError(w, err)
			return
		}
		serviceError(w, &ErrValidation{Message: err.Error()})
		return
	}

	warnings := d.Misaligned()
	if warnings == nil {
		warnings = []string{}
	}
	jsonResponse(w, http.StatusOK, chartPreviewResponse{
		Widgets:  s.buildWidgets(d),
		Warnings: warnings,
	})
}
