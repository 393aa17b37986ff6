package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/review-portal/internal/snapshot"
	"github.com/jonathan/review-portal/internal/web"
)

const allCanvases = `<html><body>
<canvas id="locationChart"></canvas><canvas id="companyChart"></canvas>
<canvas id="hourlyPayChart"></canvas><canvas id="ratingChart"></canvas>
</body></html>`

func TestCheckSnapshot(t *testing.T) {
	require.NoError(t, checkSnapshot(&snapshot.Result{HTML: allCanvases}))

	err := checkSnapshot(&snapshot.Result{HTML: `<canvas id="locationChart"></canvas>`})
	var missing *web.MissingCanvasError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"companyChart", "hourlyPayChart", "ratingChart"}, missing.IDs)

	err = checkSnapshot(&snapshot.Result{HTML: allCanvases, Failed: []string{"ratingChart"}})
	assert.ErrorIs(t, err, errChartsFailed)
	assert.Contains(t, err.Error(), "ratingChart")
}

func TestSnapshotCommand_NoBrowser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(allCanvases))
	}))
	defer srv.Close()
	outFile := filepath.Join(t.TempDir(), "dashboard.html")

	_, err := runCLI(t, "snapshot", "--no-browser", "--url", srv.URL, "--out", outFile)
	require.NoError(t, err)

	saved, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(saved), "ratingChart")
}

func TestSnapshotCommand_NoBrowserMissingCanvas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body></body></html>`))
	}))
	defer srv.Close()

	_, err := runCLI(t, "snapshot", "--no-browser", "--url", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing chart canvases")
}

func TestSnapshotCommand_ScreenshotNeedsBrowser(t *testing.T) {
	_, err := runCLI(t, "snapshot", "--no-browser", "--screenshot", "x.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a browser")
}
