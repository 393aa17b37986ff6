package snapshot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<html><body><canvas id="locationChart"></canvas></body></html>`))
	}))
	defer srv.Close()

	res, err := Fetch(context.Background(), srv.URL, time.Second)

	require.NoError(t, err)
	assert.Contains(t, res.HTML, `<canvas id="locationChart">`)
	assert.Empty(t, res.Failed)
	assert.Equal(t, userAgent, gotUA)
}

func TestFetch_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		url     string
		wantMsg string
	}{
		{"relative url", "/dashboard", "invalid URL"},
		{"server error", srv.URL, "HTTP status 500"},
		{"unreachable", "http://127.0.0.1:1/dashboard", "HTTP request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Fetch(context.Background(), tt.url, time.Second)
			require.Error(t, err)
			assert.Nil(t, res)

			var fe *FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.url, fe.URL)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
