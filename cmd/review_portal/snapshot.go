package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/review-portal/internal/charts"
	"github.com/jonathan/review-portal/internal/snapshot"
	"github.com/jonathan/review-portal/internal/web"
)

var (
	snapshotURL        string
	snapshotOutFile    string
	snapshotScreenshot string
	snapshotTimeout    time.Duration
	snapshotVerbose    bool
	snapshotNoBrowser  bool
)

// errChartsFailed is returned when the page rendered but some charts did not.
var errChartsFailed = errors.New("some charts failed to render")

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Render the dashboard in headless Chrome and check every chart",
	Long: `Loads a running dashboard in headless Chrome, waits for the chart script to
finish and verifies that every chart canvas is present and drawn. The rendered
HTML and an optional PNG screenshot can be saved. Requires Chrome or Chromium.`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotURL, "url", "u", "http://localhost:8080/dashboard", "Dashboard URL")
	snapshotCmd.Flags().StringVarP(&snapshotOutFile, "out", "o", "", "Write the rendered HTML here")
	snapshotCmd.Flags().StringVar(&snapshotScreenshot, "screenshot", "", "Write a full page PNG screenshot here")
	snapshotCmd.Flags().DurationVar(&snapshotTimeout, "timeout", snapshot.DefaultTimeout, "Render timeout")
	snapshotCmd.Flags().BoolVarP(&snapshotVerbose, "verbose", "v", false, "Log browser progress")
	snapshotCmd.Flags().BoolVar(&snapshotNoBrowser, "no-browser", false, "Fetch the page over plain HTTP and only check that the canvases exist")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	if snapshotNoBrowser && snapshotScreenshot != "" {
		return fmt.Errorf("--screenshot needs a browser; drop --no-browser")
	}

	var (
		res *snapshot.Result
		err error
	)
	if snapshotNoBrowser {
		res, err = snapshot.Fetch(cmd.Context(), snapshotURL, snapshotTimeout)
	} else {
		res, err = snapshot.Capture(cmd.Context(), snapshotURL, snapshot.Options{
			Timeout:    snapshotTimeout,
			Screenshot: snapshotScreenshot != "",
			Verbose:    snapshotVerbose,
		})
	}
	if err != nil {
		return err
	}

	if snapshotOutFile != "" {
		if err := os.WriteFile(snapshotOutFile, []byte(res.HTML), 0o644); err != nil {
			return fmt.Errorf("failed to write HTML: %w", err)
		}
	}
	if snapshotScreenshot != "" {
		if err := os.WriteFile(snapshotScreenshot, res.Screenshot, 0o644); err != nil {
			return fmt.Errorf("failed to write screenshot: %w", err)
		}
	}

	return checkSnapshot(res)
}

// checkSnapshot verifies every dashboard canvas exists and none failed to draw.
func checkSnapshot(res *snapshot.Result) error {
	if err := web.VerifyCanvases(res.HTML, charts.CanvasIDs); err != nil {
		return err
	}
	if len(res.Failed) > 0 {
		return fmt.Errorf("%w: %s", errChartsFailed, strings.Join(res.Failed, ", "))
	}
	log.Printf("[snapshot] All %d charts rendered", len(charts.CanvasIDs))
	return nil
}
