package web

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MissingCanvasError reports chart canvases absent from a rendered page.
type MissingCanvasError struct {
	IDs []string
}

func (e *MissingCanvasError) Error() string {
	return fmt.Sprintf("missing chart canvases: %s", strings.Join(e.IDs, ", "))
}

// VerifyCanvases checks that html contains a <canvas> element for every id.
// It returns a *MissingCanvasError naming the absent ones.
func VerifyCanvases(html string, ids []string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("failed to parse HTML: %w", err)
	}

	present := make(map[string]bool)
	doc.Find("canvas[id]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		present[id] = true
	})

	var missing []string
	for _, id := range ids {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &MissingCanvasError{IDs: missing}
	}
	return nil
}
