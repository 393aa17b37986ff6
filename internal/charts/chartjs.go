// Package charts builds the Chart.js configurations rendered on the review dashboard.
package charts

import "encoding/json"

// Type is a Chart.js chart type.
type Type string

// Chart types used by the dashboard. Chart.js v4 dropped "horizontalBar";
// horizontal bars are "bar" with IndexAxisY.
const (
	TypeBar      Type = "bar"
	TypeLine     Type = "line"
	TypeDoughnut Type = "doughnut"
)

// IndexAxisY turns a bar chart horizontal.
const IndexAxisY = "y"

// Config is the object passed to `new Chart(ctx, config)`.
type Config struct {
	Type    Type    `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

// Data holds the category labels and the datasets drawn against them.
type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one numeric series plus its styling.
type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor Colors    `json:"backgroundColor"`
	BorderColor     Colors    `json:"borderColor"`
	BorderWidth     int       `json:"borderWidth"`
	Fill            *bool     `json:"fill,omitempty"`
}

// Options holds the chart options the dashboard sets.
type Options struct {
	Responsive bool             `json:"responsive"`
	IndexAxis  string           `json:"indexAxis,omitempty"`
	Scales     map[string]Scale `json:"scales,omitempty"`
	Plugins    *Plugins         `json:"plugins,omitempty"`
}

// Scale configures one axis.
type Scale struct {
	BeginAtZero bool `json:"beginAtZero"`
}

// Plugins configures Chart.js plugins.
type Plugins struct {
	Legend *Legend `json:"legend,omitempty"`
}

// Legend configures the legend plugin.
type Legend struct {
	Position string `json:"position"`
}

// Colors is a color option. One color is written as a plain string so it applies to
// every element; several are written as an array indexed per element.
type Colors []string

// MarshalJSON implements json.Marshaler.
func (c Colors) MarshalJSON() ([]byte, error) {
	if len(c) == 1 {
		return json.Marshal(c[0])
	}
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(c))
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Colors) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*c = Colors{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*c = many
	return nil
}

// Widget pairs a configuration with the canvas element it is drawn into.
type Widget struct {
	CanvasID string `json:"canvasId"`
	Title    string `json:"title"`
	Config   Config `json:"config"`
}
