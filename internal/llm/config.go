// Package llm wraps the Gemini API for the review chat.
package llm

// Config holds the generation settings sent with each request.
type Config struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	CandidateCount  int32
}

// DefaultConfig returns the settings used by the review chat.
func DefaultConfig() *Config {
	return &Config{
		Model:           "gemini-1.5-flash",
		Temperature:     0.8,
		MaxOutputTokens: 8192,
		CandidateCount:  1,
	}
}

// WithModel returns a copy of c using model. An empty model leaves c unchanged.
func (c *Config) WithModel(model string) *Config {
	out := *c
	if model != "" {
		out.Model = model
	}
	return &out
}
