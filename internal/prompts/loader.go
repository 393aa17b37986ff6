// Package prompts holds the LLM prompt templates compiled into the binary.
//
// Each JSON file is a flat object of named templates. Placeholders use the
// {{.Name}} form and are filled by Render.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var files embed.FS

// Set is one parsed prompt file.
type Set map[string]string

var (
	mu     sync.RWMutex
	loaded = map[string]Set{}
)

// Load parses (once) and returns the prompt file with the given name.
func Load(filename string) (Set, error) {
	mu.RLock()
	set, ok := loaded[filename]
	mu.RUnlock()
	if ok {
		return set, nil
	}

	raw, err := files.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	mu.Lock()
	loaded[filename] = set
	mu.Unlock()
	return set, nil
}

// Keys lists the template names in the set, sorted.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get retrieves a prompt by filename (e.g. "chat.json") and key.
func Get(filename, key string) (string, error) {
	set, err := Load(filename)
	if err != nil {
		return "", err
	}
	text, ok := set[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return text, nil
}

// MustGet is Get for package-level prompt variables. It panics on error.
func MustGet(filename, key string) string {
	text, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return text
}

// Format fills {{.Name}} placeholders in a single pass, so substituted values
// are never expanded again. Unknown placeholders are left untouched.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, 2*len(data))
	for name, value := range data {
		pairs = append(pairs, "{{."+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Render looks up a prompt and formats it with data.
func Render(filename, key string, data map[string]string) (string, error) {
	text, err := Get(filename, key)
	if err != nil {
		return "", err
	}
	return Format(text, data), nil
}

// Reset forgets parsed files. Tests use it to exercise the load path.
func Reset() {
	mu.Lock()
	loaded = map[string]Set{}
	mu.Unlock()
}
