// Package schemas validates JSON documents against JSON Schemas, including the
// embedded ChartData schema.
package schemas

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/review-portal/internal/types"
)

//go:embed chart_data.schema.json
var chartDataSchema string

// ChartDataSchema returns the embedded ChartData JSON Schema.
func ChartDataSchema() string {
	return chartDataSchema
}

var (
	compileOnce   sync.Once
	compiledChart *gojsonschema.Schema
	compileErr    error
)

func chartSchema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledChart, compileErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(chartDataSchema))
		if compileErr != nil {
			compileErr = &SchemaLoadError{Path: "chart_data.schema.json", Message: "invalid embedded schema", Cause: compileErr}
		}
	})
	return compiledChart, compileErr
}

// ValidationError lists every schema violation of a document.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

// FieldError is one violation at a field path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for _, err := range ve.Errors {
		fmt.Fprintf(&sb, " %s: %s;", err.Field, err.Message)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// SchemaLoadError reports a schema or document that could not be loaded.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}
	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}

// ValidateJSONString validates JSON content against schema content.
func ValidateJSONString(schemaContent, jsonContent string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewStringLoader(jsonContent),
	)
	if err != nil {
		return &SchemaLoadError{Path: "(string schema)", Message: "schema validation failed during load", Cause: err}
	}
	return toValidationError(result)
}

// ValidateChartData checks raw JSON against the ChartData schema and decodes it.
// Mismatched series lengths are allowed; see types.ChartData.Misaligned.
func ValidateChartData(raw []byte) (*types.ChartData, error) {
	schema, err := chartSchema()
	if err != nil {
		return nil, err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse chart data: %w", err)
	}
	if err := toValidationError(result); err != nil {
		return nil, err
	}

	var d types.ChartData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to decode chart data: %w", err)
	}
	return &d, nil
}

// ValidateChartDataFile reads and validates a ChartData document from disk.
func ValidateChartDataFile(path string) (*types.ChartData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart data %s: %w", path, err)
	}
	return ValidateChartData(raw)
}
