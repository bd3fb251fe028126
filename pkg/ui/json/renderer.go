// Package json provides machine-readable JSON output
package json

import (
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/covertmark/covertmark/pkg/ui/display"
)

// Renderer provides JSON output for machine consumption
type Renderer struct {
	encoder *jsontext.Encoder
}

// New creates a new JSON renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{
		encoder: jsontext.NewEncoder(output, jsontext.WithIndent("  ")),
	}, nil
}

// RenderResult renders any result type as JSON
func (r *Renderer) RenderResult(result interface{}) error {
	return json.MarshalEncode(r.encoder, result)
}

// RenderError renders an error as JSON
func (r *Renderer) RenderError(err error) error {
	return json.MarshalEncode(r.encoder, map[string]display.ErrorResult{
		"error": display.NewErrorResult(err),
	})
}

// RenderMessage renders a simple message as JSON
func (r *Renderer) RenderMessage(msg string) error {
	return json.MarshalEncode(r.encoder, map[string]string{"message": msg})
}
