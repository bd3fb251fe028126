package strategymap

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the encoding of a strategy map resource
type Format string

const (
	// FormatAuto picks the format from the file extension or content
	FormatAuto Format = ""
	// FormatJSON is the canonical encoding
	FormatJSON Format = "json"
	// FormatYAML encodes the same structure in YAML
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatAuto, fmt.Errorf("unknown strategy map format: %s", s)
	}
}

// DetectFormat resolves FormatAuto using the path extension first and the
// first non-blank byte of data second. JSON is assumed when neither decides.
func DetectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}
