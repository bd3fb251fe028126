package strategymap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"gopkg.in/yaml.v3"
)

// entry is one top-level strategy before validation. Value holds the
// generic decoded form: maps, slices and primitive values.
type entry struct {
	Name  string
	Value interface{}
}

// decodeEntries parses data into top-level entries in source order.
// Duplicate keys are rejected at every depth.
func decodeEntries(data []byte, format Format) ([]entry, error) {
	switch format {
	case FormatYAML:
		return decodeYAML(data)
	default:
		return decodeJSON(data)
	}
}

func decodeJSON(data []byte) ([]entry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("document is empty")
	}
	dec := jsontext.NewDecoder(bytes.NewReader(data))

	tok, err := dec.ReadToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("document is empty")
		}
		return nil, err
	}
	if tok.Kind() != '{' {
		return nil, fmt.Errorf("top level must be an object keyed by strategy name, got %s", tok.Kind())
	}

	var entries []entry
	for dec.PeekKind() == '"' {
		nameTok, err := dec.ReadToken()
		if err != nil {
			return nil, err
		}
		// Tokens are invalidated by the next read
		name := nameTok.String()

		value, err := readJSONValue(dec)
		if err != nil {
			return nil, fmt.Errorf("strategy %q: %w", name, err)
		}
		entries = append(entries, entry{Name: name, Value: value})
	}

	// Consume the closing brace; anything else here is a syntax error
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}
	if _, err := dec.ReadToken(); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, fmt.Errorf("unexpected data after the top-level object")
		}
		return nil, err
	}

	return entries, nil
}

// readJSONValue decodes the next value into maps, slices and primitives.
// Numbers keep their literal form: int64 without a fraction or exponent,
// float64 otherwise.
func readJSONValue(dec *jsontext.Decoder) (interface{}, error) {
	switch dec.PeekKind() {
	case '{':
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		obj := make(map[string]interface{})
		for dec.PeekKind() == '"' {
			keyTok, err := dec.ReadToken()
			if err != nil {
				return nil, err
			}
			key := keyTok.String()
			value, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			obj[key] = value
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		list := []interface{}{}
		for kind := dec.PeekKind(); kind != ']' && kind != 0; kind = dec.PeekKind() {
			value, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, value)
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return list, nil
	case '0':
		raw, err := dec.ReadValue()
		if err != nil {
			return nil, err
		}
		return parseJSONNumber(string(raw))
	default:
		raw, err := dec.ReadValue()
		if err != nil {
			return nil, err
		}
		var value interface{}
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, err
		}
		return value, nil
	}
}

func parseJSONNumber(lit string) (interface{}, error) {
	if strings.ContainsAny(lit, ".eE") {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, fmt.Errorf("number %s out of range", lit)
		}
		return f, nil
	}
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("integer %s out of range", lit)
	}
	return n, nil
}

func decodeYAML(data []byte) ([]entry, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, fmt.Errorf("document is empty")
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: top level must be a mapping keyed by strategy name", doc.Line)
	}

	seen := make(map[string]int, len(doc.Content)/2)
	entries := make([]entry, 0, len(doc.Content)/2)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, node := doc.Content[i], doc.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: strategy names must be scalars", key.Line)
		}
		if line, dup := seen[key.Value]; dup {
			return nil, fmt.Errorf("line %d: strategy %q already defined at line %d", key.Line, key.Value, line)
		}
		seen[key.Value] = key.Line

		var value interface{}
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("strategy %q: %w", key.Value, err)
		}
		entries = append(entries, entry{Name: key.Value, Value: value})
	}

	return entries, nil
}
