package types

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// ParamType is the declared type of a user parameter
type ParamType string

const (
	// ParamInt is a whole number
	ParamInt ParamType = "int"

	// ParamString is free text
	ParamString ParamType = "str"

	// ParamBool is true or false
	ParamBool ParamType = "bool"
)

// ParamTypes lists every known parameter type tag
var ParamTypes = []ParamType{ParamInt, ParamString, ParamBool}

// ParseParamType returns the type named by s. Matching is exact.
func ParseParamType(s string) (ParamType, error) {
	pt := ParamType(s)
	if !pt.Valid() {
		names := make([]string, len(ParamTypes))
		for i, t := range ParamTypes {
			names[i] = string(t)
		}
		return "", fmt.Errorf("unknown type tag %q (want one of %s)", s, strings.Join(names, ", "))
	}
	return pt, nil
}

// Valid reports whether t belongs to the closed set of type tags
func (t ParamType) Valid() bool {
	switch t {
	case ParamInt, ParamString, ParamBool:
		return true
	}
	return false
}

func (t ParamType) String() string { return string(t) }

// Zero returns the zero value used for type checking expressions
func (t ParamType) Zero() interface{} {
	switch t {
	case ParamInt:
		return int64(0)
	case ParamBool:
		return false
	default:
		return ""
	}
}

// Coerce converts a caller-supplied value to the Go type for t:
// int64 for int, string for str, bool for bool.
func (t ParamType) Coerce(raw interface{}) (interface{}, error) {
	switch t {
	case ParamInt:
		switch v := raw.(type) {
		case bool:
			return nil, fmt.Errorf("cannot use boolean %v as int", v)
		case float64:
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("cannot use %v as int", v)
			}
		case float32:
			if float64(v) != math.Trunc(float64(v)) {
				return nil, fmt.Errorf("cannot use %v as int", v)
			}
		case string:
			raw = strings.TrimSpace(v)
		}
		n, err := cast.ToInt64E(raw)
		if err != nil {
			return nil, fmt.Errorf("cannot use %q as int", fmt.Sprint(raw))
		}
		return n, nil
	case ParamString:
		s, err := cast.ToStringE(raw)
		if err != nil {
			return nil, fmt.Errorf("cannot use %v as str", raw)
		}
		return s, nil
	case ParamBool:
		if s, ok := raw.(string); ok {
			raw = strings.TrimSpace(s)
		}
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, fmt.Errorf("cannot use %q as bool", fmt.Sprint(raw))
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown type tag %q", string(t))
}

// FixedParam is a (name, value) pair supplied verbatim to every run.
// Value is one of string, bool, int64 or float64.
type FixedParam struct {
	Name  string
	Value interface{}
}

// MarshalJSON encodes the pair as a two-element array, like the source map
func (p FixedParam) MarshalJSON() ([]byte, error) {
	return marshalPair(p.Name, p.Value)
}

// MarshalYAML encodes the pair as a two-element sequence
func (p FixedParam) MarshalYAML() (interface{}, error) {
	return []interface{}{p.Name, p.Value}, nil
}

// UserParam declares a parameter the caller must supply at invocation time
type UserParam struct {
	Name string
	Type ParamType
}

// MarshalJSON encodes the pair as a two-element array, like the source map
func (p UserParam) MarshalJSON() ([]byte, error) {
	return marshalPair(p.Name, string(p.Type))
}

// MarshalYAML encodes the pair as a two-element sequence
func (p UserParam) MarshalYAML() (interface{}, error) {
	return []interface{}{p.Name, string(p.Type)}, nil
}

// NormalizeScalar checks that v is a primitive value and widens integers to
// int64. Floats stay float64 even when integral.
func NormalizeScalar(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case string, bool:
		return x, nil
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d out of range", x)
		}
		return int64(x), nil
	case float64:
		return x, nil
	case nil:
		return nil, fmt.Errorf("null is not a primitive value")
	default:
		return nil, fmt.Errorf("%T is not a primitive value", v)
	}
}
