package strategymap

import (
	_ "embed"
)

//go:embed embedded/strategy_map.json
var defaultMap []byte

// DefaultSource names the embedded strategy map in logs and errors
const DefaultSource = "embedded:strategy_map.json"

// DefaultMap returns a copy of the embedded strategy map
func DefaultMap() []byte {
	out := make([]byte, len(defaultMap))
	copy(out, defaultMap)
	return out
}

// Default loads the strategy map shipped with the binary. The embedded map is
// always JSON whatever format opts select.
func Default(opts ...LoadOption) (*Registry, error) {
	opts = append(append([]LoadOption{WithSource(DefaultSource)}, opts...), WithFormat(FormatJSON))
	return Load(defaultMap, opts...)
}
