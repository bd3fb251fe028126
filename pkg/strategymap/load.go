package strategymap

import (
	"io"
	"os"

	"github.com/covertmark/covertmark/pkg/errors"
	"github.com/covertmark/covertmark/pkg/logging"
)

type loadOptions struct {
	format Format
	source string
	policy NegativeFilterPolicy
}

// LoadOption customizes Load
type LoadOption func(*loadOptions)

// WithFormat forces the resource encoding instead of detecting it
func WithFormat(f Format) LoadOption {
	return func(o *loadOptions) { o.format = f }
}

// WithSource names the resource in errors, logs and Registry.Source
func WithSource(source string) LoadOption {
	return func(o *loadOptions) { o.source = source }
}

// WithNegativeFilterPolicy selects how negative filters on strategies
// without negative input are treated
func WithNegativeFilterPolicy(p NegativeFilterPolicy) LoadOption {
	return func(o *loadOptions) { o.policy = p }
}

func buildOptions(opts []LoadOption) loadOptions {
	o := loadOptions{source: "<bytes>", policy: DefaultNegativeFilterPolicy}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Load parses and validates a strategy map. It returns either a fully valid
// Registry or a configuration error listing every problem found.
func Load(data []byte, opts ...LoadOption) (*Registry, error) {
	o := buildOptions(opts)
	logger := logging.GetLogger("strategymap").With().Str("source", o.source).Logger()

	format := o.format
	if format == FormatAuto {
		format = DetectFormat(o.source, data)
	}

	entries, err := decodeEntries(data, format)
	if err != nil {
		logger.Debug().Err(err).Str("format", string(format)).Msg("Strategy map failed to parse")
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse strategy map %s", o.source).
			WithDetail("source", o.source).
			WithDetail("format", string(format))
	}

	v := newValidator(o.policy)
	descriptors := v.validate(entries)
	if v.problems.Len() > 0 {
		logger.Debug().Int("problems", v.problems.Len()).Msg("Strategy map failed validation")
		return nil, errors.Newf(errors.ErrConfigInvalid, "strategy map %s is invalid (%d problem(s))", o.source, v.problems.Len()).
			WithDetail("source", o.source).
			WithProblems(v.problems.Items())
	}

	for _, w := range v.warnings.Items() {
		logger.Warn().Str("strategy", w.Strategy).Str("field", w.Field).Msg(w.Reason)
	}

	r := newRegistry(o.source, descriptors, v.warnings.Items())
	logger.Debug().
		Str("id", r.ID()).
		Int("strategies", r.Len()).
		Strs("names", r.List()).
		Msg("Strategy map loaded")
	return r, nil
}

// LoadReader reads the whole resource from rd and loads it
func LoadReader(rd io.Reader, format Format, opts ...LoadOption) (*Registry, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot read strategy map")
	}
	return Load(data, append([]LoadOption{WithFormat(format)}, opts...)...)
}

// LoadFile loads the strategy map at path. The format follows the file
// extension unless WithFormat is given.
func LoadFile(path string, opts ...LoadOption) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read strategy map %s", path).
			WithDetail("path", path)
	}
	return Load(data, append([]LoadOption{WithSource(path)}, opts...)...)
}
