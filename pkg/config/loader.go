package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/covertmark/covertmark/pkg/errors"
	"github.com/covertmark/covertmark/pkg/strategymap"
)

// EnvPrefix prefixes every environment variable read as configuration
const EnvPrefix = "COVERTMARK_"

// OutputFormats lists the accepted output.format values
var OutputFormats = []string{"auto", "term", "text", "json", "yaml"}

// Load resolves the configuration. An empty path reads DefaultPath when it
// exists; an explicit path must exist. Files ending in .yaml or .yml are read
// as YAML, anything else as TOML. Overrides, keyed like "output.format", win
// over every other layer; empty string values are skipped.
func Load(path string, overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load default configuration")
	}

	// 2. User config file
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
				WithDetail("path", path)
		}
	} else if explicit {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "config file %s not found", path).
			WithDetail("path", path)
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load env vars")
	}

	// 4. Command-line overrides
	if set := nonEmpty(overrides); len(set) > 0 {
		if err := k.Load(confmap.Provider(set, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to apply overrides")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

func nonEmpty(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// envKey maps COVERTMARK_STRATEGIES_NEGATIVE_FILTER_POLICY to
// strategies.negative_filter_policy. Sections are single words, so only the
// first underscore separates the section from the key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	var problems errors.ProblemList

	if _, err := strategymap.ParseFormat(c.Strategies.Format); err != nil {
		problems.Add("", errors.NoRun, "strategies.format", "%v", err)
	}
	if _, err := strategymap.ParseNegativeFilterPolicy(c.Strategies.NegativeFilterPolicy); err != nil {
		problems.Add("", errors.NoRun, "strategies.negative_filter_policy", "%v", err)
	}

	format := strings.ToLower(strings.TrimSpace(c.Output.Format))
	valid := format == ""
	for _, f := range OutputFormats {
		if format == f {
			valid = true
		}
	}
	if !valid {
		problems.Add("", errors.NoRun, "output.format", "unknown output format %q (want one of %s)", c.Output.Format, strings.Join(OutputFormats, ", "))
	}

	if c.Watch.MetricsPath != "" && !strings.HasPrefix(c.Watch.MetricsPath, "/") {
		problems.Add("", errors.NoRun, "watch.metrics_path", "must start with /")
	}

	return problems.Err(errors.ErrConfigInvalid, "configuration is invalid")
}

// LoadOptions returns the strategy map load options the configuration selects
func (c *Config) LoadOptions() []strategymap.LoadOption {
	var opts []strategymap.LoadOption
	if f, err := strategymap.ParseFormat(c.Strategies.Format); err == nil && f != strategymap.FormatAuto {
		opts = append(opts, strategymap.WithFormat(f))
	}
	if p, err := strategymap.ParseNegativeFilterPolicy(c.Strategies.NegativeFilterPolicy); err == nil {
		opts = append(opts, strategymap.WithNegativeFilterPolicy(p))
	}
	return opts
}
