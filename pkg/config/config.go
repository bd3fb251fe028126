package config

// Config is the resolved application configuration
type Config struct {
	Strategies Strategies `koanf:"strategies" toml:"strategies"`
	Output     Output     `koanf:"output" toml:"output"`
	Logging    Logging    `koanf:"logging" toml:"logging"`
	Watch      Watch      `koanf:"watch" toml:"watch"`
}

// Strategies selects and loads the strategy map
type Strategies struct {
	Map                  string `koanf:"map" toml:"map"`
	Format               string `koanf:"format" toml:"format"`
	NegativeFilterPolicy string `koanf:"negative_filter_policy" toml:"negative_filter_policy"`
}

// Output controls how commands print results
type Output struct {
	Format string `koanf:"format" toml:"format"`
}

// Logging controls the log file
type Logging struct {
	File string `koanf:"file" toml:"file"`
}

// Watch configures "strategies watch"
type Watch struct {
	MetricsAddr string `koanf:"metrics_addr" toml:"metrics_addr"`
	MetricsPath string `koanf:"metrics_path" toml:"metrics_path"`
}
