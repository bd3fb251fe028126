package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName is used for config and state directories
const AppName = "covertmark"

// DefaultPath returns $XDG_CONFIG_HOME/covertmark/config.toml
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.toml")
}
