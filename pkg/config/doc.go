// Package config loads covertmark's own settings.
//
// Values are layered, later layers winning: the defaults embedded in the
// binary, the user's config file, then COVERTMARK_* environment variables.
package config
