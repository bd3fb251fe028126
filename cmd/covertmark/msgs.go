package covertmark

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort        = "Inspect and validate CovertMark strategy maps"
	MsgStrategiesShort  = "Work with the strategy map"
	MsgListShort        = "List strategies in map order"
	MsgShowShort        = "Show one strategy in full"
	MsgValidateShort    = "Validate strategy map files"
	MsgPlanShort        = "Show the runs a strategy would execute"
	MsgWatchShort       = "Reload the strategy map when it changes"
	MsgConfigShort      = "Show or create the configuration file"
	MsgConfigShowShort  = "Print the effective configuration"
	MsgConfigInitShort  = "Print or write a default configuration file"
	MsgVersionShort     = "Print version information"
	MsgCompletionShort  = "Generate shell completion script"
	MsgConfigInitLong   = "Print the default configuration with every value commented out.\n\nWith --write the file is written to --config or the default location instead."
	MsgValidateInvalid  = "%d of %d strategy map(s) failed validation"
	MsgConfigWritten    = "Wrote %s"
	MsgWatchMetrics     = "Serving metrics on http://%s%s"
	MsgVersionFormat    = "covertmark version %s\n  commit: %s\n  built:  %s\n"
	MsgUnboundStrategy  = "Strategy has no registered implementation"
	MsgErrParamFormat   = "parameter %q must be written as name=value"
	MsgErrNoCommand     = "no command specified"
	MsgErrWatchEmbedded = "watch needs a strategy map file, set --map or strategies.map"
	MsgErrMetricsServer = "metrics server failed"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagMap         = "Strategy map file (default: the configured map, else the built-in one)"
	MsgFlagFormat      = "Output format: auto, term, text, json or yaml"
	MsgFlagConfig      = "Configuration file (default $XDG_CONFIG_HOME/covertmark/config.toml)"
	MsgFlagMapFormat   = "Strategy map encoding: auto, json or yaml"
	MsgFlagPT          = "Address for the next pt filter (repeatable)"
	MsgFlagNeg         = "Address for the next negative filter (repeatable)"
	MsgFlagParam       = "User parameter as name=value (repeatable)"
	MsgFlagMetricsAddr = "Serve Prometheus metrics on this address, e.g. :9464"
	MsgFlagWrite       = "Write the file instead of printing it"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"

	//go:embed msgs/validate-long.txt
	msgValidateLongRaw string
	MsgValidateLong    = strings.TrimSpace(msgValidateLongRaw)

	//go:embed msgs/plan-long.txt
	msgPlanLongRaw string
	MsgPlanLong    = strings.TrimSpace(msgPlanLongRaw)

	//go:embed msgs/plan-example.txt
	msgPlanExampleRaw string
	MsgPlanExample    = strings.TrimRight(msgPlanExampleRaw, "\n")

	//go:embed msgs/watch-long.txt
	msgWatchLongRaw string
	MsgWatchLong    = strings.TrimSpace(msgWatchLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
