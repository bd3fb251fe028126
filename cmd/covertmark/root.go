package covertmark

import (
	stderrors "errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/covertmark/covertmark/internal/version"
	"github.com/covertmark/covertmark/pkg/config"
	"github.com/covertmark/covertmark/pkg/logging"
	"github.com/covertmark/covertmark/pkg/strategies"
	"github.com/covertmark/covertmark/pkg/strategymap"
	"github.com/covertmark/covertmark/pkg/ui"
)

// app is the state shared by every command of one invocation
type app struct {
	verbosity  int
	mapPath    string
	mapFormat  string
	format     string
	configPath string

	cfg       *config.Config
	factories *strategies.Table
}

// NewRootCmd creates the root command bound to the default factory table
func NewRootCmd() *cobra.Command {
	return newRootCmd(strategies.Default())
}

func newRootCmd(factories *strategies.Table) *cobra.Command {
	initTemplateFormatting()

	a := &app{factories: factories}

	rootCmd := &cobra.Command{
		Use:     "covertmark",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&a.mapPath, "map", "", MsgFlagMap)
	flags.StringVar(&a.mapFormat, "format-map", "", MsgFlagMapFormat)
	flags.StringVarP(&a.format, "format", "o", "", MsgFlagFormat)
	flags.StringVar(&a.configPath, "config", "", MsgFlagConfig)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newStrategiesCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// setup resolves the configuration, then configures logging from it
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, map[string]interface{}{
		"strategies.map":    a.mapPath,
		"strategies.format": a.mapFormat,
		"output.format":     a.format,
	})
	if err != nil {
		logging.SetupLogger(a.verbosity)
		return err
	}
	a.cfg = cfg

	logging.SetupLogger(a.verbosity, logging.WithLogFile(cfg.Logging.File), logging.WithConsole(cmd.ErrOrStderr()))
	logging.LogCommand(cmd.CommandPath(), cmd.Flags().Args())
	log.Debug().Str("command", cmd.Name()).Str("map", a.mapSource()).Msg("Command started")
	return nil
}

func (a *app) mapSource() string {
	if a.cfg == nil || a.cfg.Strategies.Map == "" {
		return strategymap.DefaultSource
	}
	return a.cfg.Strategies.Map
}

// loadRegistry loads the configured map, falling back to the built-in one
func (a *app) loadRegistry() (*strategymap.Registry, error) {
	if a.cfg.Strategies.Map == "" {
		return strategymap.Default(a.cfg.LoadOptions()...)
	}
	return strategymap.LoadFile(a.cfg.Strategies.Map, a.cfg.LoadOptions()...)
}

func (a *app) outputFormat() ui.Format {
	// validated by config.Load
	format, _ := ui.ParseFormat(a.cfg.Output.Format)
	return format
}

func (a *app) renderer(cmd *cobra.Command) (ui.Renderer, error) {
	return ui.NewRenderer(a.outputFormat(), cmd.OutOrStdout())
}

// reportedError marks an error whose details were already rendered
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// IsReported reports whether err was already shown to the user by the
// command that returned it
func IsReported(err error) bool {
	var r *reportedError
	return stderrors.As(err, &r)
}

// fail renders err in the selected output format and marks it reported.
// When no renderer can be built err is returned unchanged.
func (a *app) fail(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	r, rerr := ui.NewRenderer(a.outputFormat(), cmd.ErrOrStderr())
	if rerr != nil {
		return err
	}
	if rerr := r.RenderError(err); rerr != nil {
		return err
	}
	return &reportedError{err: err}
}
