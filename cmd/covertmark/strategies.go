package covertmark

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/covertmark/covertmark/pkg/errors"
	"github.com/covertmark/covertmark/pkg/plan"
	"github.com/covertmark/covertmark/pkg/strategymap"
	"github.com/covertmark/covertmark/pkg/ui/display"
)

func newStrategiesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "strategies",
		Aliases: []string{"s"},
		Short:   MsgStrategiesShort,
		GroupID: "core",
	}
	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newShowCmd(a))
	cmd.AddCommand(newValidateCmd(a))
	cmd.AddCommand(newPlanCmd(a))
	cmd.AddCommand(newWatchCmd(a))
	return cmd
}

// strategyNamesCompletion completes strategy names from the configured map
func (a *app) strategyNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if a.cfg == nil {
		if err := a.setup(cmd); err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
	}
	reg, err := a.loadRegistry()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, name := range reg.List() {
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.loadRegistry()
			if err != nil {
				return a.fail(cmd, err)
			}

			result := &display.StrategyList{Source: reg.Source(), ID: reg.ID()}
			for _, d := range reg.Descriptors() {
				result.Strategies = append(result.Strategies, display.StrategyRow{
					Name:          d.Name,
					Module:        d.Module,
					Object:        d.Object,
					Runs:          len(d.Runs),
					NegativeInput: d.NegativeInput,
					Bound:         a.factories.Bound(d),
				})
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.RenderResult(result)
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "show NAME",
		Short:             MsgShowShort,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.strategyNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.loadRegistry()
			if err != nil {
				return a.fail(cmd, err)
			}
			desc, err := reg.Get(args[0])
			if err != nil {
				return a.fail(cmd, err)
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.RenderResult(&display.StrategyDetail{
				Source:     reg.Source(),
				Bound:      a.factories.Bound(desc),
				Descriptor: desc,
			})
		},
	}
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [FILE...]",
		Short: MsgValidateShort,
		Long:  MsgValidateLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := &display.ValidationReport{}
			if len(args) == 0 {
				reg, err := a.loadRegistry()
				report.Results = append(report.Results, validationResult(a.mapSource(), reg, err))
			}
			for _, path := range args {
				reg, err := strategymap.LoadFile(path, a.cfg.LoadOptions()...)
				report.Results = append(report.Results, validationResult(path, reg, err))
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			if err := r.RenderResult(report); err != nil {
				return err
			}

			if report.Failed() {
				failed := 0
				for _, res := range report.Results {
					if !res.Valid {
						failed++
					}
				}
				return &reportedError{err: errors.Newf(errors.ErrConfigInvalid, MsgValidateInvalid, failed, len(report.Results))}
			}
			return nil
		},
	}
}

func validationResult(source string, reg *strategymap.Registry, err error) display.ValidationResult {
	if err != nil {
		return display.ValidationResult{
			Source:   source,
			Error:    display.NewErrorResult(err).Message,
			Problems: errors.Problems(err),
		}
	}
	return display.ValidationResult{
		Source:     source,
		Valid:      true,
		Strategies: reg.List(),
		Warnings:   reg.Warnings(),
	}
}

func newPlanCmd(a *app) *cobra.Command {
	var (
		pt     []string
		neg    []string
		params []string
	)

	cmd := &cobra.Command{
		Use:               "plan NAME",
		Short:             MsgPlanShort,
		Long:              MsgPlanLong,
		Example:           MsgPlanExample,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.strategyNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseParams(params)
			if err != nil {
				return a.fail(cmd, err)
			}

			reg, err := a.loadRegistry()
			if err != nil {
				return a.fail(cmd, err)
			}
			desc, err := reg.Get(args[0])
			if err != nil {
				return a.fail(cmd, err)
			}
			if !a.factories.Bound(desc) {
				log.Warn().Str("strategy", desc.Name).Str("implementation", desc.Key()).Msg(MsgUnboundStrategy)
			}

			p, err := plan.Build(desc, plan.Inputs{
				PTAddresses:       pt,
				NegativeAddresses: neg,
				Params:            values,
			})
			if err != nil {
				return a.fail(cmd, err)
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.RenderResult(&display.PlanResult{Strategy: desc.Name, Runs: p.Runs})
		},
	}

	cmd.Flags().StringArrayVar(&pt, "pt", nil, MsgFlagPT)
	cmd.Flags().StringArrayVar(&neg, "neg", nil, MsgFlagNeg)
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, MsgFlagParam)
	return cmd
}

// parseParams splits name=value pairs. Values stay strings; the planner
// coerces them to the declared parameter types.
func parseParams(raw []string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(raw))
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, MsgErrParamFormat, kv)
		}
		out[name] = value
	}
	return out, nil
}

func newWatchCmd(a *app) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: MsgWatchShort,
		Long:  MsgWatchLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Strategies.Map == "" {
				return a.fail(cmd, errors.New(errors.ErrInvalidInput, MsgErrWatchEmbedded))
			}
			if metricsAddr == "" {
				metricsAddr = a.cfg.Watch.MetricsAddr
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			opts := []strategymap.HolderOption{strategymap.WithLoadOptions(a.cfg.LoadOptions()...)}
			var promReg *prometheus.Registry
			if metricsAddr != "" {
				promReg = prometheus.NewRegistry()
				metrics, err := strategymap.NewMetrics(promReg)
				if err != nil {
					return a.fail(cmd, errors.Wrap(err, errors.ErrInternal, "cannot register metrics"))
				}
				opts = append(opts, strategymap.WithMetrics(metrics))
			}

			holder, err := strategymap.NewHolder(a.cfg.Strategies.Map, opts...)
			if err != nil {
				return a.fail(cmd, err)
			}
			if err := r.RenderResult(reloadEvent(holder, holder.Current(), nil)); err != nil {
				return err
			}

			serveErr := make(chan error, 1)
			if promReg == nil {
				serveErr <- nil
			} else {
				log.Info().Str("addr", metricsAddr).Str("path", a.cfg.Watch.MetricsPath).Msg("Serving metrics")
				if !a.outputFormat().Machine() {
					_ = r.RenderMessage(fmt.Sprintf(MsgWatchMetrics, displayAddr(metricsAddr), a.cfg.Watch.MetricsPath))
				}
				go func() {
					err := serveMetrics(ctx, metricsAddr, a.cfg.Watch.MetricsPath, promReg)
					if err != nil {
						cancel()
					}
					serveErr <- err
				}()
			}

			werr := holder.Watch(ctx, func(reg *strategymap.Registry, err error) {
				if rerr := r.RenderResult(reloadEvent(holder, reg, err)); rerr != nil {
					log.Error().Err(rerr).Msg("Cannot render reload event")
				}
			})
			if ctx.Err() == nil {
				cancel()
				<-serveErr
				return a.fail(cmd, werr)
			}
			if err := <-serveErr; err != nil {
				return a.fail(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", MsgFlagMetricsAddr)
	return cmd
}

func reloadEvent(h *strategymap.Holder, reg *strategymap.Registry, err error) *display.ReloadEvent {
	event := &display.ReloadEvent{Time: time.Now(), Source: h.Path()}
	if err != nil {
		event.Error = display.NewErrorResult(err).Message
		return event
	}
	event.ID = reg.ID()
	event.Strategies = reg.Len()
	return event
}

// displayAddr turns ":9464" into "localhost:9464"
func displayAddr(addr string) string {
	if host, port, err := net.SplitHostPort(addr); err == nil && host == "" {
		return net.JoinHostPort("localhost", port)
	}
	return addr
}

// serveMetrics serves reg until ctx is done
func serveMetrics(ctx context.Context, addr, path string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return errors.Wrap(err, errors.ErrInternal, MsgErrMetricsServer)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, errors.ErrInternal, MsgErrMetricsServer)
		}
		return nil
	}
}
