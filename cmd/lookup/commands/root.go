package commands

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/WessleyAI/vehicle-lookup/engine/vpic"
	"github.com/WessleyAI/vehicle-lookup/pkg/metrics"
	"github.com/WessleyAI/vehicle-lookup/pkg/resilience"
)

const vpicDefaultTimeout = 10 * time.Second

// app is what PersistentPreRunE hands to every subcommand.
type app struct {
	configPath string
	baseURL    string
	port       string

	cfg Config
	now func() time.Time
}

// Execute runs the lookup CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	a := &app{now: time.Now}
	root := &cobra.Command{
		Use:           "lookup",
		Short:         "Look up vehicle models by make and model year",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(a.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("base-url") {
				cfg.VPIC.BaseURL = a.baseURL
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = a.port
			}
			a.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.config/vehicle-lookup/config.toml)")
	root.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "vPIC API base URL (default "+vpic.DefaultBaseURL+")")
	root.PersistentFlags().StringVar(&a.port, "port", "", "HTTP port for serve (default 8080)")

	root.AddCommand(serveCmd(a), tuiCmd(a), makesCmd(a), modelsCmd(a), eventsCmd(a))
	return root
}

// newVPICClient builds the upstream client the way every command needs it.
// onChange may be nil.
func (a *app) newVPICClient(reg *metrics.Registry, onChange func(from, to resilience.State)) (*vpic.Client, *resilience.Breaker, error) {
	breaker := resilience.NewBreaker(resilience.BreakerOpts{
		FailThreshold: resilience.DefaultBreakerOpts.FailThreshold,
		Timeout:       resilience.DefaultBreakerOpts.Timeout,
		IsFailure:     resilience.IgnoreCanceled,
		OnStateChange: onChange,
	})
	client, err := vpic.New(vpic.Options{
		BaseURL: a.cfg.VPIC.BaseURL,
		Timeout: a.cfg.VPIC.Timeout,
		Rate:    a.cfg.VPIC.Rate,
		Burst:   a.cfg.VPIC.Burst,
		Breaker: breaker,
		Metrics: reg,
	})
	if err != nil {
		return nil, nil, err
	}
	return client, breaker, nil
}

// newLogger returns a JSON logger at the configured level.
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// commandContext bounds one-shot commands by the client timeout plus slack
// for the rate limiter.
func (a *app) commandContext(parent context.Context) (context.Context, context.CancelFunc) {
	timeout := a.cfg.VPIC.Timeout
	if timeout <= 0 {
		timeout = vpicDefaultTimeout
	}
	return context.WithTimeout(parent, 2*timeout)
}

