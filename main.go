package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/jokefeed/app"
	"github.com/CrestNiraj12/jokefeed/infra/config"
	"github.com/CrestNiraj12/jokefeed/infra/jokeapi"
	"github.com/CrestNiraj12/jokefeed/infra/logging"
	"github.com/CrestNiraj12/jokefeed/infra/metrics"
	"github.com/CrestNiraj12/jokefeed/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type runFunc func(ctx context.Context, cfg config.Config) error

func newRootCmd(run runFunc) *cobra.Command {
	var (
		configFile  string
		showVersion bool
	)
	v := config.NewViper()

	cmd := &cobra.Command{
		Use:           "jokefeed",
		Short:         "Browse two-part jokes from JokeAPI in the terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showVersion {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/jokefeed/config.yaml)")
	flags.Int("amount", app.DefaultJokesAmount, "jokes per screen")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. 127.0.0.1:9090")
	flags.BoolVarP(&showVersion, "version", "v", false, "print version information and exit")

	cobra.CheckErr(v.BindPFlag(config.KeyAmount, flags.Lookup("amount")))
	cobra.CheckErr(v.BindPFlag(config.KeyMetricsAddr, flags.Lookup("metrics-addr")))

	return cmd
}

func printVersion(w io.Writer) {
	v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
	fmt.Fprintf(w, "JokeFeed %s\ncommit: %s\nbuilt: %s\n", v, c, d)
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

func newHTTPClient(cfg config.Config) *http.Client {
	if cfg.SafeTransport {
		return jokeapi.NewSafeHTTPClient(cfg.Timeout)
	}
	return &http.Client{Timeout: cfg.Timeout}
}

func runTUI(ctx context.Context, cfg config.Config) error {
	// 1. Logging goes to a file; stdout belongs to the TUI.
	logger, err := logging.New(cfg.LogLevel, cfg.LogPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// 2. Metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)
	if cfg.MetricsAddr != "" {
		srv, err := metrics.Serve(cfg.MetricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics server shutdown", zap.Error(err))
			}
		}()
	}

	// 3. Transport and repository.
	client := jokeapi.NewClient(cfg.BaseURL,
		jokeapi.WithHTTPClient(newHTTPClient(cfg)),
		jokeapi.WithRateLimit(cfg.RequestsPerSecond, cfg.RequestBurst),
		jokeapi.WithLogger(logger.Named("jokeapi")),
		jokeapi.WithRecorder(collector),
	)
	repo := jokeapi.NewJokeRepository(client, jokeapi.Filter{
		Category:       cfg.Category,
		Type:           cfg.JokeType,
		BlacklistFlags: cfg.BlacklistFlags,
	})

	// 4. Use case and projector. Construction starts the first download.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	uc := app.NewGetJokes(repo,
		app.WithLogger(logger.Named("jokes")),
		app.WithRunRecorder(collector),
	)
	projector := app.NewProjector(ctx, uc,
		app.WithInitialAmount(cfg.Amount),
		app.WithProjectorLogger(logger.Named("projector")),
	)
	defer func() {
		cancel()
		projector.Close()
		projector.Wait()
	}()

	logger.Info("jokefeed starting",
		zap.String("base_url", cfg.BaseURL),
		zap.String("category", cfg.Category),
		zap.Int("amount", cfg.Amount),
	)

	// 5. Run.
	rootModel := tui.NewApp(tui.Deps{
		Jokes:    projector,
		Amount:   cfg.Amount,
		Category: cfg.Category,
	})
	p := tea.NewProgram(rootModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "running terminal UI")
	}
	return nil
}

func main() {
	if err := newRootCmd(runTUI).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "jokefeed: %+v\n", err)
		os.Exit(1)
	}
}
