package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"aurorad/internal/config"
	"aurorad/internal/httpapi"
	"aurorad/internal/manager"
	"aurorad/internal/metrics"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	root := &cobra.Command{
		Use:           "aurorad",
		Short:         "Aurora inference runtime: serves a pre-trained regression model over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, cfgFile)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	root.Flags().StringVar(&cfgFile, "config", "", "Optional config file (yaml, json, or toml)")
	root.Flags().String("addr", "", "HTTP listen address (defaults AURORAD_ADDR or :8080)")
	root.Flags().String("model-path", "", "Path of the model artifact (defaults MODEL_PATH)")
	root.Flags().String("metadata-path", "", "Path of the metadata JSON (defaults MODEL_VERSION_FILE)")
	root.Flags().String("log-level", "", "Log level: debug|info|warn|error (defaults AURORAD_LOG_LEVEL or info)")
	root.Flags().String("cors-origins", "", "Comma-separated CORS origins (empty disables CORS)")
	return root
}

// resolveConfig layers configuration: env first, then the optional config
// file, then explicit flags.
func resolveConfig(cmd *cobra.Command, cfgFile string) (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return cfg, err
	}
	if cfgFile != "" {
		fileCfg, err := config.Load(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		cfg.Apply(fileCfg)
	}
	var overlay config.Config
	if cmd.Flags().Changed("addr") {
		overlay.Addr, _ = cmd.Flags().GetString("addr")
	}
	if cmd.Flags().Changed("model-path") {
		overlay.ModelPath, _ = cmd.Flags().GetString("model-path")
	}
	if cmd.Flags().Changed("metadata-path") {
		overlay.MetadataPath, _ = cmd.Flags().GetString("metadata-path")
	}
	if cmd.Flags().Changed("log-level") {
		overlay.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("cors-origins") {
		overlay.CORSOrigins, _ = cmd.Flags().GetString("cors-origins")
	}
	cfg.Apply(overlay)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func run(cfg config.Config) error {
	logger := newLogger(cfg.LogLevel)

	mtx := metrics.New()
	mgr := manager.New(manager.Config{
		ModelPath:    cfg.ModelPath,
		MetadataPath: cfg.MetadataPath,
	}, mtx, logger)
	// Startup load failures degrade the service instead of aborting:
	// health and metrics keep serving, predictions return 503.
	_ = mgr.Load()

	httpapi.SetLogger(logger)
	httpapi.SetAPIKey(cfg.APIKey)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	if origins := splitCSV(cfg.CORSOrigins); len(origins) > 0 {
		httpapi.SetCORSOptions(true, origins,
			[]string{http.MethodGet, http.MethodPost},
			[]string{"Content-Type", "X-API-Key"})
	}

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	mux := httpapi.NewMux(mgr, mtx)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("model_path", cfg.ModelPath).Msg("aurorad listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	switch level {
	case "debug":
		lvl = zerolog.DebugLevel
	case "warn":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

// splitCSV splits a comma-separated list, trimming whitespace and dropping
// empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
