package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/suzukaplayer/resilience/internal/core/config"
	"github.com/suzukaplayer/resilience/internal/engine"
	"github.com/suzukaplayer/resilience/internal/infra/probe"
	"github.com/suzukaplayer/resilience/internal/playback"
	"github.com/suzukaplayer/resilience/internal/status"
)

var (
	cfgPath      string
	isDebug      bool
	scenarioPath string
	timeScale    float64
)

var rootCmd = &cobra.Command{
	Use:   "resilience",
	Short: "Playback resilience engine",
	Long: `Resilience is the playback failure decision engine: it classifies player
errors, schedules retries with exponential backoff, and pauses automatic
progression when failures cascade. Run it standalone to replay failure
scenarios against a policy configuration and to serve status/metrics.`,
	Run: runEngine,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
	rootCmd.Flags().StringVar(&scenarioPath, "scenario", "", "scenario file to replay (optional)")
	rootCmd.Flags().Float64Var(&timeScale, "time-scale", 1, "divide retry delays during replay")
}

func setupLogging(cfg config.LoggingConfig) {
	level := slog.LevelInfo
	if isDebug || cfg.Level == "debug" {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC3339,
		})
	}
	slog.SetDefault(slog.New(handler))
}

func runEngine(cmd *cobra.Command, args []string) {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		setupLogging(config.LoggingConfig{})
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg.Logging)

	coord, err := engine.New(cfg.Resilience)
	if err != nil {
		slog.Error("Failed to initialize engine", "error", err)
		os.Exit(1)
	}

	var checker *probe.Checker
	if cfg.Probe.Enabled {
		checker = probe.New(cfg.Probe)
	}

	srv := status.NewServer(coord, cfg.Server.Port)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Status server stopped", "error", err)
		}
	}()
	slog.Info("Status server started", "port", cfg.Server.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if scenarioPath != "" {
		sc, err := playback.LoadScenario(scenarioPath)
		if err != nil {
			slog.Error("Failed to load scenario", "error", err)
			os.Exit(1)
		}

		done := make(chan error, 1)
		go func() {
			done <- playback.NewRunner(coord, checker, timeScale).Run(ctx, sc)
		}()

		select {
		case err := <-done:
			if err != nil {
				slog.Error("Replay aborted", "error", err)
			}
		case sig := <-sigChan:
			slog.Info("Received signal, cancelling replay", "signal", sig)
			cancel()
			<-done
		}
	} else {
		slog.Info("Engine running", "config", cfgPath)
		sig := <-sigChan
		slog.Info("Received signal, shutting down...", "signal", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Failed to stop status server", "error", err)
	}
}
