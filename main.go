package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classifier_server/adapter/in/batch"
	"classifier_server/config"
	"classifier_server/internal/bootstrap"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	shutdownTimeout = 30 * time.Second // Maximum time to wait for graceful shutdown
)

func main() {
	// Load .env file if exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	mode := flag.String("mode", "server", "Run mode: server, batch")
	input := flag.String("input", "", "Batch mode: input CSV path")
	output := flag.String("output", "", "Batch mode: output CSV path")
	summary := flag.String("summary", "", "Batch mode: summary JSON path (optional)")
	idCol := flag.String("id-col", "id", "Batch mode: ID column name")
	textCol := flag.String("text-col", "question", "Batch mode: question column name")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	switch *mode {
	case "server":
		runServer(cfg)
	case "batch":
		runBatch(cfg, batch.Options{
			InputPath:   *input,
			OutputPath:  *output,
			SummaryPath: *summary,
			IDColumn:    *idCol,
			TextColumn:  *textCol,
		})
	default:
		log.Fatal().Str("mode", *mode).Msg("Unknown mode")
	}
}

func runServer(cfg *config.Config) {
	app, deps, cleanup, err := bootstrap.NewAPI(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize API")
	}
	defer cleanup()
	zlog := deps.Log

	// Graceful shutdown with timeout
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		zlog.Info().Dur("timeout", shutdownTimeout).Msg("shutting down API server")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			done <- app.Shutdown()
		}()

		select {
		case err := <-done:
			if err != nil {
				zlog.Error().Err(err).Msg("error shutting down")
			} else {
				zlog.Info().Msg("API server shut down gracefully")
			}
		case <-ctx.Done():
			zlog.Warn().Msg("API shutdown timed out, forcing exit")
		}
	}()

	addr := ":" + cfg.Port
	zlog.Info().Str("addr", addr).Msg("starting API server")
	if err := app.Listen(addr); err != nil {
		zlog.Fatal().Err(err).Msg("failed to start server")
	}
}

func runBatch(cfg *config.Config, opts batch.Options) {
	if opts.InputPath == "" || opts.OutputPath == "" {
		log.Fatal().Msg("batch mode requires -input and -output")
	}

	deps, cleanup, err := bootstrap.NewDependencies(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize dependencies")
	}
	defer cleanup()

	// Cancel the batch on SIGINT; already classified rows still get written.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := batch.NewRunner(deps.Router, deps.Lexical, deps.Schedule, deps.Log)
	if err := runner.Run(ctx, opts); err != nil {
		deps.Log.Fatal().Err(err).Msg("batch run failed")
	}
}
