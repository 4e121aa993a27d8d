package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/recorder/bootstrap"
	"github.com/kbukum/recorder/conversation"
	"github.com/kbukum/recorder/database"
	apperrors "github.com/kbukum/recorder/errors"
	"github.com/kbukum/recorder/logger"
	"github.com/kbukum/recorder/observability"
	"github.com/kbukum/recorder/provider"
	"github.com/kbukum/recorder/server"
	"github.com/kbukum/recorder/server/middleware"
	"github.com/kbukum/recorder/storage"
	"github.com/kbukum/recorder/transcription"

	_ "github.com/kbukum/recorder/storage/azure"
	_ "github.com/kbukum/recorder/storage/local"
	_ "github.com/kbukum/recorder/storage/s3"
	_ "github.com/kbukum/recorder/transcription/azure"
	_ "github.com/kbukum/recorder/transcription/whisper"
)

const banner = "Conversation Recorder API is running"

type (
	speechRequest  = transcription.TranscriptionRequest
	speechResponse = *transcription.TranscriptionResponse
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Start the record store, the blob store and the HTTP server, then block
until SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if err := initTelemetry(ctx, app); err != nil {
		return err
	}

	db := database.NewComponent(cfg.Database, app.Logger).
		WithMigrations(conversation.Migrations()...)
	blobs := storage.NewComponent(cfg.Storage, app.Logger)
	if err := app.RegisterComponent(db); err != nil {
		return err
	}
	if err := app.RegisterComponent(blobs); err != nil {
		return err
	}

	app.OnConfigure(func(_ context.Context, a *bootstrap.App[*Config]) error {
		metrics, err := observability.DefaultMetrics()
		if err != nil {
			return err
		}
		transcriber, err := newTranscriber(a, metrics)
		if err != nil {
			return err
		}

		log := a.Logger.WithComponent("conversation")
		store := conversation.NewRepository(db.DB())
		ingester := conversation.NewIngester(store, blobs.Storage(), transcriber, log,
			conversation.WithMetrics(metrics),
			conversation.WithBlobBackend(a.Cfg.Storage.Provider),
		)
		svc := conversation.NewService(store, ingester, blobs.Storage(), log)

		srv := server.New(a.Cfg.Server, a.Logger)
		srv.ApplyMiddleware()
		conversation.NewHandler(svc, srv.Registry()).
			Register(srv.GinEngine(), middleware.RateLimit(a.Cfg.Server.RateLimit))
		srv.RegisterDefaultEndpoints(a.Name, banner, a.Components.HealthAll)
		for _, r := range srv.Routes() {
			a.Summary.TrackRoute(r.Method, r.Path, r.Handler)
		}
		return a.RegisterComponent(server.NewComponent(srv))
	})

	return app.Run(ctx)
}

// newTranscriber builds the configured speech backend. Missing credentials
// fail startup rather than the first upload.
func newTranscriber(a *bootstrap.App[*Config], metrics *observability.Metrics) (transcription.Provider, error) {
	p, err := transcription.New(a.Cfg.Transcription, nil)
	if err != nil {
		return nil, apperrors.Configuration("speech", err)
	}
	a.Logger.Info("transcription provider ready", logger.Fields(
		"provider", p.Name(),
		"language", a.Cfg.Transcription.Language,
	))
	return transcription.Wrap(p,
		provider.WithLogging[speechRequest, speechResponse](a.Logger.WithComponent("transcription")),
		provider.WithTracing[speechRequest, speechResponse]("transcription"),
		provider.WithMetrics[speechRequest, speechResponse](metrics),
	), nil
}

// initTelemetry installs OTLP exporters when enabled and flushes them on stop.
func initTelemetry(ctx context.Context, app *bootstrap.App[*Config]) error {
	cfg := app.Cfg.Observability
	if !cfg.Enabled {
		return nil
	}
	res := observability.Resource{
		ServiceName:    app.Name,
		ServiceVersion: app.Version,
		Environment:    app.Cfg.Environment,
	}
	tp, err := observability.InitTracer(ctx, cfg, res)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	mp, err := observability.InitMeter(ctx, cfg, res)
	if err != nil {
		return fmt.Errorf("init meter: %w", err)
	}
	app.OnStop(tp.Shutdown, mp.Shutdown)
	return nil
}
