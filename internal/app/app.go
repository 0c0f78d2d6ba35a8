package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"posecam/internal/config"
	"posecam/internal/logger"
	"posecam/internal/repository/sqlite"
	"posecam/internal/route"
	"posecam/internal/service"
	"posecam/internal/service/ai"
	"posecam/internal/service/capture"
	"posecam/internal/service/storage"
	"posecam/internal/service/websocket"
)

type App struct {
	config   *config.Config
	logger   *logger.Logger
	engine   *ai.TFLiteEngine
	source   capture.FrameSource
	display  capture.Display
	hub      *websocket.HubService
	server   *http.Server
	db       *sqlite.DB
	recorder *storage.RecorderService
	pipeline *service.Pipeline
}

// NewApp loads configuration and sets up every component. On failure the
// components created so far are released.
func NewApp() (*App, error) {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{config: cfg, logger: log}
	if err := a.setup(); err != nil {
		log.Error("Setup failed: %v", err)
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) setup() error {
	engine, err := ai.NewTFLiteEngine(a.config, a.logger)
	if err != nil {
		return err
	}
	a.engine = engine

	source, err := capture.Open(a.config, a.logger)
	if err != nil {
		return err
	}
	a.source = source

	a.display = capture.NewWindowDisplay(a.config.WindowName)

	var opts []service.Option
	if a.config.DatabasePath != "" {
		if err := os.MkdirAll(filepath.Dir(a.config.DatabasePath), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		db, err := sqlite.New(a.config.DatabasePath)
		if err != nil {
			return err
		}
		a.db = db

		recorder, err := storage.NewRecorderService(a.config, a.logger, sqlite.NewSessionRepository(db), sqlite.NewPoseRepository(db))
		if err != nil {
			return err
		}
		a.recorder = recorder
		opts = append(opts, service.WithRecorder(recorder))
	}

	if a.config.ViewerPort > 0 {
		a.hub = websocket.NewHubService(a.logger)
		opts = append(opts, service.WithPublisher(a.hub))
	}

	a.pipeline = service.NewPipeline(a.config, a.logger, a.source, a.engine, a.display, opts...)

	if a.hub != nil {
		a.server = &http.Server{
			Addr:              fmt.Sprintf(":%d", a.config.ViewerPort),
			Handler:           route.SetupRoutes(a.config, a.logger, a.hub, a.pipeline),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return nil
}

// Run drives the pipeline on the calling goroutine until a key press,
// SIGINT/SIGTERM or a frame error. The window must be served from the
// goroutine that created it.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("🚀 PoseNet\n")
	fmt.Printf("📷 Camera: %s\n", a.config.CameraSource)
	fmt.Printf("🤖 Model: %s\n", a.config.ModelPath)
	if a.server != nil {
		fmt.Printf("📍 Viewer: ws://localhost:%d/api/view\n", a.config.ViewerPort)
		go a.hub.Run()
		go func() {
			if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("Viewer server stopped: %v", err)
			}
		}()
	}
	if a.recorder != nil {
		fmt.Printf("💾 Recording session: %s\n", a.recorder.SessionID())
	}

	err := a.pipeline.Run(ctx)
	if err != nil {
		a.logger.Error("Pipeline failed: %v", err)
	}
	return err
}

// Close releases everything in reverse order of creation. The recorder is
// flushed before the database closes.
func (a *App) Close() error {
	var errs []error

	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		errs = append(errs, a.server.Shutdown(ctx))
		cancel()
	}
	if a.hub != nil {
		a.hub.Stop()
	}
	if a.pipeline != nil {
		errs = append(errs, a.pipeline.Close())
	}
	if a.recorder != nil {
		errs = append(errs, a.recorder.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if a.display != nil {
		errs = append(errs, a.display.Close())
	}
	if a.source != nil {
		errs = append(errs, a.source.Close())
	}
	if a.engine != nil {
		errs = append(errs, a.engine.Close())
	}
	errs = append(errs, a.logger.Close())

	return errors.Join(errs...)
}
