package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/batch"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/credit"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/staging"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/data/db"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/data/kv"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/data/repos"
	creditrepo "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/data/repos/credit"
	apphttp "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/http"
	httpH "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/http/handlers"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/observability"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/services"
)

type App struct {
	Log        *logger.Logger
	Cfg        Config
	DB         *db.Service
	Redis      *goredis.Client
	Repos      repos.Repos
	Credits    credit.Store
	Ledger     *credit.Ledger
	Staging    *staging.Store
	Curriculum services.CurriculumService
	Server     *apphttp.Server

	otelShutdown func(context.Context) error
}

// NewLogger builds the process logger from LOG_MODE.
func NewLogger() (*logger.Logger, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

func New(ctx context.Context, log *logger.Logger) (*App, error) {
	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(ctx, log, cfg)
}

func NewWithConfig(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	a := &App{Log: log, Cfg: cfg}
	a.otelShutdown = observability.InitOTel(ctx, log, cfg.Otel)

	dbSvc, err := db.Open(cfg.DB, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init db: %w", err)
	}
	a.DB = dbSvc
	a.Repos = repos.New(dbSvc.DB(), log)

	if cfg.needsRedis() {
		rdb, err := kv.NewRedisClient(cfg.Redis)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init redis: %w", err)
		}
		a.Redis = rdb
	}
	var rdb goredis.UniversalClient
	if a.Redis != nil {
		rdb = a.Redis
	}

	store, err := wireStagingKV(cfg, a.Repos, rdb, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init staging store: %w", err)
	}
	a.Staging = staging.NewStore(store, log)

	a.Credits = creditrepo.NewStore(a.Repos.CreditBalance)
	a.Ledger = credit.NewLedger(a.Credits, log)

	gen, err := WireProvider(ctx, cfg.Provider, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	orch := batch.NewOrchestrator(gen, a.Ledger, cfg.Batch.Policy(), log)
	a.Curriculum = services.NewCurriculumService(
		log,
		orch,
		a.Ledger,
		a.Staging,
		batch.NewTracker(cfg.Batch.Retention),
		wireProgressSink(cfg, rdb, log),
	)

	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	a.Server = apphttp.NewServer(cfg.HTTPAddr, apphttp.RouterConfig{
		Log:               log,
		ServiceName:       serviceName,
		CORSOrigins:       cfg.CORSOrigins,
		CurriculumHandler: httpH.NewCurriculumHandler(log, a.Curriculum),
		StagingHandler:    httpH.NewStagingHandler(a.Staging),
		HealthHandler:     httpH.NewHealthHandler(),
	})
	return a, nil
}

// Serve runs the HTTP server until ctx is cancelled, then drains it and any
// background batches.
func (a *App) Serve(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.HTTPAddr)
		return a.Server.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		a.Log.Info("Shutting down")
		return errors.Join(
			a.Server.Shutdown(shutdownCtx),
			a.Curriculum.Shutdown(shutdownCtx),
		)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if a.Curriculum != nil {
		if err := a.Curriculum.Shutdown(ctx); err != nil {
			a.Log.Warn("Curriculum shutdown", "error", err)
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Log.Warn("DB close", "error", err)
		}
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(ctx)
	}
	a.Log.Sync()
}
