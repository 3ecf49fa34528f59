// Command magnolia runs the master data management API: record ingestion,
// the fuzzy matching engine, and the golden record merge/review workflow.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/magnolia/config"
	"github.com/Ramsey-B/magnolia/internal/httpapi"
	"github.com/Ramsey-B/magnolia/internal/httpapi/handlers"
	"github.com/Ramsey-B/magnolia/internal/platform/database"
	"github.com/Ramsey-B/magnolia/internal/platform/events"
	"github.com/Ramsey-B/magnolia/internal/platform/lock"
	"github.com/Ramsey-B/magnolia/internal/platform/middleware"
	"github.com/Ramsey-B/magnolia/internal/platform/startup"
	"github.com/Ramsey-B/magnolia/internal/platform/tracing"
	"github.com/Ramsey-B/magnolia/internal/repositories/customerrecord"
	"github.com/Ramsey-B/magnolia/internal/repositories/datasource"
	"github.com/Ramsey-B/magnolia/internal/repositories/goldenrecord"
	"github.com/Ramsey-B/magnolia/internal/repositories/matchcandidate"
	"github.com/Ramsey-B/magnolia/pkg/golden"
	"github.com/Ramsey-B/magnolia/pkg/matching"
)

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.Load(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	tracing.SetTracer(tp.Tracer(cfg.AppName))

	sqlxDB, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Error("failed to open database connection")
		os.Exit(1)
	}
	sqlxDB.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	sqlxDB.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	sqlxDB.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)

	db := database.NewDatabaseInstance(sqlxDB, logger)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	locker := lock.New(redisClient, logger, time.Duration(cfg.RedisMergeLockTTLMS)*time.Millisecond)

	producer := events.NewProducer(events.ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.KafkaEventsTopic,
		BatchSize:    cfg.KafkaBatchSize,
		BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
	}, logger)
	defer producer.Close()

	sup := startup.New(logger, cfg.StartupMaxAttempts)
	sup.AddDependency(newDatabaseDependency(sqlxDB, logger, &cfg))
	sup.AddDependency(newRedisDependency(redisClient))

	ctx := context.Background()
	if err := sup.Start(ctx); err != nil {
		logger.WithError(err).Error("startup failed")
		os.Exit(1)
	}

	sourcesRepo := datasource.NewRepository(db, logger)
	recordsRepo := customerrecord.NewRepository(db, logger)
	candidatesRepo := matchcandidate.NewRepository(db, logger)
	goldensRepo := goldenrecord.NewRepository(db, logger)

	engine := matching.NewEngine(logger, recordsRepo, candidatesRepo)
	store := golden.NewStore(db, candidatesRepo, recordsRepo, goldensRepo, golden.NewLockerAdapter(locker), producer, logger)

	matchingHandler := handlers.NewMatchingHandler(engine)
	candidatesHandler := handlers.NewCandidatesHandler(candidatesRepo, recordsRepo, store)
	goldensHandler := handlers.NewGoldensHandler(goldensRepo, store)
	sourcesHandler := handlers.NewSourcesHandler(sourcesRepo, recordsRepo, cfg.UploadDir)
	dashboardHandler := handlers.NewDashboardHandler(sourcesRepo, recordsRepo, candidatesRepo, goldensRepo)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.Error(logger)

	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Metrics())

	httpapi.RegisterRoutes(e, matchingHandler, candidatesHandler, goldensHandler, sourcesHandler, dashboardHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           e,
		ReadTimeout:       time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		logger.Infof("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("server stopped unexpectedly")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
	if err := sup.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("dependency shutdown failed")
	}
}

func newLogger(cfg config.Config) ectologger.Logger {
	var (
		zapLogger *zap.Logger
		err       error
	)
	if cfg.PrettyLogs {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		zapLogger = zap.NewNop()
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

// databaseDependency brings up the database connection and runs pending
// migrations before the rest of the service is allowed to start.
type databaseDependency struct {
	db     *sqlx.DB
	logger ectologger.Logger
	cfg    *config.Config
}

func newDatabaseDependency(db *sqlx.DB, logger ectologger.Logger, cfg *config.Config) *databaseDependency {
	return &databaseDependency{db: db, logger: logger, cfg: cfg}
}

func (d *databaseDependency) GetName() string   { return "database" }
func (d *databaseDependency) DependsOn() []string { return nil }

func (d *databaseDependency) Start(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(d.db.DB, &postgres.Config{})
	if err != nil {
		return err
	}

	migrator := database.NewMigrationService(d.logger, &database.MigrationConfig{
		MigrationFolderPath: d.cfg.DatabaseMigrationFolderPath,
		Version:             uint(d.cfg.DatabaseMigrationVersion),
		Force:                d.cfg.DatabaseMigrationForce,
	})
	return migrator.Migrate("magnolia", driver)
}

func (d *databaseDependency) Stop(ctx context.Context) error {
	return d.db.Close()
}

// redisDependency pings the merge-lock Redis instance at startup. Redis is
// an optimization (internal/platform/lock degrades to a no-op without it),
// so a nil client is a valid, already-started no-op.
type redisDependency struct {
	client *redis.Client
}

func newRedisDependency(client *redis.Client) *redisDependency {
	return &redisDependency{client: client}
}

func (d *redisDependency) GetName() string     { return "redis" }
func (d *redisDependency) DependsOn() []string { return nil }

func (d *redisDependency) Start(ctx context.Context) error {
	if d.client == nil {
		return nil
	}
	return d.client.Ping(ctx).Err()
}

func (d *redisDependency) Stop(ctx context.Context) error {
	if d.client == nil {
		return nil
	}
	return d.client.Close()
}
