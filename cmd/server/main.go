package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sprout/internal/audit"
	"sprout/internal/caseload"
	caseloadmetrics "sprout/internal/caseload/metrics"
	"sprout/internal/child"
	jwttoken "sprout/internal/jwt_token"
	"sprout/internal/milestone"
	"sprout/internal/platform/config"
	"sprout/internal/platform/database"
	"sprout/internal/platform/httpserver"
	"sprout/internal/platform/logger"
	"sprout/internal/platform/metrics"
	platformredis "sprout/internal/platform/redis"
	"sprout/internal/record"
	httptransport "sprout/internal/transport/http"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appMetrics := metrics.New()

	// Stores: Postgres when configured, in-memory otherwise. The in-memory
	// stores back local development and demos.
	var (
		milestoneStore milestone.Store
		childStore     child.Store
		recordStore    record.Store
		auditStore     audit.Store
		health         func() error
	)
	if cfg.DatabaseURL != "" {
		db, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.Error("schema migration failed", "error", err)
			os.Exit(1)
		}
		milestoneStore = milestone.NewPostgres(db)
		childStore = child.NewPostgres(db)
		recordStore = record.NewPostgres(db)
		auditStore = audit.NewPostgresStore(db)
		health = db.Ping
		log.Info("using postgres stores")
	} else {
		memMilestones := milestone.NewInMemory()
		seeded, err := milestone.SeedDefaults(ctx, memMilestones)
		if err != nil {
			log.Error("catalog seeding failed", "error", err)
			os.Exit(1)
		}
		milestoneStore = memMilestones
		childStore = child.NewInMemory()
		recordStore = record.NewInMemory()
		auditStore = audit.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory stores",
			"seeded_milestones", len(seeded))
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		dbHealth := health
		health = func() error {
			if dbHealth != nil {
				if err := dbHealth(); err != nil {
					return err
				}
			}
			return redisClient.Health(context.Background())
		}
	}

	// Audit stream is optional: without brokers the durable store still
	// receives every event.
	var auditSink audit.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		stream, err := audit.NewStream(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		defer stream.Close()
		go stream.Run(ctx)
		auditSink = stream
		log.Info("audit stream enabled", "topic", cfg.Kafka.Topic)
	}
	auditor := audit.NewPublisher(auditStore, auditSink, log)

	milestoneService := milestone.NewService(milestoneStore, auditor)
	recordService := record.NewService(recordStore, childStore, milestoneStore,
		auditor, appMetrics, cfg.StrictFlagNotes)
	caseloadService := caseload.NewService(milestoneStore, childStore, recordStore,
		caseload.NewCache(redisClient, cfg.RollupCacheTTL), caseloadmetrics.New())

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "sprout", "sprout-portal")

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:       log,
		Metrics:      appMetrics,
		JWTValidator: jwttoken.NewJWTServiceAdapter(jwtService),
		Records:      recordService,
		Caseload:     caseloadService,
		Catalog:      milestoneService,
		Health:       health,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting sprout", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
