package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"eventdesk/internal/api"
	"eventdesk/internal/audit"
	"eventdesk/internal/config"
	"eventdesk/internal/desk"
	"eventdesk/internal/locks"
	"eventdesk/internal/logger"
	"eventdesk/internal/optimistic"
	"eventdesk/internal/remote/bundb"
	"eventdesk/internal/store"
)

func openDatabase(ctx context.Context, cfg *config.Config, lg *logger.Logger) *bundb.DB {
	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("[Database] failed to open sqlite: %v", err)
	}
	if err := sqldb.Ping(); err != nil {
		log.Fatalf("[Database] failed to connect: %v", err)
	}
	db := &bundb.DB{Bun: bun.NewDB(sqldb, sqlitedialect.New())}
	if err := db.Init(ctx); err != nil {
		log.Fatalf("[Database] schema setup failed: %v", err)
	}
	lg.Info("DATABASE", "sqlite ready at "+cfg.Database.DSN)
	return db
}

func main() {
	_ = godotenv.Load() // Loads .env file if present

	cfg := config.Load()
	lg := logger.Default()
	defer lg.Close()

	ctx := context.Background()
	db := openDatabase(ctx, cfg, lg)
	defer db.Bun.Close()

	producer := audit.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.MockMode || !cfg.Kafka.Enabled, lg)
	defer producer.Close()

	st := store.New()
	engine := optimistic.New(st, lg, producer)
	service := desk.New(st, db, engine, lg)

	if err := service.Refresh(ctx); err != nil {
		lg.Warn("REFRESH", "initial load failed: "+err.Error())
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			lg.Warn("REDIS", "unreachable, event locks disabled: "+err.Error())
			redisClient = nil
		}
	}
	eventLocks := locks.New(redisClient, cfg.Redis.LockTTL, lg)

	handler := &api.Handler{Desk: service, Locks: eventLocks, Log: lg}
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      api.NewRouter(handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		lg.Info("SERVER", "listening on "+cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctxShutdown)
	lg.Info("SERVER", "shutdown complete")
}
