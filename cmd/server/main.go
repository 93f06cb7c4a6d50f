package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"consentd/internal/consenttext"
	textcache "consentd/internal/consenttext/cache"
	texthandler "consentd/internal/consenttext/handler"
	textstore "consentd/internal/consenttext/store"
	"consentd/internal/ledger"
	ledgerhandler "consentd/internal/ledger/handler"
	ledgerstore "consentd/internal/ledger/store"
	"consentd/internal/platform/config"
	"consentd/internal/platform/database"
	"consentd/internal/platform/httpserver"
	"consentd/internal/platform/logger"
	"consentd/internal/platform/metrics"
	platformredis "consentd/internal/platform/redis"
	httptransport "consentd/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the domain services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	db, err := database.Open(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to open database", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db, log); err != nil {
		log.Error("failed to apply migrations", "error", err.Error())
		os.Exit(1)
	}

	txRunner := database.NewSQLTxRunner(db)
	m := metrics.New()

	var texts consenttext.Store = textstore.NewPostgres(db)
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		texts = textcache.NewLatestCache(texts, redisClient.Client, cfg.TextCacheTTL, log)
		log.Info("latest-text cache enabled", "ttl", cfg.TextCacheTTL.String())
	}

	textService := consenttext.NewService(texts, txRunner, m)
	ledgerService := ledger.NewService(ledgerstore.NewPostgres(db), txRunner, m)

	router := httptransport.NewRouter(
		texthandler.New(textService, log),
		ledgerhandler.New(ledgerService, log),
		log,
		m,
	)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting consentd", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}
