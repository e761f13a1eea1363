package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zenc-cp/clawwork-cloud-api/src/api/config"
	"github.com/zenc-cp/clawwork-cloud-api/src/api/webserver"
	"github.com/zenc-cp/clawwork-cloud-api/src/economics"
	"github.com/zenc-cp/clawwork-cloud-api/src/notify"
	"github.com/zenc-cp/clawwork-cloud-api/src/orders"
	"github.com/zenc-cp/clawwork-cloud-api/src/prices"
	"github.com/zenc-cp/clawwork-cloud-api/src/research"
	"github.com/zenc-cp/clawwork-cloud-api/src/search"
	"github.com/zenc-cp/clawwork-cloud-api/src/social"
)

func main() {
	cfg := config.Load()

	ledger := economics.NewLedger(cfg.InitialBalance)
	store := orders.NewStore(ledger)

	provider := search.NewCached(search.NewDuckDuckGo(), 10*time.Minute, 256)
	pipeline := research.New(provider, ledger, research.WithQueryDelay(cfg.QueryDelay))

	worker := orders.NewWorker(store, pipeline, 32, 3*time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	if err := worker.Start(ctx); err != nil {
		log.Fatalf("worker: %v", err)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb = notify.MustRedis(cfg.RedisURL)
	}
	notifier := notify.New(rdb, cfg.WebhookURL)

	var socialClient *social.Client
	if sc, err := social.NewClient(cfg.Social); err != nil {
		log.Printf("social: client disabled: %v", err)
	} else {
		socialClient = sc
	}

	router := webserver.New(cfg, webserver.Deps{
		Ledger:   ledger,
		Store:    store,
		Worker:   worker,
		Pipeline: pipeline,
		Prices:   prices.NewClient(),
		Social:   socialClient,
		Notifier: notifier,
	})

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	log.Printf("ClawWork API listening on %s (initial balance %.2f)", cfg.Port, cfg.InitialBalance)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	cancel()
	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
	worker.Stop(shutCtx)
}
