package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zenc-cp/clawwork-cloud-api/src/agent/client"
	"github.com/zenc-cp/clawwork-cloud-api/src/economics"
	"github.com/zenc-cp/clawwork-cloud-api/src/orders"
)

func main() {
	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}
	serviceKey := os.Getenv("SERVICE_KEY")
	if serviceKey == "" {
		log.Fatal("SERVICE_KEY environment variable required")
	}

	pollInterval := 60 * time.Second
	if raw := os.Getenv("POLL_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("agent: bad POLL_INTERVAL %q, using %s", raw, pollInterval)
		} else {
			pollInterval = d
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	api := client.New(apiURL)
	if err := api.Authenticate(ctx, serviceKey, "agent"); err != nil {
		log.Fatalf("agent: authenticate: %v", err)
	}
	log.Printf("agent: connected to %s, polling every %s", apiURL, pollInterval)

	if os.Getenv("DEMO_ORDER") == "1" {
		if err := runDemoOrder(ctx, api); err != nil {
			log.Printf("agent: demo order: %v", err)
		}
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("agent: shutting down")
			return
		case <-ticker.C:
			heartbeat(ctx, api)
		}
	}
}

func heartbeat(ctx context.Context, api *client.Client) {
	snap, err := api.Status(ctx)
	if err != nil {
		log.Printf("agent: status check failed: %v", err)
		return
	}
	log.Printf("agent: balance=%.2f income=%.2f costs=%.2f completed=%d failed=%d status=%s",
		snap.Balance, snap.TotalIncome, snap.TotalCosts,
		snap.TasksCompleted, snap.TasksFailed, snap.Status)
	if snap.Status == economics.StatusCritical {
		log.Printf("agent: WARNING balance critical, new paid work needed")
	}
}

// runDemoOrder exercises the full lifecycle once: create, wait for the
// deliverable, deliver, report the credit.
func runDemoOrder(ctx context.Context, api *client.Client) error {
	order, err := api.CreateOrder(ctx, client.OrderRequest{
		GigType:      "standard",
		Buyer:        "demo_buyer",
		Requirements: "market overview for a new SaaS product",
		Industry:     "technology",
		TargetMarket: "global",
	})
	if err != nil {
		return err
	}
	log.Printf("agent: created order %s (%s)", order.ID, order.GigType)

	deadline := time.Now().Add(5 * time.Minute)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		o, err := api.GetOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if o.Status == orders.StatusReadyForDelivery {
			break
		}
		if o.Status != orders.StatusInProgress {
			log.Printf("agent: order %s ended in %s: %s", o.ID, o.Status, o.Error)
			return nil
		}
		if time.Now().After(deadline) {
			log.Printf("agent: order %s still %s, giving up", o.ID, o.Status)
			return nil
		}
		time.Sleep(5 * time.Second)
	}

	delivery, err := api.DeliverOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	log.Printf("agent: delivered order %s, credited %.2f, status %s",
		delivery.Order.ID, delivery.Credited, delivery.Order.Status)
	return nil
}
