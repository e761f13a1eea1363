package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zenc-cp/clawwork-cloud-api/src/economics"
)

type stubGenerator struct {
	payload string
	err     error
}

func (g stubGenerator) Generate(ctx context.Context, o Order) (string, error) {
	return g.payload, g.err
}

func waitForStatus(t *testing.T, store *Store, id string, want OrderStatus) Order {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		o, err := store.Get(id)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if o.Status == want {
			return o
		}
		time.Sleep(5 * time.Millisecond)
	}
	o, _ := store.Get(id)
	t.Fatalf("order %s stuck in %q, want %q", id, o.Status, want)
	return Order{}
}

func TestWorkerGeneratesDeliverable(t *testing.T) {
	store := NewStore(economics.NewLedger(10))
	w := NewWorker(store, stubGenerator{payload: "generated report"}, 4, time.Second)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop(context.Background())

	o := store.Create(NewOrder{GigType: "standard", Buyer: "acme"})
	if !w.Enqueue(o.ID) {
		t.Fatal("Enqueue() = false, want true")
	}

	got := waitForStatus(t, store, o.ID, StatusReadyForDelivery)
	if got.Deliverable != "generated report" {
		t.Errorf("deliverable = %q", got.Deliverable)
	}
}

func TestWorkerRecordsGenerationFailure(t *testing.T) {
	store := NewStore(economics.NewLedger(10))
	w := NewWorker(store, stubGenerator{err: errors.New("provider down")}, 4, time.Second)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop(context.Background())

	o := store.Create(NewOrder{GigType: "standard", Buyer: "acme"})
	w.Enqueue(o.ID)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, _ := store.Get(o.ID)
		if got.Error != "" {
			if got.Status != StatusInProgress {
				t.Errorf("failed order left in_progress, got %q", got.Status)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("generation error never recorded on order")
}

func TestWorkerQueueBounded(t *testing.T) {
	store := NewStore(economics.NewLedger(10))
	// Not started: jobs stay queued, so the bound is observable.
	w := NewWorker(store, stubGenerator{payload: "x"}, 1, time.Second)

	if !w.Enqueue("order_a") {
		t.Fatal("first Enqueue() = false, want true")
	}
	if w.Enqueue("order_b") {
		t.Fatal("second Enqueue() = true, want false with full queue")
	}
}
