package orders

import (
	"errors"
	"testing"

	"github.com/zenc-cp/clawwork-cloud-api/src/economics"
)

func newTestStore() (*Store, *economics.Ledger) {
	ledger := economics.NewLedger(10.0)
	return NewStore(ledger), ledger
}

func TestOrderLifecycleHappyPath(t *testing.T) {
	store, ledger := newTestStore()

	o := store.Create(NewOrder{GigType: "security", Buyer: "acme", Requirements: "market scan"})
	if o.Status != StatusInProgress {
		t.Fatalf("status after create = %q, want in_progress", o.Status)
	}
	if o.Industry != "technology" || o.TargetMarket != "global" {
		t.Errorf("defaults not applied: %q/%q", o.Industry, o.TargetMarket)
	}

	if err := store.SetDeliverable(o.ID, "report body"); err != nil {
		t.Fatalf("SetDeliverable() error = %v", err)
	}
	got, err := store.Get(o.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != StatusReadyForDelivery || got.Deliverable != "report body" {
		t.Fatalf("after generation: status=%q deliverable=%q", got.Status, got.Deliverable)
	}

	delivered, price, err := store.Deliver(o.ID)
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if price != 75.00 {
		t.Errorf("price = %v, want 75.00 for security gig", price)
	}
	if delivered.Status != StatusDelivered || delivered.DeliveredAt == nil {
		t.Errorf("delivered order: %+v", delivered)
	}
	if snap := ledger.Snapshot(); snap.TotalIncome != 75.00 {
		t.Errorf("ledger income = %v, want 75.00", snap.TotalIncome)
	}
}

func TestDeliverIsIdempotentRejected(t *testing.T) {
	store, ledger := newTestStore()
	o := store.Create(NewOrder{GigType: "security", Buyer: "acme"})
	if err := store.SetDeliverable(o.ID, "x"); err != nil {
		t.Fatalf("SetDeliverable() error = %v", err)
	}
	if _, _, err := store.Deliver(o.ID); err != nil {
		t.Fatalf("first Deliver() error = %v", err)
	}

	_, _, err := store.Deliver(o.ID)
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("second Deliver() error = %v, want ErrStateConflict", err)
	}
	if snap := ledger.Snapshot(); snap.TotalIncome != 75.00 {
		t.Errorf("rejected delivery changed income: %v", snap.TotalIncome)
	}
}

func TestDeliverRequiresReadyState(t *testing.T) {
	store, ledger := newTestStore()
	o := store.Create(NewOrder{GigType: "standard", Buyer: "acme"})

	_, _, err := store.Deliver(o.ID)
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("Deliver() on in_progress error = %v, want ErrStateConflict", err)
	}
	if snap := ledger.Snapshot(); snap.TotalIncome != 0 {
		t.Errorf("rejected delivery touched ledger: %v", snap.TotalIncome)
	}
}

func TestSetDeliverableDoesNotOverwrite(t *testing.T) {
	store, _ := newTestStore()
	o := store.Create(NewOrder{GigType: "standard", Buyer: "acme"})
	if err := store.SetDeliverable(o.ID, "first"); err != nil {
		t.Fatalf("SetDeliverable() error = %v", err)
	}

	err := store.SetDeliverable(o.ID, "second")
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("SetDeliverable() on ready order error = %v, want ErrStateConflict", err)
	}
	got, _ := store.Get(o.ID)
	if got.Deliverable != "first" {
		t.Errorf("deliverable overwritten: %q", got.Deliverable)
	}
}

func TestUnknownOrderIsNotFound(t *testing.T) {
	store, _ := newTestStore()

	if _, err := store.Get("order_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if err := store.SetDeliverable("order_missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetDeliverable() error = %v, want ErrNotFound", err)
	}
	if _, _, err := store.Deliver("order_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Deliver() error = %v, want ErrNotFound", err)
	}
}

func TestCatalogFallbackPricing(t *testing.T) {
	tests := []struct {
		gigType string
		want    float64
		matched bool
	}{
		{"standard", 25.00, true},
		{"competitor", 50.00, true},
		{"security", 75.00, true},
		{"full_market", 100.00, true},
		{"interpretive_dance", 25.00, false},
		{"", 25.00, false},
	}
	for _, tt := range tests {
		price, matched := Lookup(tt.gigType)
		if price != tt.want || matched != tt.matched {
			t.Errorf("Lookup(%q) = (%v, %v), want (%v, %v)", tt.gigType, price, matched, tt.want, tt.matched)
		}
	}
}

func TestRecordFailureVisibleOnOrder(t *testing.T) {
	store, _ := newTestStore()
	o := store.Create(NewOrder{GigType: "standard", Buyer: "acme"})

	store.RecordFailure(o.ID, errors.New("search provider down"))

	got, _ := store.Get(o.ID)
	if got.Status != StatusInProgress {
		t.Errorf("failure changed status: %q", got.Status)
	}
	if got.Error != "search provider down" {
		t.Errorf("error not recorded: %q", got.Error)
	}
}
