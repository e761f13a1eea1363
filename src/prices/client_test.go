package prices

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSpotDegradesPerAsset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ids"); got != "bitcoin,ethereum,dogebonk" {
			t.Errorf("ids = %q", got)
		}
		w.Write([]byte(`{"bitcoin":{"usd":64250.12},"ethereum":{"usd":3120.5}}`))
	}))
	t.Cleanup(server.Close)

	c := NewClient(WithBaseURL(server.URL))
	quotes, err := c.Spot(context.Background(), []string{"bitcoin", "ethereum", "dogebonk"})
	if err != nil {
		t.Fatalf("Spot() error = %v", err)
	}
	if len(quotes) != 3 {
		t.Fatalf("got %d quotes, want 3", len(quotes))
	}
	if quotes[0].Price != 64250.12 || quotes[0].Error != "" {
		t.Errorf("bitcoin quote = %+v", quotes[0])
	}
	if quotes[2].Error != "asset not found" {
		t.Errorf("unknown asset quote = %+v", quotes[2])
	}
}

func TestSpotFeedFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	c := NewClient(WithBaseURL(server.URL))
	if _, err := c.Spot(context.Background(), []string{"bitcoin"}); err == nil {
		t.Fatal("Spot() expected error for 503 feed")
	}
}

func TestSpotRequiresAssets(t *testing.T) {
	c := NewClient()
	if _, err := c.Spot(context.Background(), nil); err == nil {
		t.Fatal("Spot() with no assets expected error")
	}
}
