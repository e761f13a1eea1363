// Package notify publishes agent events (order delivered, report
// completed) to a redis stream and an optional outbound webhook. Both
// sinks are best-effort: failures are logged, never propagated, and no
// state is stored.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zenc-cp/clawwork-cloud-api/src/webclient"
)

const streamEvents = "clawwork.events"

// MustRedis connects to redis or exits. Only called when a redis URL
// is configured.
func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// Notifier fans events out to the configured sinks. A nil redis client
// and an empty webhook URL are both valid; the notifier then does
// nothing.
type Notifier struct {
	rdb        *redis.Client
	webhookURL string
	client     *http.Client
	retryDelay time.Duration
}

// New builds a notifier. rdb may be nil and webhookURL may be empty.
func New(rdb *redis.Client, webhookURL string) *Notifier {
	return &Notifier{
		rdb:        rdb,
		webhookURL: webhookURL,
		client:     webclient.NewDefault(10 * time.Second),
		retryDelay: 2 * time.Second,
	}
}

// Publish sends one event to every configured sink.
func (n *Notifier) Publish(ctx context.Context, event string, payload map[string]any) {
	if n.rdb != nil {
		values := make(map[string]any, len(payload)+1)
		for k, v := range payload {
			values[k] = v
		}
		values["event"] = event
		if _, err := n.rdb.XAdd(ctx, &redis.XAddArgs{
			Stream: streamEvents,
			Values: values,
		}).Result(); err != nil {
			log.Printf("notify: redis publish %s: %v", event, err)
		}
	}

	if n.webhookURL != "" {
		body := map[string]any{"event": event, "payload": payload}
		data, err := json.Marshal(body)
		if err != nil {
			log.Printf("notify: encode %s: %v", event, err)
			return
		}
		// Webhook receivers come and go; retry transient failures
		// before giving up on the event.
		status, _, err := webclient.DoWithRetry(ctx, 3, n.retryDelay, func() (int, []byte, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(data))
			if err != nil {
				return 0, nil, err
			}
			req.Header.Set("Content-Type", "application/json")
			resp, err := n.client.Do(req)
			if err != nil {
				return 0, nil, err
			}
			resp.Body.Close()
			return resp.StatusCode, nil, nil
		})
		switch {
		case err != nil:
			log.Printf("notify: webhook %s: %v", event, err)
		case status >= 300:
			log.Printf("notify: webhook %s returned status %d", event, status)
		}
	}
}
