// Package notify posts best-effort JSON notifications to an external
// webhook sink. Failures are returned to the caller, which logs and moves
// on; a broken sink must never fail the request that triggered it.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Notifier delivers one JSON payload per event.
type Notifier interface {
	Enabled() bool
	Notify(ctx context.Context, payload any) error
}

// WebhookNotifier posts payloads to a fixed URL.
type WebhookNotifier struct {
	url  string
	http *http.Client
}

// NewWebhook builds a notifier; an empty URL yields a disabled one.
func NewWebhook(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:  url,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a sink URL is configured.
func (n *WebhookNotifier) Enabled() bool { return n.url != "" }

// Notify posts the payload as JSON. Non-2xx responses count as failures.
func (n *WebhookNotifier) Notify(ctx context.Context, payload any) error {
	if !n.Enabled() {
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("notify: post webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notify: webhook returned %s", resp.Status)
	}
	return nil
}
