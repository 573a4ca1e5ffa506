package notifiers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/alanderos91/BindrTest/internal/lattice"
)

// WebhookNotifier delivers run events as HTTP POSTs to a webhook URL.
type WebhookNotifier struct {
	id      string
	url     string
	client  *http.Client
	headers map[string]string
}

// NewWebhookNotifier creates a webhook notifier for the given URL.
func NewWebhookNotifier(id, url string) *WebhookNotifier {
	return &WebhookNotifier{
		id:      id,
		url:     url,
		client:  &http.Client{Timeout: 5 * time.Second},
		headers: make(map[string]string),
	}
}

// SetHeader adds a custom header to every webhook request.
func (n *WebhookNotifier) SetHeader(key, value string) {
	n.headers[key] = value
}

// ID returns the notifier ID.
func (n *WebhookNotifier) ID() string { return n.id }

// Type returns "webhook".
func (n *WebhookNotifier) Type() string { return "webhook" }

// Notify posts the event to the webhook URL as JSON.
func (n *WebhookNotifier) Notify(ctx context.Context, event lattice.NotificationEvent) error {
	data, err := event.JSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range n.headers {
		req.Header.Set(key, value)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Close is a no-op for webhooks.
func (n *WebhookNotifier) Close() error {
	return nil
}
