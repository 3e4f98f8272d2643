package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/levenlabs/go-lflag"

	"github.com/ratecast/ratecast/pkg/common"
	"github.com/ratecast/ratecast/pkg/log"
	"github.com/ratecast/ratecast/pkg/types"
)

// ErrDisabled is returned by Notify when no webhook URL is configured.
var ErrDisabled = errors.New("webhook url not configured")

// Notifier posts project events to an external webhook.
type Notifier struct {
	url    string
	client *http.Client
}

// New returns a Notifier posting to url. An empty url disables it.
func New(url string, timeout time.Duration) *Notifier {
	return &Notifier{
		url:    url,
		client: common.HTTPClient(timeout),
	}
}

// Configured sets up the Notifier based on flags.
func Configured() *Notifier {
	url := lflag.String("webhook-url", "", "URL to post project events to (disabled if empty)")
	timeout := lflag.Duration("webhook-timeout", 10*time.Second, "Timeout for webhook requests")

	n := &Notifier{}
	lflag.Do(func() {
		*n = *New(*url, *timeout)
	})
	return n
}

// Enabled reports whether a webhook URL is configured.
func (n *Notifier) Enabled() bool {
	return n.url != ""
}

// Notify posts the event as JSON. Any non-2xx response is an error.
func (n *Notifier) Notify(ctx context.Context, event types.ProjectEvent) error {
	if !n.Enabled() {
		return ErrDisabled
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Ctx(ctx).DebugContext(
		ctx,
		"sending webhook",
		slog.String("event", event.Event),
		slog.String("projectID", event.Project.ID),
	)
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// include a bit of the body since receivers usually explain themselves
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
