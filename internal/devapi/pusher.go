package devapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dmitrijs2005/journify/internal/logging"
)

// Pusher delivers a notification to one subscription endpoint.
type Pusher interface {
	Push(ctx context.Context, endpoint string, p models.NotificationPayload) error
}

// HTTPPusher posts the payload as JSON to the endpoint, which for local
// development is a relay's /push route. Payloads are not encrypted.
type HTTPPusher struct {
	client *http.Client
	log    logging.Logger
}

func NewHTTPPusher(c *http.Client, l logging.Logger) *HTTPPusher {
	if c == nil {
		c = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPPusher{client: c, log: l}
}

func (p *HTTPPusher) Push(ctx context.Context, endpoint string, n models.NotificationPayload) error {
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Content-Type", "application/json")
			res, err := p.client.Do(req)
			if err != nil {
				return err
			}
			_, _ = io.Copy(io.Discard, res.Body)
			res.Body.Close()
			switch {
			case res.StatusCode >= 500:
				return fmt.Errorf("push endpoint returned %d", res.StatusCode)
			case res.StatusCode >= 300:
				return retry.Unrecoverable(fmt.Errorf("push endpoint returned %d", res.StatusCode))
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			p.log.Debug(ctx, "retrying push", "endpoint", endpoint, "attempt", n, "err", err)
		}),
	)
}
