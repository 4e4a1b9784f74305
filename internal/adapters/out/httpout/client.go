// internal/adapters/out/httpout/client.go
package httpout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	uc "github.com/HydraRosario/vibeshoes/internal/application/usecase"
)

const (
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 2
	maxBodyBytes      = 1 << 20
)

// Client is a bearer-token JSON client with bounded retries.
// Non-2xx responses become *usecase.UpstreamError carrying the decoded body.
type Client struct {
	Provider   string
	BaseURL    string
	Token      string
	MaxRetries int
	HTTP       *http.Client
	// Backoff is the wait before retry n (1-based). Defaults to 250ms * 2^(n-1).
	Backoff func(n int) time.Duration
}

func New(provider, baseURL, token string, timeout time.Duration, maxRetries int) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		Provider:   provider,
		BaseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Token:      strings.TrimSpace(token),
		MaxRetries: maxRetries,
		HTTP:       &http.Client{Timeout: timeout},
	}
}

// Request describes one call. Idempotent calls are retried on transport
// errors, 429 and 5xx; others only on 429, where the provider did not act.
type Request struct {
	Method     string
	Path       string
	Body       any
	Idempotent bool
	Header     map[string]string
}

// NewIdempotencyKey returns a key that stays fixed across retries of one call.
func NewIdempotencyKey() string { return uuid.NewString() }

// Do sends req and decodes a 2xx JSON body into out (if non-nil).
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	if c == nil {
		return errors.New("httpout: client is nil")
	}
	var payload []byte
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("httpout: encode body: %w", err)
		}
		payload = b
	}

	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := c.wait(ctx, attempt); err != nil {
				return err
			}
		}
		status, body, err := c.once(ctx, req, payload)
		if err != nil {
			lastErr = &uc.UpstreamError{Provider: c.Provider, Message: err.Error(), Err: err}
			if req.Idempotent && ctx.Err() == nil {
				log.Printf("[httpout] %s %s %s transport error attempt=%d: %v", c.Provider, req.Method, req.Path, attempt+1, err)
				continue
			}
			return lastErr
		}
		if status >= 200 && status < 300 {
			if out == nil || len(bytes.TrimSpace(body)) == 0 {
				return nil
			}
			if err := json.Unmarshal(body, out); err != nil {
				return &uc.UpstreamError{Provider: c.Provider, StatusCode: status, Message: "invalid JSON response", Err: err}
			}
			return nil
		}

		lastErr = upstreamFromBody(c.Provider, status, body)
		if status == http.StatusTooManyRequests || (req.Idempotent && status >= 500) {
			log.Printf("[httpout] %s %s %s status=%d attempt=%d", c.Provider, req.Method, req.Path, status, attempt+1)
			continue
		}
		return lastErr
	}
	return lastErr
}

func (c *Client) once(ctx context.Context, req Request, payload []byte) (int, []byte, error) {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	hreq, err := http.NewRequestWithContext(ctx, req.Method, c.BaseURL+req.Path, rd)
	if err != nil {
		return 0, nil, err
	}
	if c.Token != "" {
		hreq.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if payload != nil {
		hreq.Header.Set("Content-Type", "application/json")
	}
	hreq.Header.Set("Accept", "application/json")
	for k, v := range req.Header {
		hreq.Header.Set(k, v)
	}

	res, err := c.HTTP.Do(hreq)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, err
	}
	return res.StatusCode, body, nil
}

func (c *Client) wait(ctx context.Context, attempt int) error {
	d := 250 * time.Millisecond << (attempt - 1)
	if c.Backoff != nil {
		d = c.Backoff(attempt)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// upstreamFromBody keeps the decoded provider body as Payload and picks a message
// from the usual "message" / "error" / "error.message" shapes.
func upstreamFromBody(provider string, status int, body []byte) *uc.UpstreamError {
	e := &uc.UpstreamError{Provider: provider, StatusCode: status}
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		e.Payload = strings.TrimSpace(string(body))
		e.Message = http.StatusText(status)
		return e
	}
	e.Payload = decoded
	e.Message = http.StatusText(status)
	if m, ok := decoded.(map[string]any); ok {
		if s, ok := m["message"].(string); ok && s != "" {
			e.Message = s
		} else if s, ok := m["error"].(string); ok && s != "" {
			e.Message = s
		} else if em, ok := m["error"].(map[string]any); ok {
			if s, ok := em["message"].(string); ok && s != "" {
				e.Message = s
			}
		}
	}
	return e
}
