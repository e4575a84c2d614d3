// internal/adapters/backend/client.go
package backend

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"ssh_admin/internal/adapters/observability"
	"ssh_admin/internal/domain"
)

type Client struct {
	base    string
	hc      *http.Client
	rl      *rate.Limiter
	timeout time.Duration
}

// New builds a client for the platform backend rooted at base
// (e.g. http://localhost:8000). timeout bounds every single request.
func New(base string, timeout time.Duration, rps int) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend base URL %q", base)
	}
	if rps <= 0 {
		rps = 10
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:    strings.TrimRight(base, "/"),
		hc:      &http.Client{Timeout: timeout},
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
		timeout: timeout,
	}, nil
}

// envelope is the common reply shape of every backend endpoint.
type envelope struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Hotels  []domain.HotelRegistration `json:"hotels"`
	Data    []domain.HotelRegistration `json:"data"`
}

// ---- Public API ----

func (c *Client) ListHotels(ctx context.Context, status domain.Status) ([]domain.HotelRegistration, error) {
	q := url.Values{"status": {string(status)}}
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/admin/hotels?"+q.Encode(), "admin_hotels", nil, &env); err != nil {
		return nil, err
	}
	if env.Hotels == nil {
		return []domain.HotelRegistration{}, nil
	}
	return env.Hotels, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id domain.HotelID, upd domain.StatusUpdate) error {
	p := fmt.Sprintf("/api/admin/hotels/%s/status", url.PathEscape(id.String()))
	return c.do(ctx, http.MethodPut, p, "admin_hotel_status", upd, &envelope{})
}

func (c *Client) SendMessage(ctx context.Context, id domain.HotelID, msg domain.Message) error {
	p := fmt.Sprintf("/api/admin/hotels/%s/message", url.PathEscape(id.String()))
	return c.do(ctx, http.MethodPost, p, "admin_hotel_message", msg, &envelope{})
}

func (c *Client) ListRegistrations(ctx context.Context, status domain.Status) ([]domain.HotelRegistration, error) {
	q := url.Values{"status": {string(status)}}
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/hotels/registrations?"+q.Encode(), "registrations", nil, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return []domain.HotelRegistration{}, nil
	}
	return env.Data, nil
}

// ---- Internals ----

const maxAttempts = 4

// do sends one request and decodes the envelope into out. Only GETs are
// retried (429 and transient 5xx, honoring Retry-After); writes are sent once
// so a decision is never applied twice.
func (c *Client) do(ctx context.Context, method, path, endpoint string, body any, out *envelope) error {
	if err := c.rl.Wait(ctx); err != nil {
		return &domain.NetworkError{Op: endpoint, Err: err, Retryable: true}
	}

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", endpoint, err)
		}
		payload = b
	}

	attempts := 1
	if method == http.MethodGet {
		attempts = maxAttempts
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		retry, wait, err := c.once(ctx, method, path, endpoint, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || i == attempts-1 {
			break
		}
		if wait == 0 {
			wait = backoff(i)
		}
		if !sleepCtx(ctx, wait) {
			return &domain.NetworkError{Op: endpoint, Err: ctx.Err(), Retryable: true}
		}
	}
	return lastErr
}

// once performs a single attempt. retry marks failures worth another try;
// wait is the server's Retry-After hint, if any.
func (c *Client) once(ctx context.Context, method, path, endpoint string, payload []byte, out *envelope) (retry bool, wait time.Duration, err error) {
	rctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(rctx, method, c.base+path, rd)
	if err != nil {
		return false, 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ssh-admin/1.0")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("backend", endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return false, 0, &domain.NetworkError{Op: endpoint, Err: ctx.Err(), Retryable: true}
		}
		return true, 0, &domain.NetworkError{Op: endpoint, Err: err, Retryable: true}
	}
	defer resp.Body.Close()
	observability.ObserveExternal("backend", endpoint, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return true, 0, &domain.NetworkError{Op: endpoint, Err: err, Retryable: true}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		be := &domain.BackendError{StatusCode: resp.StatusCode, Message: messageFrom(raw)}
		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true, retryAfter(resp), be
		}
		return false, 0, be
	}

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return false, 0, &domain.BackendError{StatusCode: resp.StatusCode, Message: "empty response"}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, 0, &domain.NetworkError{Op: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}
	if !out.Success {
		return false, 0, &domain.BackendError{StatusCode: resp.StatusCode, Message: out.Message}
	}
	return false, 0, nil
}

// messageFrom pulls the "message" field out of an error body, falling back to
// a trimmed snippet of the raw text.
func messageFrom(raw []byte) string {
	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > 256 {
		s = s[:256]
	}
	return s
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, ...) with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
