package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// maxBackoff caps both the doubled delay and a server's Retry-After.
const maxBackoff = 30 * time.Second

// webhook posts JSON to one URL with bounded retries.
type webhook struct {
	url      string
	http     *http.Client
	attempts int
	backoff  time.Duration
}

// statusError is a non-2xx webhook response.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("webhook returned %d", e.code)
	}
	return fmt.Sprintf("webhook returned %d: %s", e.code, e.body)
}

// retryable reports whether another attempt could succeed. Client errors
// other than rate limiting will not change on retry.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return true
}

func (w *webhook) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}
	attempts := max(w.attempts, 1)
	delay := w.backoff

	var lastErr error
	for i := 1; i <= attempts; i++ {
		wait, err := w.once(ctx, body)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == attempts || !retryable(err) {
			break
		}
		if wait <= 0 {
			wait = delay
			delay = min(delay*2, maxBackoff)
		}
		if wait > 0 {
			t := time.NewTimer(min(wait, maxBackoff))
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
	}
	return fmt.Errorf("discord webhook failed after %d attempts: %w", attempts, lastErr)
}

// once sends a single request. The returned duration is the server's
// Retry-After hint, zero when absent.
func (w *webhook) once(ctx context.Context, body []byte) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	return retryAfter(resp.Header.Get("Retry-After")), &statusError{code: resp.StatusCode, body: string(bytes.TrimSpace(snippet))}
}

// retryAfter parses the delay-seconds form of Retry-After.
func retryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}
