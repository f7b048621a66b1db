// Package httpx is a small JSON-over-HTTP client with a request timeout and
// bounded retry with backoff. Retries apply only to calls the caller marked
// retryable; deposit and settlement submissions must go through DoJSON with
// retries disabled so a possibly-accepted request is never re-sent.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"wavebridge/pkg/bridge"
)

type Client struct {
	httpClient *http.Client
	retries    int
	userAgent  string
}

// New creates a client. retries is the number of re-attempts for retryable
// requests, not the total attempt count.
func New(timeout time.Duration, retries int) *Client {
	if retries < 0 {
		retries = 0
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		retries:    retries,
		userAgent:  "wavebridge/0.1",
	}
}

// GetJSON issues a GET and decodes the JSON response into out. Read-only
// and idempotent, so transport failures are retried with backoff.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	return c.do(ctx, http.MethodGet, url, nil, headers, out, c.retries)
}

// PostJSON issues a POST with a JSON body and decodes the response.
// Retryable controls whether transport failures are re-attempted; pass
// false for anything that submits a deposit or settlement action.
func (c *Client) PostJSON(ctx context.Context, url string, body any, headers map[string]string, out any, retryable bool) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return bridge.WrapError(bridge.CodeProviderUnavailable, "encode request body", err)
		}
	}
	retries := 0
	if retryable {
		retries = c.retries
	}
	return c.do(ctx, http.MethodPost, url, payload, headers, out, retries)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, headers map[string]string, out any, retries int) error {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return bridge.WrapError(bridge.CodeProviderUnavailable, "request cancelled", ctx.Err())
			case <-time.After(backoff(attempt)):
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return bridge.WrapError(bridge.CodeProviderUnavailable, "build provider request", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = bridge.WrapError(bridge.CodeProviderUnavailable, "provider request failed", err)
			continue
		}

		buf, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = bridge.WrapError(bridge.CodeProviderUnavailable, "read provider response", readErr)
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = bridge.NewError(bridge.CodeProviderUnavailable,
				fmt.Sprintf("provider unavailable (status %d)", resp.StatusCode))
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return decodeErrorBody(resp.StatusCode, buf)
		}

		if out == nil {
			return nil
		}
		if err := json.Unmarshal(buf, out); err != nil {
			return bridge.WrapError(bridge.CodeProviderUnavailable, "decode provider JSON", err)
		}
		return nil
	}
	return lastErr
}

// decodeErrorBody maps a provider error payload to a typed bridge error,
// recognizing liquidity exhaustion as a distinct business error.
func decodeErrorBody(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Code    string `json:"code"`
	}
	_ = json.Unmarshal(body, &payload)
	msg := payload.Message
	if msg == "" {
		msg = payload.Error
	}
	if msg == "" {
		msg = string(bytes.TrimSpace(body))
	}
	if payload.Code == "INSUFFICIENT_LIQUIDITY" {
		return bridge.NewError(bridge.CodeInsufficientLiquidity, msg)
	}
	return bridge.NewError(bridge.CodeProviderUnavailable,
		fmt.Sprintf("provider returned status %d: %s", status, msg))
}

func backoff(attempt int) time.Duration {
	d := time.Duration(1<<uint(attempt-1)) * 500 * time.Millisecond
	if d > 4*time.Second {
		d = 4 * time.Second
	}
	return d
}
