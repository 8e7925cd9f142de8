package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"fms-backend/internal/shared/telemetry"
)

const maxErrorBodyBytes = 2048

type tokenContextKey struct{}

// ContextWithToken pins a bearer token to the context for the duration of a
// request. Used to forward the coach's own token to upstreams instead of the
// service account token.
func ContextWithToken(ctx context.Context, token string) context.Context {
	if strings.TrimSpace(token) == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenContextKey{}, token)
}

func tokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey{}).(string)
	return token, ok && token != ""
}

// client is the shared JSON caller the three service clients embed.
type client struct {
	service string
	baseURL string
	http    *http.Client
	tokens  oauth2.TokenSource
}

func newClient(service, baseURL string, timeout time.Duration, tokens oauth2.TokenSource) client {
	return client{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// do issues one JSON request and returns the raw response body. Any failure
// comes back as *Error so callers can distinguish transport faults from
// upstream HTTP errors.
func (c client) do(ctx context.Context, method, path string, in any) (json.RawMessage, error) {
	var payload io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, &Error{Service: c.service, Err: err}
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, &Error{Service: c.service, Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.authorize(ctx, req); err != nil {
		return nil, &Error{Service: c.service, Err: err}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Service: c.service, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Service: c.service, Err: err}
	}

	telemetry.Info("upstream.call", map[string]any{
		"service":     c.service,
		"method":      method,
		"path":        path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode >= 400 {
		return nil, &Error{
			Service: c.service,
			Status:  resp.StatusCode,
			Body:    truncate(string(body), maxErrorBodyBytes),
		}
	}
	return body, nil
}

func (c client) authorize(ctx context.Context, req *http.Request) error {
	if token, ok := tokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
		return nil
	}
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token()
	if err != nil {
		return err
	}
	token.SetAuthHeader(req)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
