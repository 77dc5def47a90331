// Package client is the Go client for the geckd API: an HTTP transport, a
// per-resource list controller with stale-response discarding, and the
// mutation dispatcher used by geckctl.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIError is a non-2xx response from geckd.
type APIError struct {
	StatusCode int
	Message    string
	// Fields carries per-field validation messages on 422 responses.
	Fields map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// IsRetryable reports whether the error is worth retrying: network failures
// and server errors are, client errors are not.
func IsRetryable(err error) bool {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.StatusCode >= 500
	}
	return err != nil
}

// Transport performs JSON round trips against a geckd base URL.
type Transport struct {
	baseURL    string
	actingUser string
	httpClient *http.Client
}

// NewTransport creates a Transport. actingUser identifies the operator for
// endpoints that care (self-toggle protection); it may be empty.
func NewTransport(baseURL, actingUser string) *Transport {
	return &Transport{
		baseURL:    baseURL,
		actingUser: actingUser,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// do performs one JSON request. payload and dest may be nil.
func (t *Transport) do(ctx context.Context, method, path string, payload, dest interface{}) error {
	body, _, err := t.doRaw(ctx, method, path, payload)
	if err != nil {
		return err
	}
	if dest != nil && len(body) > 0 {
		if err := json.Unmarshal(body, dest); err != nil {
			return fmt.Errorf("%s %s: parsing response: %w", method, path, err)
		}
	}
	return nil
}

// doRaw performs one request and returns the raw body and headers.
func (t *Transport) doRaw(ctx context.Context, method, path string, payload interface{}) ([]byte, http.Header, error) {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("marshaling body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, bodyReader)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.actingUser != "" {
		req.Header.Set("X-Acting-User", t.actingUser)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, resp.Header, parseAPIError(resp.StatusCode, body)
	}
	return body, resp.Header, nil
}

// parseAPIError decodes the server's error envelope, falling back to the
// truncated raw body for anything unexpected.
func parseAPIError(status int, body []byte) error {
	var envelope struct {
		Error  string            `json:"error"`
		Errors map[string]string `json:"errors"`
	}
	apiErr := &APIError{StatusCode: status}
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Message = envelope.Error
		apiErr.Fields = envelope.Errors
		if apiErr.Message == "" && len(envelope.Errors) > 0 {
			apiErr.Message = "validation failed"
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = truncate(string(body), 200)
	}
	return apiErr
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
