// Package delivery posts merge results to an external document store over
// HTTP.
package delivery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Client communicates with the document-store HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// RetryableError indicates a transient delivery failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable delivery error (status %d): %s", e.StatusCode, e.Message)
}

// Result describes one delivered document.
type Result struct {
	BatchID     string
	Filename    string
	RecordCount int
	ContentHash string
}

// Deliver uploads the document bytes under the result's filename. Server
// errors and transport failures come back as *RetryableError; client errors
// are final.
func (c *Client) Deliver(ctx context.Context, res Result, data []byte) error {
	u := c.baseURL + "/documents/" + url.PathEscape(res.Filename)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", docxMIME)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Batch-ID", res.BatchID)
	req.Header.Set("X-Record-Count", fmt.Sprintf("%d", res.RecordCount))
	req.Header.Set("X-Content-Hash", res.ContentHash)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RetryableError{Message: err.Error()}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return nil
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("deliver %s: status %d: %s", res.Filename, resp.StatusCode, string(respBody))
	}
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
