// Package ipfs uploads launch assets to the content-addressing endpoint
// of the launch service. Each call is a single request/response; failures
// surface as domain.UploadError and abort the caller's pipeline.
package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"solana-launch-pilot/internal/domain"
	"solana-launch-pilot/internal/observability"
)

// DefaultTimeout bounds each upload request.
const DefaultTimeout = 30 * time.Second

// Client talks to the POST /ipfs endpoint.
type Client struct {
	endpoint string
	client   *http.Client
	metrics  *observability.Metrics
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithMetrics enables per-upload counters.
func WithMetrics(m *observability.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a new upload client. endpoint is the full /ipfs URL.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// uploadResponse covers both upload shapes: multipart image uploads
// return {ipfs}, JSON metadata uploads return {metadataUri}.
type uploadResponse struct {
	IPFS        string `json:"ipfs"`
	MetadataURI string `json:"metadataUri"`
}

// UploadImage pushes image bytes as a multipart file and returns the
// content-addressed URI.
func (c *Client) UploadImage(ctx context.Context, data []byte, filename string) (string, error) {
	uri, err := c.uploadImage(ctx, data, filename)
	c.countUpload("image", err)
	return uri, err
}

func (c *Client) uploadImage(ctx context.Context, data []byte, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", &domain.UploadError{Kind: "image", Err: fmt.Errorf("create form file: %w", err)}
	}
	if _, err := part.Write(data); err != nil {
		return "", &domain.UploadError{Kind: "image", Err: fmt.Errorf("write form file: %w", err)}
	}
	if err := writer.Close(); err != nil {
		return "", &domain.UploadError{Kind: "image", Err: fmt.Errorf("close multipart writer: %w", err)}
	}

	uri, err := c.post(ctx, writer.FormDataContentType(), &body, func(r uploadResponse) string {
		return r.IPFS
	})
	if err != nil {
		return "", &domain.UploadError{Kind: "image", Err: err}
	}
	return uri, nil
}

// UploadMetadata pushes a metadata document as JSON and returns the
// content-addressed URI.
func (c *Client) UploadMetadata(ctx context.Context, doc any) (string, error) {
	uri, err := c.uploadMetadata(ctx, doc)
	c.countUpload("metadata", err)
	return uri, err
}

func (c *Client) uploadMetadata(ctx context.Context, doc any) (string, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", &domain.UploadError{Kind: "metadata", Err: fmt.Errorf("marshal metadata: %w", err)}
	}

	uri, err := c.post(ctx, "application/json", bytes.NewReader(payload), func(r uploadResponse) string {
		return r.MetadataURI
	})
	if err != nil {
		return "", &domain.UploadError{Kind: "metadata", Err: err}
	}
	return uri, nil
}

func (c *Client) countUpload(kind string, err error) {
	if c.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.metrics.UploadsTotal.WithLabelValues(kind, status).Inc()
}

// post sends one request and extracts the URI from the response.
func (c *Client) post(ctx context.Context, contentType string, body io.Reader, extract func(uploadResponse) string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed uploadResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	uri := extract(parsed)
	if uri == "" {
		return "", fmt.Errorf("response missing uri field")
	}
	return uri, nil
}
