// Package classifier holds the two classification sources: the remote HTTP
// backend and the local simulator used when the backend is unavailable.
package classifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/juaai/jua/assets"
	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/infrastructure/schema"
	"github.com/juaai/jua/internal/ports"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// RequestIDHeader carries a per-attempt correlation ID to the backend.
const RequestIDHeader = "X-Request-ID"

// RemoteClient uploads images to the classification endpoint.
type RemoteClient struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	validator  *schema.Validator
}

// NewRemoteClient builds a client for endpoint. ratePerMinute <= 0 disables
// throttling.
func NewRemoteClient(endpoint string, client *http.Client, ratePerMinute int) *RemoteClient {
	if client == nil {
		client = &http.Client{}
	}
	var limiter *rate.Limiter
	if ratePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(ratePerMinute)/60.0), 1)
	}
	return &RemoteClient{
		endpoint:   endpoint,
		httpClient: client,
		limiter:    limiter,
		validator:  schema.MustCompile("classification", assets.ClassificationSchema),
	}
}

// Classify implements ports.Classifier. The returned bytes are a JSON object that
// passed schema validation.
func (c *RemoteClient) Classify(ctx context.Context, image domain.LeafImage) ([]byte, error) {
	if c.endpoint == "" {
		return nil, domain.ErrClassifierUnavailable
	}
	if c.limiter != nil && !c.limiter.Allow() {
		return nil, domain.ErrRateLimited
	}

	body, contentType, err := encodeMultipart(image)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("content-type", contentType)
	httpReq.Header.Set("accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", domain.ErrRemoteStatus, resp.Status)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	if err := c.validator.Validate(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResult, err)
	}
	return payload, nil
}

func encodeMultipart(image domain.LeafImage) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	filename := filepath.Base(image.Filename)
	if filename == "." || filename == "/" || filename == "" {
		filename = "leaf.jpg"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	header.Set("Content-Type", image.ContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}

var _ ports.Classifier = (*RemoteClient)(nil)
