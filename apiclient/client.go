package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"brickvault/models"
)

const maxResponseBytes = 10 << 20

// Client talks JSON over HTTP to the collection API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for baseURL with the given request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient creates a Client using hc for transport.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Response is what a call produced before decoding into a payload.
type Response struct {
	StatusCode int
	Body       []byte
	Cookies    []*http.Cookie
}

// Do performs a JSON request. body is encoded as JSON when non-nil. When the
// envelope reports success and out is non-nil, the body is decoded into out and
// validated if out implements Validator.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	resp, err := c.send(ctx, method, path, query, reader, "application/json")
	if err != nil {
		return err
	}
	return decodeEnvelope(path, resp.Body, out)
}

// DoRaw performs a JSON request and returns the undecoded response, including
// any cookies the API set. Used by the login flow.
func (c *Client) DoRaw(ctx context.Context, method, path string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	return c.send(ctx, method, path, nil, reader, "application/json")
}

// Decode applies the envelope convention to a raw response and decodes the
// payload into out.
func (r *Response) Decode(path string, out any) error {
	return decodeEnvelope(path, r.Body, out)
}

// FilePart is one file in a multipart upload.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Upload sends a multipart form with one file and optional text fields.
func (c *Client) Upload(ctx context.Context, path string, file FilePart, fields map[string]string, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", k, err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Filename))
	header.Set("Content-Type", file.ContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("failed to write file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close multipart writer: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, path, nil, &buf, writer.FormDataContentType())
	if err != nil {
		return err
	}
	return decodeEnvelope(path, resp.Body, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if id := RequestIDFrom(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	for _, cookie := range CredentialsFrom(ctx) {
		req.AddCookie(cookie)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		zap.S().Warnf("❌ API %s %s failed after %s: %v", method, path, time.Since(start), err)
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, StatusCode: 0, Err: err}
	}
	zap.S().Debugf("API %s %s -> %d in %s", method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       data,
		Cookies:    resp.Cookies(),
	}, nil
}

func decodeEnvelope(path string, body []byte, out any) error {
	var env models.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &InvalidPayloadError{Path: path, Err: err}
	}
	if !env.Success {
		return &AppError{Path: path, Message: env.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &InvalidPayloadError{Path: path, Err: err}
	}
	if v, ok := out.(Validator); ok {
		if err := v.Validate(); err != nil {
			return &InvalidPayloadError{Path: path, Err: err}
		}
	}
	return nil
}

// Get performs a GET and decodes the payload into T.
func Get[T any](ctx context.Context, c *Client, path string, query url.Values) Result[T] {
	var out T
	if err := c.Do(ctx, http.MethodGet, path, query, nil, &out); err != nil {
		return Err[T](err)
	}
	return Ok(out)
}

// Post performs a POST with a JSON body and decodes the payload into T.
func Post[T any](ctx context.Context, c *Client, path string, body any) Result[T] {
	var out T
	if err := c.Do(ctx, http.MethodPost, path, nil, body, &out); err != nil {
		return Err[T](err)
	}
	return Ok(out)
}

// Exec performs a mutation whose only interesting answer is success or failure.
func Exec(ctx context.Context, c *Client, method, path string, body any) error {
	return c.Do(ctx, method, path, nil, body, nil)
}
