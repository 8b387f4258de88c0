package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// PageInfo describes the position of a page within a paginated listing
type PageInfo struct {
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	CurrentPage   int   `json:"currentPage"`
	PageSize      int   `json:"pageSize"`
}

// Response is the envelope in which the backend returns every payload
type Response[T any] struct {
	Data     T         `json:"data"`
	PageInfo *PageInfo `json:"pageInfo,omitempty"`
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	Code     int       `json:"code"`
	Status   string    `json:"status"`
}

// Params are encoded into the query string of a request; nil values are omitted
type Params map[string]any

func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}
	values := url.Values{}
	for key, value := range p {
		if value == nil {
			continue
		}
		values.Set(key, fmt.Sprint(value))
	}
	return values.Encode()
}

// FormFile is a file attached to a multipart upload
type FormFile struct {
	Field    string
	Filename string
	Content  io.Reader
}

// Form is the body of a multipart upload
type Form struct {
	Fields map[string]string
	Files  []FormFile
}

func Get[T any](ctx context.Context, c *Client, endpoint string, params Params) (*Response[T], error) {
	return call[T](ctx, c, http.MethodGet, endpoint, params, nil, "")
}

func Post[T any](ctx context.Context, c *Client, endpoint string, data any, params Params) (*Response[T], error) {
	body, contentType, err := encodeJSON(data)
	if err != nil {
		return nil, err
	}
	return call[T](ctx, c, http.MethodPost, endpoint, params, body, contentType)
}

func Put[T any](ctx context.Context, c *Client, endpoint string, data any, params Params) (*Response[T], error) {
	body, contentType, err := encodeJSON(data)
	if err != nil {
		return nil, err
	}
	return call[T](ctx, c, http.MethodPut, endpoint, params, body, contentType)
}

func Delete[T any](ctx context.Context, c *Client, endpoint string, params Params) (*Response[T], error) {
	return call[T](ctx, c, http.MethodDelete, endpoint, params, nil, "")
}

// Upload POSTs a multipart form
func Upload[T any](ctx context.Context, c *Client, endpoint string, form Form, params Params) (*Response[T], error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range form.Fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %q: %w", name, err)
		}
	}
	for _, f := range form.Files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to create form file %q: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, fmt.Errorf("failed to read upload content for %q: %w", f.Filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return call[T](ctx, c, http.MethodPost, endpoint, params, &buf, w.FormDataContentType())
}

func call[T any](ctx context.Context, c *Client, method string, endpoint string, params Params, body io.Reader, contentType string) (*Response[T], error) {
	res, err := c.Do(ctx, method, endpoint, params, body, contentType)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &transportError{err: err}
	}
	var envelope Response[T]
	if len(bytes.TrimSpace(b)) == 0 {
		envelope.Success = true
		return &envelope, nil
	}
	if err := json.Unmarshal(b, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s %s: %w", method, endpoint, err)
	}
	return &envelope, nil
}

// encodeJSON serializes a request body; a nil value yields no body at all
func encodeJSON(data any) (io.Reader, string, error) {
	if data == nil {
		return nil, "", nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode request body: %w", err)
	}
	return bytes.NewReader(b), "application/json", nil
}

type contextKey string

const requestIdKey contextKey = "requestId"

// ContextWithRequestId stores a correlation ID that will be forwarded to the
// backend with every request made under ctx
func ContextWithRequestId(ctx context.Context, requestId string) context.Context {
	return context.WithValue(ctx, requestIdKey, requestId)
}

func RequestIdFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIdKey).(string); ok {
		return id
	}
	return ""
}
