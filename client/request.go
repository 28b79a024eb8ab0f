package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

const contentTypeJSON = "application/json"

// Request describes one call relative to the client's base URL.
// The body is held as bytes so the request can be rebuilt for a replay.
type Request struct {
	Method      string
	Path        string
	Header      http.Header
	Body        []byte
	ContentType string

	// retried is set on the copy that is replayed after a refresh.
	retried bool
	// sentToken is the access token attached on the last dispatch.
	sentToken string
	requestID string
}

// NewRequest creates a request with no body.
func NewRequest(method, path string) *Request {
	return &Request{Method: method, Path: path, Header: make(http.Header)}
}

// NewJSONRequest creates a request whose body is v encoded as JSON.
// A nil v produces a request without a body.
func NewJSONRequest(method, path string, v any) (*Request, error) {
	req := NewRequest(method, path)
	if v == nil {
		return req, nil
	}
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	req.Body = body
	req.ContentType = contentTypeJSON
	return req, nil
}

// Retried reports whether the request is a replay after a refresh.
func (r *Request) Retried() bool { return r.retried }

// replay returns a copy of the request with the retry marker set.
func (r *Request) replay() *Request {
	c := *r
	c.Header = r.Header.Clone()
	c.retried = true
	return &c
}

// build turns the request into an *http.Request against baseURL.
func (r *Request) build(baseURL string) (*http.Request, error) {
	if isAbsoluteURL(r.Path) {
		return nil, fmt.Errorf("%w: %s", ErrAbsoluteURL, r.Path)
	}
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequest(r.Method, joinURL(baseURL, r.Path), body)
	if err != nil {
		return nil, err
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	contentType := r.ContentType
	if contentType == "" {
		contentType = contentTypeJSON
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentTypeJSON)
	if r.requestID != "" {
		req.Header.Set("X-Request-ID", r.requestID)
	}
	return req, nil
}

// FormFile is a file part of a multipart upload.
type FormFile struct {
	Field    string
	FileName string
	Content  []byte
}

// Form is the payload of a multipart upload.
type Form struct {
	Fields map[string]string
	Files  []FormFile
}

// NewUploadRequest creates a POST request with a multipart/form-data body.
func NewUploadRequest(path string, form Form) (*Request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range form.Fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}
	for _, f := range form.Files {
		part, err := w.CreateFormFile(f.Field, f.FileName)
		if err != nil {
			return nil, fmt.Errorf("failed to create form file %s: %w", f.FileName, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, fmt.Errorf("failed to write form file %s: %w", f.FileName, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req := NewRequest(http.MethodPost, path)
	req.Body = buf.Bytes()
	req.ContentType = w.FormDataContentType()
	return req, nil
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "//")
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
