package requests

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// File is one part of a multipart upload.
type File struct {
	Field       string
	Name        string
	ContentType string
	Content     io.Reader
}

type requestOptions struct {
	params          url.Values
	header          http.Header
	cookies         []*http.Cookie
	body            io.Reader
	bodyType        string
	json            any
	hasJSON         bool
	form            url.Values
	files           []File
	timeout         time.Duration
	followRedirects *bool
}

// RequestOption configures a single request.
type RequestOption func(*requestOptions)

// WithParams adds query parameters to the request URL.
func WithParams(params url.Values) RequestOption {
	return func(o *requestOptions) {
		for k, vs := range params {
			for _, v := range vs {
				o.params.Add(k, v)
			}
		}
	}
}

// WithParam adds one query parameter.
func WithParam(key, value string) RequestOption {
	return func(o *requestOptions) { o.params.Add(key, value) }
}

// WithHeader sets a request header. A User-Agent set here replaces the
// random one.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) { o.header.Set(key, value) }
}

// WithHeaders sets every header in h.
func WithHeaders(h http.Header) RequestOption {
	return func(o *requestOptions) {
		for k, vs := range h {
			o.header.Del(k)
			for _, v := range vs {
				o.header.Add(k, v)
			}
		}
	}
}

// WithCookies attaches cookies to the request.
func WithCookies(cookies ...*http.Cookie) RequestOption {
	return func(o *requestOptions) { o.cookies = append(o.cookies, cookies...) }
}

// WithBody sends r as the raw request body.
func WithBody(r io.Reader, contentType string) RequestOption {
	return func(o *requestOptions) {
		o.body = r
		o.bodyType = contentType
	}
}

// WithJSON sends v encoded as JSON.
func WithJSON(v any) RequestOption {
	return func(o *requestOptions) {
		o.json = v
		o.hasJSON = true
	}
}

// WithForm sends form as an urlencoded body, or as multipart fields when
// files are attached too.
func WithForm(form url.Values) RequestOption {
	return func(o *requestOptions) {
		for k, vs := range form {
			for _, v := range vs {
				o.form.Add(k, v)
			}
		}
	}
}

// WithFiles sends a multipart/form-data body.
func WithFiles(files ...File) RequestOption {
	return func(o *requestOptions) { o.files = append(o.files, files...) }
}

// WithTimeout overrides the client timeout for this request.
func WithTimeout(d time.Duration) RequestOption {
	return func(o *requestOptions) { o.timeout = d }
}

// WithFollowRedirects overrides the client redirect policy for this request.
func WithFollowRedirects(follow bool) RequestOption {
	return func(o *requestOptions) { o.followRedirects = &follow }
}

func newRequestOptions(opts []RequestOption) *requestOptions {
	o := &requestOptions{
		params: url.Values{},
		header: http.Header{},
		form:   url.Values{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// encodeBody picks the body in order of precedence: files, raw body, JSON, form.
func (o *requestOptions) encodeBody() (io.Reader, string, error) {
	switch {
	case len(o.files) > 0:
		return o.multipart()
	case o.body != nil:
		return o.body, o.bodyType, nil
	case o.hasJSON:
		raw, err := json.Marshal(o.json)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode json body: %w", err)
		}
		return bytes.NewReader(raw), "application/json", nil
	case len(o.form) > 0:
		return strings.NewReader(o.form.Encode()), "application/x-www-form-urlencoded", nil
	default:
		return nil, "", nil
	}
}

func (o *requestOptions) multipart() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, vs := range o.form {
		for _, v := range vs {
			if err := w.WriteField(k, v); err != nil {
				return nil, "", fmt.Errorf("failed to write form field %s: %w", k, err)
			}
		}
	}

	for _, f := range o.files {
		var part io.Writer
		var err error
		if f.ContentType != "" {
			h := textproto.MIMEHeader{}
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Name))
			h.Set("Content-Type", f.ContentType)
			part, err = w.CreatePart(h)
		} else {
			part, err = w.CreateFormFile(f.Field, f.Name)
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part %s: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write file %s: %w", f.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
