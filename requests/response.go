package requests

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Cookies    []*http.Cookie
	// URL is the final URL after redirects.
	URL  *url.URL
	Body []byte
}

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status: %s", e.URL, e.Status)
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// RaiseForStatus returns a *StatusError unless the status code is 2xx.
func (r *Response) RaiseForStatus() error {
	if r.OK() {
		return nil
	}
	u := ""
	if r.URL != nil {
		u = r.URL.Redacted()
	}
	return &StatusError{StatusCode: r.StatusCode, Status: r.Status, URL: u}
}
