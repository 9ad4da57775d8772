package log

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HeaderRequestID carries the request id on outbound requests.
const HeaderRequestID = "X-Request-ID"

type (
	loggerKey    struct{}
	requestIDKey struct{}
)

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Ctx retrieves the logger from the context.
// If no logger is found, the global logger is returned.
func Ctx(ctx context.Context) zerolog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return l
	}
	return L()
}

// WithRequestID pins the id that Transport sends for requests made with ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Transport is an http.RoundTripper that tags each request with an
// X-Request-ID and logs its outcome.
type Transport struct {
	base   http.RoundTripper
	logger zerolog.Logger
}

// NewTransport wraps base. A nil base means http.DefaultTransport.
func NewTransport(logger zerolog.Logger, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base, logger: logger}
}

// Base returns the wrapped round tripper.
func (t *Transport) Base() http.RoundTripper {
	return t.base
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	reqID := req.Header.Get(HeaderRequestID)
	if reqID == "" {
		reqID = RequestID(req.Context())
	}
	if reqID == "" {
		reqID = uuid.New().String()
	}

	// The caller's request must not be mutated.
	out := req.Clone(req.Context())
	out.Header.Set(HeaderRequestID, reqID)

	child := t.logger.With().
		Str(FieldRequestID, reqID).
		Str(FieldMethod, out.Method).
		Str(FieldURL, out.URL.Redacted()).
		Logger()

	resp, err := t.base.RoundTrip(out)
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		child.Warn().Err(err).Float64(FieldLatency, latency).Msg("request failed")
		return nil, err
	}

	child.Debug().
		Int(FieldStatus, resp.StatusCode).
		Float64(FieldLatency, latency).
		Msg("request completed")

	return resp, nil
}
