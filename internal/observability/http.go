package observability

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultTraceIdHeader is the header used by Transport when TraceIdHeader is empty.
const DefaultTraceIdHeader = "X-Trace-Id"

// Transport is an http.RoundTripper that logs outbound requests and tags them with a trace id.
//
// The trace id is read from the request Context (see SetTraceId), a new uuid is generated if it
// has none. A trace header already set by the caller is left untouched.
type Transport struct {
	Base          http.RoundTripper // http.DefaultTransport if nil
	TraceIdHeader string
	Logger        *slog.Logger // used when the request Context has no Observability
}

// RoundTrip implements http.RoundTripper.
func (self Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	t0 := time.Now()

	hdr := self.TraceIdHeader
	if "" == hdr {
		hdr = DefaultTraceIdHeader
	}

	tId := r.Header.Get(hdr)
	if "" == tId {
		tId = GetTraceId(r.Context())
	}
	if "" == tId {
		tId = uuid.New().String()
	}
	if "" == r.Header.Get(hdr) {
		// RoundTripper must not modify the caller Request
		r = r.Clone(r.Context())
		r.Header.Set(hdr, tId)
	}

	log := self.logger(r).With("tId", tId)
	base := self.Base
	if nil == base {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(r)
	if nil != err {
		log.Warn(
			"failed HTTP request",
			"method", r.Method,
			"url", r.URL.Redacted(),
			"duration", time.Since(t0),
			"error", err,
		)
		return resp, err
	}
	log.Debug(
		"processed HTTP request",
		"method", r.Method,
		"url", r.URL.Redacted(),
		"status", resp.StatusCode,
		"duration", time.Since(t0),
	)

	return resp, nil
}

func (self Transport) logger(r *http.Request) *slog.Logger {
	obs := GetObservability(r.Context())
	if nil == obs && nil != self.Logger {
		return self.Logger
	}
	return obs.Log()
}

var _ http.RoundTripper = Transport{}
