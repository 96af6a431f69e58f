// Package httpdebug dumps outbound HTTP traffic to the debug log.
//
// Enable it only while troubleshooting: dumps include headers and bodies,
// which carry credentials and user messages.
package httpdebug

import (
	"net/http"
	"net/http/httputil"

	"github.com/rs/zerolog"
)

// Transport logs each request and response through Log before and after
// forwarding to Base.
type Transport struct {
	Base http.RoundTripper
	Log  zerolog.Logger
}

// Wrap returns base wrapped in a debug Transport. A nil base means
// http.DefaultTransport.
func Wrap(base http.RoundTripper, log zerolog.Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base, Log: log}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
		t.Log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := t.Base.RoundTrip(req)
	if err != nil {
		t.Log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		t.Log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}
