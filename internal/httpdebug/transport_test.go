package httpdebug

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestTransport_LogsRequestAndResponse(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	rt := Wrap(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader("ok")), Header: http.Header{}, Request: r}, nil
	}), log)

	req, _ := http.NewRequest(http.MethodPost, "http://example.test/chat", strings.NewReader(`{"x":1}`))
	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	_ = resp.Body.Close()

	out := buf.String()
	if !strings.Contains(out, `"message":"HTTP request"`) || !strings.Contains(out, `"message":"HTTP response"`) {
		t.Fatalf("missing dump lines: %s", out)
	}
}

func TestTransport_PropagatesErrors(t *testing.T) {
	boom := errors.New("dial failed")
	rt := Wrap(roundTripFunc(func(*http.Request) (*http.Response, error) { return nil, boom }), zerolog.Nop())
	req, _ := http.NewRequest(http.MethodGet, "http://example.test", nil)
	if _, err := rt.RoundTrip(req); !errors.Is(err, boom) {
		t.Fatalf("expected dial error, got %v", err)
	}
}
