package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataScyther/Neeva-AI-sub000/internal/errors"
	"github.com/DataScyther/Neeva-AI-sub000/internal/gateway"
)

func request() gateway.CompletionRequest {
	return gateway.CompletionRequest{
		Messages:    gateway.BuildMessages(nil, "hello", gateway.DefaultMaxContextMessages),
		MaxTokens:   300,
		Temperature: 0.7,
		TopP:        0.9,
	}
}

func TestComplete_Success(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "Neeva AI", r.Header.Get("X-Title"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Hi there  "}}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/v1/", "sk-test", "")
	reply, err := c.Complete(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, "Hi there", reply)

	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, 300, got.MaxTokens)
	assert.InDelta(t, 0.9, got.TopP, 1e-9)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, gateway.RoleSystem, got.Messages[0].Role)
}

func TestComplete_ClassifiesStatus(t *testing.T) {
	cases := map[int]errors.Kind{
		http.StatusUnauthorized:        errors.KindAuth,
		http.StatusForbidden:           errors.KindPermission,
		http.StatusTooManyRequests:     errors.KindRateLimited,
		http.StatusInternalServerError: errors.KindTransient,
		http.StatusBadGateway:          errors.KindTransient,
		http.StatusBadRequest:          errors.KindUnclassified,
	}
	for status, kind := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
		}))
		_, err := New(srv.URL, "k", "m").Complete(context.Background(), request())
		srv.Close()

		require.Error(t, err)
		assert.Equal(t, kind, errors.KindOf(err), "status %d", status)
	}
}

func TestComplete_NoChoicesIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "k", "m").Complete(context.Background(), request())
	assert.Equal(t, errors.KindMalformed, errors.KindOf(err))
}

func TestComplete_NetworkFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "k", "m", WithTimeout(20*time.Millisecond)).Complete(context.Background(), request())
	require.Error(t, err)
	assert.Equal(t, errors.KindTransient, errors.KindOf(err))
	assert.True(t, errors.IsRecoverable(err))
}
