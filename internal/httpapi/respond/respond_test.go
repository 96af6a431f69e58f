package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataScyther/Neeva-AI-sub000/internal/errors"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHelpersSetStatusAndKind(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter)
		status int
		kind   Kind
	}{
		{"bad request", func(w http.ResponseWriter) { WriteBadRequest(w, "m") }, http.StatusBadRequest, KindValidation},
		{"unauthorized", func(w http.ResponseWriter) { WriteUnauthorized(w, "m") }, http.StatusUnauthorized, KindUnauthenticated},
		{"not found", func(w http.ResponseWriter) { WriteNotFound(w, "m") }, http.StatusNotFound, KindNotFound},
		{"unavailable", func(w http.ResponseWriter) { WriteUnavailable(w, "m") }, http.StatusServiceUnavailable, KindUnavailable},
		{"internal", func(w http.ResponseWriter) { WriteInternalError(w, "m") }, http.StatusInternalServerError, KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			require.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.kind, body.Kind)
			assert.Equal(t, tt.status, body.Code)
			assert.Equal(t, http.StatusText(tt.status), body.Error)
			assert.Equal(t, "m", body.Message)
		})
	}
}

func TestWriteUnauthorizedChallenges(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteUnauthorized(rec, "bearer token required")
	assert.Equal(t, `Bearer realm="neeva"`, rec.Header().Get("WWW-Authenticate"))
}

func TestWriteClassified(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"transient", fmt.Errorf("save: %w", errors.NewHTTPError(http.StatusBadGateway, "", "merge")), http.StatusServiceUnavailable},
		{"config", errors.NewConfigError("no api key"), http.StatusServiceUnavailable},
		{"auth", errors.NewHTTPError(http.StatusUnauthorized, "", "complete"), http.StatusInternalServerError},
		{"unclassified", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteClassified(rec, tt.err)
			require.Equal(t, tt.status, rec.Code)
			assert.NotContains(t, rec.Body.String(), "no api key")
		})
	}
}
