package shared

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/recode/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const traceID = "4bf92f3577b34da6a3ce929d0e0e4736"

// tracedRequest returns a request carrying a fixed trace id and a capturing
// logger.
func tracedRequest() (*http.Request, *logger.TestLogBuffer) {
	log, buf := logger.NewTestLogger()
	ctx := context.WithValue(context.Background(), TraceIDKey, traceID)
	ctx = logger.WithLogger(ctx, log)
	return httptest.NewRequest(http.MethodGet, "/api/decks", nil).WithContext(ctx), buf
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRespondWithJSON(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithJSON(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil), http.StatusOK,
		map[string]int{"total_cards": 12, "mastered": 3})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"total_cards":12,"mastered":3}`, w.Body.String())
}

func TestRespondWithError_TraceID(t *testing.T) {
	req, _ := tracedRequest()
	w := httptest.NewRecorder()
	RespondWithError(w, req, http.StatusUnauthorized, "Token expired")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, ErrorResponse{Error: "Token expired", TraceID: traceID}, decodeError(t, w))

	w = httptest.NewRecorder()
	RespondWithError(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusNotFound, "Deck not found")
	assert.Empty(t, decodeError(t, w).TraceID)
	assert.NotContains(t, w.Body.String(), "trace_id")
}

func TestRespondWithErrorAndLog(t *testing.T) {
	cause := errors.New("card 42 failed to scan")

	for _, tc := range []struct {
		status   int
		elevated bool
		level    string
	}{
		{http.StatusInternalServerError, false, "ERROR"},
		{http.StatusServiceUnavailable, true, "ERROR"},
		{http.StatusNotFound, false, "DEBUG"},
		{http.StatusUnauthorized, true, "WARN"},
		{http.StatusTooManyRequests, false, "WARN"},
	} {
		req, buf := tracedRequest()
		w := httptest.NewRecorder()

		var opts []ResponseOption
		if tc.elevated {
			opts = append(opts, WithElevatedLogLevel())
		}
		RespondWithErrorAndLog(w, req, tc.status, "Something went wrong", cause, opts...)

		assert.Equal(t, tc.status, w.Code)
		assert.Equal(t, "Something went wrong", decodeError(t, w).Error)
		assert.NotContains(t, w.Body.String(), "scan")

		entries, err := buf.Entries()
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		last := entries[len(entries)-1]
		assert.Equal(t, tc.level, last["level"], "status %d", tc.status)
		assert.Equal(t, traceID, last["trace_id"])
		assert.Equal(t, cause.Error(), last["error"])
		assert.Equal(t, "*errors.errorString", last["error_type"])
	}
}

func TestErrorLevel_NilError(t *testing.T) {
	req, buf := tracedRequest()
	RespondWithErrorAndLog(httptest.NewRecorder(), req, http.StatusBadRequest, "Invalid request format", nil)
	assert.NotContains(t, buf.String(), `"error"`)
	assert.Equal(t, slog.LevelDebug, errorLevel(http.StatusBadRequest, false))
}

func TestRespondWithErrorAndLog_RedactsError(t *testing.T) {
	req, buf := tracedRequest()
	RespondWithErrorAndLog(httptest.NewRecorder(), req, http.StatusInternalServerError, "Internal server error",
		errors.New("dial postgres://admin:hunter2@db:5432/recode failed"))

	assert.NotContains(t, buf.String(), "hunter2")
	assert.Contains(t, buf.String(), "[REDACTED_CREDENTIAL]")
}
