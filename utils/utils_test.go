package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFlushLogMessage(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := Logger
	Logger = zap.New(core)
	t.Cleanup(func() { Logger = prev })

	var b strings.Builder
	FlushLogMessage(&b)
	require.Zero(t, logs.Len())

	AddToLogMessage(&b, "[Page]")
	AddToLogMessage(&b, "Rendered page index")
	FlushLogMessage(&b)

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "[Page];\nRendered page index;", entries[0].Message)
}

func TestRespondError(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	rec := httptest.NewRecorder()
	RespondError(rec, &b, "Listing store is not configured", http.StatusServiceUnavailable)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"error":"Listing store is not configured"}`, rec.Body.String())
	require.Contains(t, b.String(), "Listing store is not configured")
}

func TestCORSMiddleware(t *testing.T) {
	t.Parallel()

	called := false
	h := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/listings/card", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.False(t, called)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/listings/card", nil))
	require.True(t, called)
}

func TestInitLogger(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	require.NoError(t, InitLogger("debug"))
	require.True(t, Logger.Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, InitLogger("loud"))
	require.False(t, Logger.Core().Enabled(zapcore.DebugLevel))
	require.True(t, Logger.Core().Enabled(zapcore.InfoLevel))
}
