package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	assert.NoError(t, Init("debug"))
	assert.Error(t, Init("loudest"))
	assert.NoError(t, Sync())
}

func TestWithLoggingHTTPMiddleware(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	previous := Log
	Log = zap.New(core).Sugar()
	t.Cleanup(func() { Log = previous })

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantSize   int
	}{
		{
			name: "explicit status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte("nope"))
			},
			wantStatus: http.StatusNotFound,
			wantSize:   4,
		},
		{
			name: "implicit status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("hello"))
			},
			wantStatus: http.StatusOK,
			wantSize:   5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorded.TakeAll()

			request := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			w := httptest.NewRecorder()
			WithLoggingHTTPMiddleware(tt.handler).ServeHTTP(w, request)

			entries := recorded.TakeAll()
			require.Len(t, entries, 1)

			fields := entries[0].ContextMap()
			assert.Equal(t, "/api/users", fields["uri"])
			assert.Equal(t, http.MethodGet, fields["method"])
			assert.EqualValues(t, tt.wantStatus, fields["status"])
			assert.EqualValues(t, tt.wantSize, fields["size"])
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
