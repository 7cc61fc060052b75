package gzippedhttp

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipString(t *testing.T, input string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)

	_, err := gzipWriter.Write([]byte(input))
	require.NoError(t, err)
	require.NoError(t, gzipWriter.Close())

	return buf.Bytes()
}

func gunzip(t *testing.T, input []byte) string {
	t.Helper()
	reader, err := gzip.NewReader(bytes.NewReader(input))
	require.NoError(t, err)
	defer reader.Close()

	result, err := io.ReadAll(reader)
	require.NoError(t, err)

	return string(result)
}

func jsonHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func TestGzipResponse(t *testing.T) {
	tests := []struct {
		name           string
		acceptEncoding string
		handler        http.Handler
		wantGzip       bool
		wantBody       string
	}{
		{
			name:           "json compressed",
			acceptEncoding: "gzip, deflate",
			handler:        jsonHandler(http.StatusOK, `{"username":"alice"}`),
			wantGzip:       true,
			wantBody:       `{"username":"alice"}`,
		},
		{
			name:           "error json compressed too",
			acceptEncoding: "gzip",
			handler:        jsonHandler(http.StatusNotFound, `{"error":"user not found"}`),
			wantGzip:       true,
			wantBody:       `{"error":"user not found"}`,
		},
		{
			name:           "client does not accept gzip",
			acceptEncoding: "",
			handler:        jsonHandler(http.StatusOK, `[]`),
			wantGzip:       false,
			wantBody:       `[]`,
		},
		{
			name:           "binary left alone",
			acceptEncoding: "gzip",
			handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "image/png")
				_, _ = w.Write([]byte("png-bytes"))
			}),
			wantGzip: false,
			wantBody: "png-bytes",
		},
		{
			name:           "partial content left alone",
			acceptEncoding: "gzip",
			handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/css")
				w.Header().Set("Content-Range", "bytes 0-3/120")
				w.WriteHeader(http.StatusPartialContent)
				_, _ = w.Write([]byte("body"))
			}),
			wantGzip: false,
			wantBody: "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.acceptEncoding != "" {
				request.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			w := httptest.NewRecorder()

			GzipResponse(tt.handler).ServeHTTP(w, request)

			result := w.Result()
			defer result.Body.Close()
			body, err := io.ReadAll(result.Body)
			require.NoError(t, err)

			if tt.wantGzip {
				assert.Equal(t, "gzip", result.Header.Get("Content-Encoding"))
				assert.Equal(t, tt.wantBody, gunzip(t, body))
				return
			}
			assert.Empty(t, result.Header.Get("Content-Encoding"))
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}

func TestUngzipRequest(t *testing.T) {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(body)
	})

	t.Run("gzipped body", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(gzipString(t, "username=alice")))
		request.Header.Set("Content-Encoding", "gzip")
		w := httptest.NewRecorder()

		UngzipRequest(echo).ServeHTTP(w, request)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "username=alice", w.Body.String())
	})

	t.Run("plain body", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("username=bob"))
		w := httptest.NewRecorder()

		UngzipRequest(echo).ServeHTTP(w, request)

		assert.Equal(t, "username=bob", w.Body.String())
	})

	t.Run("broken gzip", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not gzip at all"))
		request.Header.Set("Content-Encoding", "gzip")
		w := httptest.NewRecorder()

		UngzipRequest(echo).ServeHTTP(w, request)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
