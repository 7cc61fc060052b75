package app

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/exercisetracker/internal/config"
)

func freePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	return port
}

func TestNew(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	a, err := New(config.WithDisableFlagsParsing(true))
	require.NoError(t, err)
	defer a.Close()

	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	resp, err := resty.New().R().Get(srv.URL + "/ping")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestNewInvalidConfig(t *testing.T) {
	t.Setenv("EXERCISE_RESPONSE", "everything")

	_, err := New(config.WithDisableFlagsParsing(true))
	assert.Error(t, err)
}

func TestRunContextShutsDown(t *testing.T) {
	port := freePort(t)
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", strconv.Itoa(port))

	a, err := New(config.WithDisableFlagsParsing(true))
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.RunContext(ctx)
	}()

	url := "http://127.0.0.1:" + strconv.Itoa(port) + "/ping"
	require.Eventually(t, func() bool {
		resp, err := resty.New().R().Get(url)
		return err == nil && resp.StatusCode() == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
