package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// freePort grabs an ephemeral port from the kernel and releases it for the
// server under test.
func freePort(t *testing.T) int {
	t.Helper()

	lis, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer lis.Close()

	return lis.Addr().(*net.TCPAddr).Port
}

func TestNew(t *testing.T) {
	t.Run("rejects out-of-range ports", func(t *testing.T) {
		for _, port := range []int{0, -1, 70000} {
			_, err := New(WithPort(port))
			assert.Error(t, err, "port %d", port)
		}
	})

	t.Run("serves healthz and shuts down", func(t *testing.T) {
		logger := zaptest.NewLogger(t)

		server, err := New(
			WithPort(freePort(t)),
			WithLogger(logger),
			WithMode(gin.TestMode),
			WithLogging(true),
		)
		require.NoError(t, err)

		server.Start()
		defer func() {
			require.NoError(t, server.Shutdown(context.Background()))
		}()

		port := server.Addr().(*net.TCPAddr).Port
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/healthz", port))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("router accepts registered routes", func(t *testing.T) {
		server, err := New(
			WithPort(freePort(t)),
			WithMode(gin.TestMode),
		)
		require.NoError(t, err)
		defer server.Shutdown(context.Background())

		server.Router().GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		server.Router().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pong", w.Body.String())
	})
}

func TestLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)

	router := gin.New()
	router.Use(LoggingMiddleware(logger))
	router.GET("/ok", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
