package logger

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	Initialize("development")
	os.Exit(m.Run())
}

func TestRequestLogger(t *testing.T) {
	t.Run("propagates the incoming request id to the request context", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestLogger())
		var got string
		r.GET("/ping", func(c *gin.Context) {
			got = getRequestID(c.Request.Context())
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-ID", "req-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "req-123", got)
	})

	t.Run("generates a request id when the header is absent", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestLogger())
		var got string
		r.GET("/ping", func(c *gin.Context) {
			got = getRequestID(c.Request.Context())
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.NotEmpty(t, got)
		assert.NotEqual(t, "unknown", got)
	})
}

func TestWithContext(t *testing.T) {
	ctx := WithContext(t.Context(), "req-456")
	assert.Equal(t, "req-456", getRequestID(ctx))
}
