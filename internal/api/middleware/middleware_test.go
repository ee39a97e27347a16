package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/foodgram/pkg/auth"
)

func init() { gin.SetMode(gin.TestMode) }

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": Viewer(c).UserID})
	})
	r.GET("/private", RequireViewer(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func get(r *gin.Engine, path, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthViewer(t *testing.T) {
	tokens := auth.NewManager("secret", "foodgram", time.Hour)
	r := newEngine(Auth(tokens))
	token, err := tokens.Issue(7)
	require.NoError(t, err)

	w := get(r, "/whoami", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0}`, w.Body.String())

	for _, scheme := range []string{"Bearer ", "Token "} {
		w = get(r, "/whoami", scheme+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
	}

	assert.Equal(t, http.StatusUnauthorized, get(r, "/whoami", "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/whoami", "Bearer not-a-jwt").Code)

	other := auth.NewManager("other-secret", "foodgram", time.Hour)
	forged, err := other.Issue(7)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/whoami", "Bearer "+forged).Code)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/private", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "/private", "Bearer "+token).Code)
}

func TestRateLimiterPerIP(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	r := newEngine(limiter.Middleware())

	assert.Equal(t, http.StatusOK, get(r, "/whoami", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "/whoami", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/whoami", "").Code)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "other clients keep their own bucket")
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := newEngine(RequestLogger())

	w := get(r, "/whoami", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
