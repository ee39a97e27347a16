package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/foodgram/pkg/apperr"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	r := gin.New()
	r.GET("/x", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	var body Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestErrorMapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperr.Validation("cooking time must be at least 1"), http.StatusBadRequest, "VALIDATION"},
		{apperr.Conflict("already exists"), http.StatusBadRequest, "CONFLICT"},
		{apperr.NotFound("recipe not found"), http.StatusNotFound, "NOT_FOUND"},
		{apperr.Forbidden("only the author may change this recipe"), http.StatusForbidden, "FORBIDDEN"},
		{errors.New("db down"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		w, body := serve(t, func(c *gin.Context) { Error(c, tc.err) })
		assert.Equal(t, tc.status, w.Code)
		assert.Equal(t, tc.code, body.Code)
	}
}

func TestInternalErrorHidesDetails(t *testing.T) {
	_, body := serve(t, func(c *gin.Context) { InternalError(c, errors.New("password=hunter2")) })
	assert.Equal(t, "internal server error", body.Message)
}

func TestSuccessEnvelope(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) { Success(c, gin.H{"id": 1}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", body.Code)
	assert.Equal(t, map[string]interface{}{"id": float64(1)}, body.Data)
}
