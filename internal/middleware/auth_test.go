package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avolkov/task-manager-api/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func performRequest(authorization string) (*httptest.ResponseRecorder, bool, auth.Principal) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var (
		reached   bool
		principal auth.Principal
	)
	r.GET("/protected", RequireAuth(testSecret), func(c *gin.Context) {
		reached = true
		principal, _ = GetPrincipal(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w, reached, principal
}

func TestRequireAuth_ValidToken(t *testing.T) {
	token, err := auth.IssueToken(auth.Principal{UserID: 7, Roles: []string{"ROLE_USER"}}, testSecret, time.Hour)
	require.NoError(t, err)

	w, reached, principal := performRequest("Bearer " + token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)
	assert.EqualValues(t, 7, principal.UserID)
	assert.Equal(t, []string{"ROLE_USER"}, principal.Roles)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	w, reached, _ := performRequest("")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, reached)
}

func TestRequireAuth_NotBearer(t *testing.T) {
	w, reached, _ := performRequest("Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, reached)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	w, reached, _ := performRequest("Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, reached)
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	token, err := auth.IssueToken(auth.Principal{UserID: 7}, []byte("other-secret"), time.Hour)
	require.NoError(t, err)

	w, reached, _ := performRequest("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, reached)
}
