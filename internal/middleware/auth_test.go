package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"vidstream/internal/domain"
	"vidstream/internal/pkg/token"
)

type fakeUsers struct {
	users map[int64]*domain.User
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthRouter(tokens *token.Manager, users *fakeUsers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequireAuth(tokens, users, discardLogger()))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt64("user_id")})
	})
	return router
}

func TestRequireAuth_ValidBearerToken(t *testing.T) {
	tokens := token.NewManager("a-secret", "r-secret", time.Hour, time.Hour)
	user := &domain.User{ID: 42, Username: "alice", Email: "alice@example.com"}
	router := newAuthRouter(tokens, &fakeUsers{users: map[int64]*domain.User{42: user}})

	validToken, _ := tokens.IssueAccess(user)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
}

func TestRequireAuth_ValidCookie(t *testing.T) {
	tokens := token.NewManager("a-secret", "r-secret", time.Hour, time.Hour)
	user := &domain.User{ID: 42, Username: "alice"}
	router := newAuthRouter(tokens, &fakeUsers{users: map[int64]*domain.User{42: user}})

	validToken, _ := tokens.IssueAccess(user)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: validToken})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth_CookieTakesPrecedence(t *testing.T) {
	tokens := token.NewManager("a-secret", "r-secret", time.Hour, time.Hour)
	user := &domain.User{ID: 42, Username: "alice"}
	router := newAuthRouter(tokens, &fakeUsers{users: map[int64]*domain.User{42: user}})

	validToken, _ := tokens.IssueAccess(user)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: validToken})
	req.Header.Set("Authorization", "Bearer garbage")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth_NoToken(t *testing.T) {
	tokens := token.NewManager("a-secret", "r-secret", time.Hour, time.Hour)
	router := newAuthRouter(tokens, &fakeUsers{users: map[int64]*domain.User{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized request")
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	tokens := token.NewManager("a-secret", "r-secret", time.Hour, time.Hour)
	router := newAuthRouter(tokens, &fakeUsers{users: map[int64]*domain.User{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer invalid-jwt-here")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid access token")
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	tokens := token.NewManager("a-secret", "r-secret", -time.Minute, time.Hour)
	user := &domain.User{ID: 42}
	router := newAuthRouter(tokens, &fakeUsers{users: map[int64]*domain.User{42: user}})

	expired, _ := tokens.IssueAccess(user)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid access token")
}

func TestRequireAuth_UserVanished(t *testing.T) {
	tokens := token.NewManager("a-secret", "r-secret", time.Hour, time.Hour)
	router := newAuthRouter(tokens, &fakeUsers{users: map[int64]*domain.User{}})

	validToken, _ := tokens.IssueAccess(&domain.User{ID: 99})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid access token")
}
