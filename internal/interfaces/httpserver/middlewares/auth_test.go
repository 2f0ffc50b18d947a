package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/zelican/chat-api/internal/domain/identity"
	"github.com/zelican/chat-api/internal/interfaces/httpserver/responses"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   userID + "@test",
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func authProbe(t *testing.T) (*gin.Engine, *identity.Principal) {
	t.Helper()
	var captured identity.Principal
	engine := gin.New()
	engine.GET("/probe", Authenticate(zerolog.Nop()), func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			t.Error("principal missing after Authenticate")
		}
		captured = principal
		c.Status(http.StatusOK)
	})
	return engine, &captured
}

func TestAuthenticateMissingToken(t *testing.T) {
	engine, _ := authProbe(t)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/probe", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthenticateMalformedToken(t *testing.T) {
	engine, _ := authProbe(t)
	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthenticateFromCookie(t *testing.T) {
	engine, captured := authProbe(t)
	req := httptest.NewRequest("GET", "/probe", nil)
	req.AddCookie(&http.Cookie{Name: responses.AccessTokenCookieName, Value: tokenFor(t, "u-cookie")})
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if captured.UserID != "u-cookie" {
		t.Errorf("user id = %q, want u-cookie", captured.UserID)
	}
}

func TestAuthenticateFromBearerHeader(t *testing.T) {
	engine, captured := authProbe(t)
	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "u-header"))
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if captured.UserID != "u-header" {
		t.Errorf("user id = %q, want u-header", captured.UserID)
	}
}

func TestCookieTakesPrecedenceOverHeader(t *testing.T) {
	engine, captured := authProbe(t)
	req := httptest.NewRequest("GET", "/probe", nil)
	req.AddCookie(&http.Cookie{Name: responses.AccessTokenCookieName, Value: tokenFor(t, "u-cookie")})
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "u-header"))
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if captured.UserID != "u-cookie" {
		t.Errorf("user id = %q, want the cookie identity", captured.UserID)
	}
}
