package responses

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func cookiesAfter(t *testing.T, handler gin.HandlerFunc) map[string]*http.Cookie {
	t.Helper()
	engine := gin.New()
	engine.GET("/", handler)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	out := map[string]*http.Cookie{}
	for _, cookie := range w.Result().Cookies() {
		out[cookie.Name] = cookie
	}
	return out
}

func TestSetAuthCookiesAttributes(t *testing.T) {
	cookies := cookiesAfter(t, func(c *gin.Context) {
		SetAuthCookies(c, "at", "rt", true)
		c.Status(http.StatusOK)
	})

	access, ok := cookies[AccessTokenCookieName]
	if !ok {
		t.Fatal("access token cookie missing")
	}
	refresh, ok := cookies[RefreshTokenCookieName]
	if !ok {
		t.Fatal("refresh token cookie missing")
	}

	if access.Value != "at" || refresh.Value != "rt" {
		t.Errorf("cookie values = %q/%q", access.Value, refresh.Value)
	}
	if access.MaxAge != int(AccessTokenTTL.Seconds()) {
		t.Errorf("access max-age = %d, want %d", access.MaxAge, int(AccessTokenTTL.Seconds()))
	}
	if refresh.MaxAge != int(RefreshTokenTTL.Seconds()) {
		t.Errorf("refresh max-age = %d, want %d", refresh.MaxAge, int(RefreshTokenTTL.Seconds()))
	}
	for _, cookie := range []*http.Cookie{access, refresh} {
		if !cookie.HttpOnly {
			t.Errorf("%s must be httpOnly", cookie.Name)
		}
		if !cookie.Secure {
			t.Errorf("%s must be secure in production", cookie.Name)
		}
		if cookie.Path != "/" {
			t.Errorf("%s path = %q, want /", cookie.Name, cookie.Path)
		}
		if cookie.SameSite != http.SameSiteStrictMode {
			t.Errorf("%s sameSite = %v, want strict", cookie.Name, cookie.SameSite)
		}
	}
}

func TestSetAuthCookiesInsecureInDevelopment(t *testing.T) {
	cookies := cookiesAfter(t, func(c *gin.Context) {
		SetAuthCookies(c, "at", "rt", false)
		c.Status(http.StatusOK)
	})
	if cookies[AccessTokenCookieName].Secure {
		t.Error("access cookie should not be secure outside production")
	}
}

func TestClearAuthCookies(t *testing.T) {
	cookies := cookiesAfter(t, func(c *gin.Context) {
		ClearAuthCookies(c, false)
		c.Status(http.StatusOK)
	})

	for _, name := range []string{AccessTokenCookieName, RefreshTokenCookieName} {
		cookie, ok := cookies[name]
		if !ok {
			t.Fatalf("%s clear cookie missing", name)
		}
		if cookie.Value != "" || cookie.MaxAge >= 0 {
			t.Errorf("%s not expired: value=%q maxAge=%d", name, cookie.Value, cookie.MaxAge)
		}
	}
}
