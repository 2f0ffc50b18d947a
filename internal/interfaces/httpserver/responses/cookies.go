package responses

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookieName  = "accessToken"
	RefreshTokenCookieName = "refreshToken"

	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// NewAuthCookie builds an auth cookie with the hardening attributes every
// token cookie carries. Secure is set only for production so local HTTP
// development keeps working.
func NewAuthCookie(name, value string, maxAge time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// SetAuthCookies writes both token cookies on the response.
func SetAuthCookies(c *gin.Context, accessToken, refreshToken string, secure bool) {
	http.SetCookie(c.Writer, NewAuthCookie(AccessTokenCookieName, accessToken, AccessTokenTTL, secure))
	http.SetCookie(c.Writer, NewAuthCookie(RefreshTokenCookieName, refreshToken, RefreshTokenTTL, secure))
}

// ClearAuthCookies expires both token cookies.
func ClearAuthCookies(c *gin.Context, secure bool) {
	http.SetCookie(c.Writer, NewAuthCookie(AccessTokenCookieName, "", -time.Second, secure))
	http.SetCookie(c.Writer, NewAuthCookie(RefreshTokenCookieName, "", -time.Second, secure))
}
