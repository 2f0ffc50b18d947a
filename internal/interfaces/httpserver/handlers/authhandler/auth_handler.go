package authhandler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/zelican/chat-api/internal/config"
	"github.com/zelican/chat-api/internal/infrastructure/authclient"
	"github.com/zelican/chat-api/internal/interfaces/httpserver/middlewares"
	"github.com/zelican/chat-api/internal/interfaces/httpserver/requests"
	authrequests "github.com/zelican/chat-api/internal/interfaces/httpserver/requests/auth"
	"github.com/zelican/chat-api/internal/interfaces/httpserver/responses"
)

// AuthHandler proxies authentication flows to the authorization service
// and manages the token cookies.
type AuthHandler struct {
	client *authclient.Client
	cfg    *config.Config
	log    zerolog.Logger
}

func New(client *authclient.Client, cfg *config.Config, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{client: client, cfg: cfg, log: log}
}

// Login exchanges credentials upstream and establishes the cookie session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req authrequests.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.FailValidation(c, "Validation failed", requests.FieldErrors(err))
		return
	}

	pair, err := h.client.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		responses.HandleError(c, err, "Login failed")
		return
	}

	profile, err := h.client.FetchProfile(c.Request.Context(), pair.AccessToken)
	if err != nil {
		responses.HandleError(c, err, "Login failed")
		return
	}

	responses.SetAuthCookies(c, pair.AccessToken, pair.RefreshToken, h.cfg.IsProduction())
	responses.OKMessage(c, http.StatusOK, "Login successful", gin.H{
		"user":   profile,
		"tokens": pair,
	})
}

// Logout revokes the session upstream on a best effort basis and always
// clears the local cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	accessToken := middlewares.AccessTokenFromRequest(c)
	refreshToken := h.refreshTokenFromRequest(c)
	if accessToken != "" || refreshToken != "" {
		h.client.Logout(c.Request.Context(), accessToken, refreshToken)
	}

	responses.ClearAuthCookies(c, h.cfg.IsProduction())
	responses.OKMessage(c, http.StatusOK, "Logged out successfully", nil)
}

// Refresh rotates the token pair. The refresh token is read from the
// cookie first, then the Authorization bearer header, then the request
// body.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken := h.refreshTokenFromRequest(c)
	if refreshToken == "" {
		responses.Fail(c, http.StatusUnauthorized, "Refresh token not provided")
		return
	}

	pair, err := h.client.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.log.Warn().Err(err).Msg("token refresh rejected")
		// A stale pair is worse than no pair.
		responses.ClearAuthCookies(c, h.cfg.IsProduction())
		responses.Fail(c, http.StatusUnauthorized, "Token refresh failed")
		return
	}

	responses.SetAuthCookies(c, pair.AccessToken, pair.RefreshToken, h.cfg.IsProduction())
	responses.OKMessage(c, http.StatusOK, "Token refreshed", gin.H{"tokens": pair})
}

// GetMe returns the bearer's profile, answering 401 on any failure so
// clients can use it as a cheap session probe.
func (h *AuthHandler) GetMe(c *gin.Context) {
	token := middlewares.AccessTokenFromRequest(c)
	if token == "" {
		responses.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	profile, err := h.client.FetchProfile(c.Request.Context(), token)
	if err != nil {
		responses.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	responses.OK(c, http.StatusOK, gin.H{"user": profile})
}

// GetProfile returns the bearer's profile with full upstream error
// mapping, unlike GetMe.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, "Access token not provided")
		return
	}

	profile, err := h.client.FetchProfile(c.Request.Context(), principal.AccessToken)
	if err != nil {
		responses.HandleError(c, err, "Failed to fetch profile")
		return
	}

	responses.OK(c, http.StatusOK, gin.H{"user": profile})
}

func (h *AuthHandler) refreshTokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Request.Cookie(responses.RefreshTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	var body authrequests.RefreshRequest
	if err := c.ShouldBindJSON(&body); err == nil && body.RefreshToken != "" {
		return body.RefreshToken
	}
	return ""
}
