package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/zelican/chat-api/internal/domain/identity"
	"github.com/zelican/chat-api/internal/infrastructure/authclient"
	"github.com/zelican/chat-api/internal/infrastructure/tokens"
	"github.com/zelican/chat-api/internal/interfaces/httpserver/responses"
)

const principalContextKey = "principal"

// AccessTokenFromRequest extracts the access token from the auth cookie,
// falling back to the Authorization bearer header.
func AccessTokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Request.Cookie(responses.AccessTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// Authenticate gates a route on a decodable access token. The token is
// decoded without signature verification; requests that need a verified
// identity go through ResolveIdentity as well, which defers to the
// authorization service.
func Authenticate(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := AccessTokenFromRequest(c)
		if token == "" {
			responses.Fail(c, http.StatusUnauthorized, "Access token not provided")
			return
		}

		claims, err := tokens.Decode(token)
		if err != nil {
			logger.Warn().Err(err).Str("path", c.FullPath()).Msg("access token rejected")
			responses.Fail(c, http.StatusUnauthorized, "Invalid access token")
			return
		}

		SetPrincipal(c, identity.Principal{
			UserID:      claims.UserID,
			Email:       claims.Email,
			AccessToken: token,
		})
		c.Next()
	}
}

// ResolveIdentity resolves the token bearer against the authorization
// service's user directory and attaches the profile to the principal.
// Runs after Authenticate.
func ResolveIdentity(client *authclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			responses.Fail(c, http.StatusUnauthorized, "Access token not provided")
			return
		}

		profile, err := client.FetchProfile(c.Request.Context(), principal.AccessToken)
		if err != nil {
			responses.HandleError(c, err, "Failed to resolve user identity")
			return
		}

		principal.UserID = profile.UserUUID
		principal.Profile = profile
		SetPrincipal(c, principal)
		c.Next()
	}
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(c *gin.Context) (identity.Principal, bool) {
	val, ok := c.Get(principalContextKey)
	if !ok {
		return identity.Principal{}, false
	}
	principal, ok := val.(identity.Principal)
	return principal, ok
}

// SetPrincipal attaches the principal to the request.
func SetPrincipal(c *gin.Context, principal identity.Principal) {
	c.Set(principalContextKey, principal)
	c.Set("user_id", principal.UserID)
}
