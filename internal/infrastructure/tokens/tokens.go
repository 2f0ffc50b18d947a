// Package tokens decodes access tokens issued by the authorization
// service. Tokens are decoded without signature verification: the service
// never mints tokens itself and treats the upstream profile endpoint as
// the authority on identity, so a forged token only grants access to the
// forger's own upstream 401.
package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zelican/chat-api/internal/utils/platformerrors"
)

// Claims is the subset of token claims this service reads.
type Claims struct {
	UserID    string
	Email     string
	TenantID  string
	ExpiresAt time.Time
}

// Decode extracts claims from a token without verifying its signature.
// A malformed token or one missing the user_id claim is an error.
func Decode(token string) (*Claims, error) {
	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mapClaims); err != nil {
		return nil, platformerrors.NewError(nil, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUnauthorized, "malformed access token", err, "")
	}

	userID, _ := mapClaims["user_id"].(string)
	if userID == "" {
		return nil, platformerrors.NewError(nil, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUnauthorized, "access token missing user_id claim", nil, "")
	}

	claims := &Claims{UserID: userID}
	claims.Email, _ = mapClaims["email"].(string)
	claims.TenantID, _ = mapClaims["tenant_id"].(string)
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}

// Expiration returns the token's expiry time. The second result is false
// when the token is malformed or carries no expiry.
func Expiration(token string) (time.Time, bool) {
	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mapClaims); err != nil {
		return time.Time{}, false
	}
	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// IsExpired reports whether the token has expired. Tokens without a
// readable expiry count as expired.
func IsExpired(token string) bool {
	exp, ok := Expiration(token)
	if !ok {
		return true
	}
	return time.Now().After(exp)
}
