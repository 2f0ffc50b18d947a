package authrequests

// LoginRequest carries credentials forwarded to the authorization service.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=1"`
}

// RefreshRequest is the body fallback for the token refresh endpoint.
// The refresh token is normally read from the cookie or the bearer
// header.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
