package identity

// UserProfile is the projection of the authorization service's user record
// that this service exposes to clients.
type UserProfile struct {
	UserUUID         string `json:"userUuid"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	PhoneNumber      string `json:"phoneNumber"`
	OrganizationUUID string `json:"organizationUuid"`
	OrganizationName string `json:"organizationName"`
}

// Principal is the authenticated caller attached to a request. Profile
// is nil until the identity has been resolved against the authorization
// service.
type Principal struct {
	UserID      string
	Email       string
	AccessToken string
	Profile     *UserProfile
}

// TokenPair holds the access and refresh tokens issued by the
// authorization service. Both are opaque to this service apart from the
// claims needed for identity extraction.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
