// Package authclient wraps the remote authorization service. The service
// owns credentials, token issuance, and the user directory; this client
// only proxies and maps failures onto the local error taxonomy.
package authclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"github.com/zelican/chat-api/internal/domain/identity"
	"github.com/zelican/chat-api/internal/infrastructure/metrics"
	"github.com/zelican/chat-api/internal/utils/platformerrors"
)

// observeCall records one upstream call on the auth metrics. Used via
// defer with the method's named error result.
func observeCall(operation string, start time.Time, err *error) {
	status := "success"
	if *err != nil {
		status = "error"
	}
	metrics.RecordAuthCall(operation, status, time.Since(start).Seconds())
}

type Client struct {
	client        *resty.Client
	baseURL       string
	timeout       time.Duration
	logoutTimeout time.Duration
	log           zerolog.Logger
}

func New(client *resty.Client, baseURL string, timeout, logoutTimeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		client:        client,
		baseURL:       baseURL,
		timeout:       timeout,
		logoutTimeout: logoutTimeout,
		log:           log,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type userInfoResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Tenant    struct {
		ID         string `json:"id"`
		TenantName string `json:"tenant_name"`
	} `json:"tenant"`
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (_ *identity.TokenPair, err error) {
	defer observeCall("login", time.Now(), &err)
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body tokenResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(loginRequest{Email: email, Password: password}).
		SetResult(&body).
		Post(c.baseURL + "/authorization/login")
	if err != nil {
		return nil, c.transportError(ctx, err, "login")
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUnauthorized, "Invalid credentials", nil, "")
	}
	if resp.IsError() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUnauthorized,
			fmt.Sprintf("Login failed with status %d", resp.StatusCode()), nil, "")
	}
	if body.AccessToken == "" || body.RefreshToken == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, "login response missing tokens", nil, "")
	}
	return &identity.TokenPair{AccessToken: body.AccessToken, RefreshToken: body.RefreshToken}, nil
}

// FetchProfile resolves the token bearer's profile from the user directory.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (_ *identity.UserProfile, err error) {
	defer observeCall("fetch_profile", time.Now(), &err)
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body userInfoResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&body).
		Get(c.baseURL + "/users/info")
	if err != nil {
		return nil, c.transportError(ctx, err, "fetch profile")
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUnauthorized, "Invalid or expired token", nil, "")
	}
	if resp.IsError() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			statusToErrorType(resp.StatusCode()),
			fmt.Sprintf("Profile request failed with status %d", resp.StatusCode()), nil, "")
	}
	return &identity.UserProfile{
		UserUUID:         body.ID,
		FirstName:        body.FirstName,
		LastName:         body.LastName,
		Email:            body.Email,
		PhoneNumber:      body.Phone,
		OrganizationUUID: body.Tenant.ID,
		OrganizationName: body.Tenant.TenantName,
	}, nil
}

// Logout revokes the session upstream. Failures are logged and swallowed
// so a dead authorization service cannot block local logout.
func (c *Client) Logout(ctx context.Context, accessToken, refreshToken string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.logoutTimeout)
	defer cancel()

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetBody(refreshRequest{RefreshToken: refreshToken}).
		Post(c.baseURL + "/authorization/logout")
	if err != nil {
		metrics.RecordAuthCall("logout", "error", time.Since(start).Seconds())
		c.log.Warn().Err(err).Msg("remote logout failed")
		return
	}
	status := "success"
	if resp.IsError() {
		status = "error"
		c.log.Warn().Int("status", resp.StatusCode()).Msg("remote logout rejected")
	}
	metrics.RecordAuthCall("logout", status, time.Since(start).Seconds())
}

// Refresh exchanges a refresh token for a fresh token pair. A response
// missing either token is treated as a failure.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (_ *identity.TokenPair, err error) {
	defer observeCall("refresh", time.Now(), &err)
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body tokenResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(refreshRequest{RefreshToken: refreshToken}).
		SetResult(&body).
		Post(c.baseURL + "/authorization/token")
	if err != nil {
		return nil, c.transportError(ctx, err, "refresh token")
	}
	if resp.IsError() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUnauthorized,
			fmt.Sprintf("Token refresh failed with status %d", resp.StatusCode()), nil, "")
	}
	if body.AccessToken == "" || body.RefreshToken == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUnauthorized, "refresh response missing tokens", nil, "")
	}
	return &identity.TokenPair{AccessToken: body.AccessToken, RefreshToken: body.RefreshToken}, nil
}

func (c *Client) transportError(ctx context.Context, err error, op string) *platformerrors.PlatformError {
	if isTimeout(err) {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeTimeout,
			fmt.Sprintf("Authorization service timed out during %s", op), err, "")
	}
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
		platformerrors.ErrorTypeUnavailable,
		fmt.Sprintf("Authorization service unreachable during %s", op), err, "")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func statusToErrorType(status int) platformerrors.ErrorType {
	switch status {
	case http.StatusUnauthorized:
		return platformerrors.ErrorTypeUnauthorized
	case http.StatusForbidden:
		return platformerrors.ErrorTypeForbidden
	case http.StatusNotFound:
		return platformerrors.ErrorTypeNotFound
	case http.StatusRequestTimeout:
		return platformerrors.ErrorTypeTimeout
	case http.StatusServiceUnavailable:
		return platformerrors.ErrorTypeUnavailable
	default:
		return platformerrors.ErrorTypeExternal
	}
}
