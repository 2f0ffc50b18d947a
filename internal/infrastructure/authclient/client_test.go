package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/zelican/chat-api/internal/infrastructure/metrics"
	"github.com/zelican/chat-api/internal/utils/httpclients"
	"github.com/zelican/chat-api/internal/utils/platformerrors"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, handler http.Handler, timeout time.Duration) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := New(httpclients.NewClient("auth-test", timeout), server.URL, timeout, timeout, zerolog.Nop())
	return client, server
}

func TestLoginSuccess(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/authorization/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "a@b.test" || body["password"] != "pw" {
			t.Errorf("unexpected credentials %v", body)
		}
		writeJSON(w, map[string]string{
			"access_token":  "at",
			"refresh_token": "rt",
		})
	}), time.Second)

	pair, err := client.Login(context.Background(), "a@b.test", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.AccessToken != "at" || pair.RefreshToken != "rt" {
		t.Errorf("unexpected pair %+v", pair)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), time.Second)

	_, err := client.Login(context.Background(), "a@b.test", "wrong")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestLoginUpstreamFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}), time.Second)

	_, err := client.Login(context.Background(), "a@b.test", "pw")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED for non-2xx, got %v", err)
	}
}

func TestLoginMissingTokens(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"access_token": "at"})
	}), time.Second)

	_, err := client.Login(context.Background(), "a@b.test", "pw")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal) {
		t.Fatalf("expected EXTERNAL for partial token response, got %v", err)
	}
}

func TestLoginTimeout(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}), 50*time.Millisecond)

	_, err := client.Login(context.Background(), "a@b.test", "pw")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeTimeout) {
		t.Fatalf("expected TIMEOUT, got %v", err)
	}
}

func TestLoginUnreachable(t *testing.T) {
	client := New(httpclients.NewClient("auth-test", time.Second),
		"http://127.0.0.1:1", time.Second, time.Second, zerolog.Nop())

	_, err := client.Login(context.Background(), "a@b.test", "pw")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnavailable) {
		t.Fatalf("expected UNAVAILABLE, got %v", err)
	}
}

func TestFetchProfileMapsUserInfo(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/info" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			t.Errorf("missing bearer header, got %q", r.Header.Get("Authorization"))
		}
		writeJSON(w, map[string]any{
			"id":    "u-1",
			"fname": "Ada",
			"lname": "Lovelace",
			"email": "ada@b.test",
			"phone": "+100",
			"tenant": map[string]string{
				"id":          "org-1",
				"tenant_name": "Analytical",
			},
		})
	}), time.Second)

	profile, err := client.FetchProfile(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("fetch profile: %v", err)
	}
	if profile.UserUUID != "u-1" || profile.FirstName != "Ada" || profile.LastName != "Lovelace" {
		t.Errorf("unexpected profile %+v", profile)
	}
	if profile.OrganizationUUID != "org-1" || profile.OrganizationName != "Analytical" {
		t.Errorf("tenant not mapped: %+v", profile)
	}
}

func TestFetchProfileUnauthorized(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), time.Second)

	_, err := client.FetchProfile(context.Background(), "expired")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestRefreshMissingEitherTokenFails(t *testing.T) {
	responses := []map[string]string{
		{"access_token": "at"},
		{"refresh_token": "rt"},
		{},
	}
	for _, resp := range responses {
		resp := resp
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, resp)
		}), time.Second)

		if _, err := client.Refresh(context.Background(), "rt-old"); err == nil {
			t.Errorf("expected error for response %v", resp)
		}
	}
}

func TestRefreshSuccess(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/authorization/token" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["refresh_token"] != "rt-old" {
			t.Errorf("unexpected body %v", body)
		}
		writeJSON(w, map[string]string{
			"access_token":  "at-new",
			"refresh_token": "rt-new",
		})
	}), time.Second)

	pair, err := client.Refresh(context.Background(), "rt-old")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if pair.AccessToken != "at-new" || pair.RefreshToken != "rt-new" {
		t.Errorf("unexpected pair %+v", pair)
	}
}

func TestLogoutNeverFails(t *testing.T) {
	called := false
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusInternalServerError)
	}), time.Second)

	client.Logout(context.Background(), "at", "rt")
	if !called {
		t.Error("logout should still hit the upstream")
	}

	// Unreachable upstream must also be silent.
	dead := New(httpclients.NewClient("auth-test", 100*time.Millisecond),
		"http://127.0.0.1:1", time.Second, 100*time.Millisecond, zerolog.Nop())
	dead.Logout(context.Background(), "at", "rt")
}

func TestCallsAreCounted(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"access_token": "at", "refresh_token": "rt"})
	}), time.Second)

	success := metrics.AuthCallsTotal.WithLabelValues("login", "success")
	before := testutil.ToFloat64(success)
	if _, err := client.Login(context.Background(), "a@b.test", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if got := testutil.ToFloat64(success); got != before+1 {
		t.Errorf("login success count = %v, want %v", got, before+1)
	}

	failure := metrics.AuthCallsTotal.WithLabelValues("refresh", "error")
	before = testutil.ToFloat64(failure)
	rejecting, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), time.Second)
	if _, err := rejecting.Refresh(context.Background(), "rt-old"); err == nil {
		t.Fatal("expected refresh failure")
	}
	if got := testutil.ToFloat64(failure); got != before+1 {
		t.Errorf("refresh error count = %v, want %v", got, before+1)
	}
}
