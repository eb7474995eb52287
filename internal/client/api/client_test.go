package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rootpulse/pulse-cli/internal/client/models"
	"github.com/rootpulse/pulse-cli/internal/common"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestClient_Login_ParsesCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"), "login must not require a credential")
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user@x.com", body["identifier"])
		assert.Equal(t, "pw123456", body["password"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "tok1",
			"refresh_token": "ref1",
			"user": map[string]any{
				"id":             "1",
				"email":          "user@x.com",
				"username":       "user",
				"membershipTier": "gold",
				"isActive":       true,
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	creds, err := c.Login(context.Background(), "user@x.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, "tok1", creds.AccessToken)
	assert.Equal(t, "ref1", creds.RefreshToken)
	assert.Equal(t, models.TierGold, creds.User.MembershipTier)
}

func TestClient_BearerAttachedOnlyWhenSet(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(models.User{ID: "1"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)

	_, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)

	c.SetCredentials("tok1", "")
	_, err = c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok1", gotAuth)

	c.ClearCredentials()
	_, err = c.Profile(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_QueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services", r.URL.Path)
		assert.Equal(t, "travel", r.URL.Query().Get("category"))
		json.NewEncoder(w).Encode([]models.Service{{ID: "svc-1", Category: models.CategoryTravel}})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	svcs, err := c.Services(context.Background(), models.CategoryTravel)
	require.NoError(t, err)
	require.Len(t, svcs, 1)
	assert.Equal(t, "svc-1", svcs[0].ID)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"server message", 422, `{"message":"phone already registered"}`, "phone already registered"},
		{"invalid json body", 500, `<html>oops</html>`, fallbackMessage},
		{"json without message", 400, `{"detail":"nope"}`, fallbackMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL, time.Second)
			_, err := c.Login(context.Background(), "a", "b")
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}

func TestClient_UnauthorizedMatchesSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.Profile(context.Background())
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL, time.Second)
	_, err := c.Profile(context.Background())
	assert.ErrorIs(t, err, common.ErrUnavailable)
}

func TestClient_RefreshOnceOn401(t *testing.T) {
	var refreshCalls, profileCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			refreshCalls++
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ref1", body["refresh_token"])
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok2"})
		case "/users/me":
			profileCalls++
			if r.Header.Get("Authorization") != "Bearer tok2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(models.User{ID: "1"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	c.SetCredentials("stale", "ref1")

	u, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)
	assert.Equal(t, 1, refreshCalls)
	assert.Equal(t, 2, profileCalls, "exactly one retry")

	access, _, _ := c.credentials()
	assert.Equal(t, "tok2", access)
}

func TestClient_RefreshFailurePropagatesOriginalError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "refresh token expired"})
		case "/users/me":
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "token expired"})
		}
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	c.SetCredentials("stale", "ref1")

	_, err := c.Profile(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "token expired", apiErr.Message, "the original failure surfaces, not the refresh one")
}

func TestClient_ProactiveRefreshOfExpiredToken(t *testing.T) {
	var sawStale bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok2"})
		case "/users/me":
			if r.Header.Get("Authorization") != "Bearer tok2" {
				sawStale = true
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(models.User{ID: "1"})
		}
	}))
	defer srv.Close()

	expired := signedToken(t, time.Now().Add(-time.Hour))

	c := New(srv.URL, time.Second)
	c.SetCredentials(expired, "ref1")

	_, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.False(t, sawStale, "expired token must be swapped before the request")
}

func TestClient_IdempotencyKeyOnServiceRequest(t *testing.T) {
	keys := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/svc-1/request", r.URL.Path)
		key := r.Header.Get("Idempotency-Key")
		assert.NotEmpty(t, key)
		keys[key] = true
		json.NewEncoder(w).Encode(models.ServiceRequest{ID: "req-1", ServiceID: "svc-1"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.RequestService(context.Background(), "svc-1", "asap")
	require.NoError(t, err)
	_, err = c.RequestService(context.Background(), "svc-1", "asap")
	require.NoError(t, err)

	assert.Len(t, keys, 2, "each submission carries a fresh key")
}

func TestTokenExpiry_OpaqueToken(t *testing.T) {
	assert.True(t, tokenExpiry("not-a-jwt").IsZero())
	assert.True(t, tokenExpiry("").IsZero())
}
