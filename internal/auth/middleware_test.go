package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/shared"
)

func newTestMiddleware(t *testing.T, repo Repository) (Middleware, *TokenCodec) {
	t.Helper()
	codec := NewTokenCodec([]byte("middleware-test-secret"), time.Hour)
	return Middleware{Codec: codec, Users: repo}, codec
}

func echoPrincipal() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := shared.PrincipalFromContext(r.Context())
		if !ok {
			http.Error(w, "principal missing", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(principal)
	})
}

func TestRequireUserResolvesIdentity(t *testing.T) {
	repo := newMockRepository()
	user, err := repo.Create(context.Background(), "u1@example.com", "irrelevant-hash")
	require.NoError(t, err)

	mw, codec := newTestMiddleware(t, repo)
	token, err := codec.Encode(user.Email, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()

	mw.RequireUser(echoPrincipal()).ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	var principal shared.Principal
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &principal))
	assert.Equal(t, user.ID, principal.UserID)
	assert.Equal(t, "u1@example.com", principal.Email)
}

func TestRequireUserRejections(t *testing.T) {
	repo := newMockRepository()
	_, err := repo.Create(context.Background(), "u1@example.com", "irrelevant-hash")
	require.NoError(t, err)

	mw, codec := newTestMiddleware(t, repo)

	valid, err := codec.Encode("u1@example.com", time.Hour)
	require.NoError(t, err)
	unknownSubject, err := codec.Encode("ghost@example.com", time.Hour)
	require.NoError(t, err)

	foreign := NewTokenCodec([]byte("some-other-secret"), time.Hour)
	forged, err := foreign.Encode("u1@example.com", time.Hour)
	require.NoError(t, err)

	expiredCodec := NewTokenCodec([]byte("middleware-test-secret"), time.Hour)
	expiredCodec.clock = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredCodec.Encode("u1@example.com", time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "not bearer", header: "Basic dXNlcjpwYXNz"},
		{name: "malformed token", header: "Bearer not-a-token"},
		{name: "forged token", header: "Bearer " + forged},
		{name: "expired token", header: "Bearer " + expired},
		{name: "unknown subject", header: "Bearer " + unknownSubject},
	}

	var bodies []string
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			res := httptest.NewRecorder()

			mw.RequireUser(echoPrincipal()).ServeHTTP(res, req)

			require.Equal(t, http.StatusUnauthorized, res.Code)
			bodies = append(bodies, res.Body.String())
		})
	}

	// Every rejection must be externally indistinguishable.
	for i := 1; i < len(bodies); i++ {
		assert.Equal(t, bodies[0], bodies[i])
	}

	// Sanity check: the valid token does pass.
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+valid)
	res := httptest.NewRecorder()
	mw.RequireUser(echoPrincipal()).ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)
}
