package auth_test

import (
	"context"
	"dashboard/src/api/auth"
	"dashboard/src/config"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type secretsFunc func(ctx context.Context, id string) (string, error)

func (f secretsFunc) GetSecretValue(ctx context.Context, id string) (string, error) {
	return f(ctx, id)
}

func TestResolveSecret(t *testing.T) {
	ctx := context.Background()
	source := secretsFunc(func(_ context.Context, id string) (string, error) {
		if id == "dash/jwt" {
			return "from-aws", nil
		}
		return "", errors.New("not found")
	})

	secret, err := auth.ResolveSecret(ctx, config.AuthConfig{JWTSecret: "inline", JWTSecretID: "dash/jwt"}, source)
	require.NoError(t, err)
	assert.Equal(t, "inline", secret)

	secret, err = auth.ResolveSecret(ctx, config.AuthConfig{JWTSecretID: "dash/jwt"}, source)
	require.NoError(t, err)
	assert.Equal(t, "from-aws", secret)

	_, err = auth.ResolveSecret(ctx, config.AuthConfig{}, source)
	assert.ErrorIs(t, err, auth.ErrMissingSecret)
}

func newRouter(issuer *auth.TokenIssuer) *chi.Mux {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(issuer.Verifier())
		r.Use(auth.Authenticator)
		r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
			claims, _ := auth.ClaimsFromContext(r.Context())
			_, _ = w.Write([]byte(claims.Username))
		})
		r.With(auth.RequireStaff).Get("/admin", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})
	return r
}

func request(t *testing.T, router http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	router := newRouter(issuer)

	userToken, err := issuer.Issue(auth.Claims{UserID: 7, Username: "ann"})
	require.NoError(t, err)
	staffToken, err := issuer.Issue(auth.Claims{UserID: 8, Username: "boss", IsStaff: true})
	require.NoError(t, err)

	rec := request(t, router, "/me", userToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ann", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, request(t, router, "/me", "").Code)
	assert.Equal(t, http.StatusForbidden, request(t, router, "/admin", userToken).Code)
	assert.Equal(t, http.StatusNoContent, request(t, router, "/admin", staffToken).Code)

	other := auth.NewTokenIssuer("other-secret", time.Hour)
	forged, err := other.Issue(auth.Claims{UserID: 8, IsStaff: true})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, request(t, router, "/admin", forged).Code)
}

func TestExpiredToken(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", -time.Minute)
	token, err := issuer.Issue(auth.Claims{UserID: 7, Username: "ann"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, request(t, newRouter(issuer), "/me", token).Code)
}
