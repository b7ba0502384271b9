package auth

import (
	"context"
	"dashboard/src/config"
	"dashboard/src/utils"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth"
)

var ErrMissingSecret = errors.New("no JWT signing secret configured")

// Claims identifies the caller of an authenticated request.
type Claims struct {
	UserID   uint
	Username string
	IsStaff  bool
}

type contextKey string

const claimsKey = contextKey("claims")

func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}

// SecretSource looks up a secret by id, e.g. AWS Secrets Manager.
type SecretSource interface {
	GetSecretValue(ctx context.Context, secretId string) (string, error)
}

// ResolveSecret returns the inline JWT secret, or reads it from source when
// only a secret id is configured.
func ResolveSecret(ctx context.Context, cfg config.AuthConfig, source SecretSource) (string, error) {
	if cfg.JWTSecret != "" {
		return cfg.JWTSecret, nil
	}
	if cfg.JWTSecretID == "" || source == nil {
		return "", ErrMissingSecret
	}
	return source.GetSecretValue(ctx, cfg.JWTSecretID)
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	JWTAuth *jwtauth.JWTAuth
	ttl     time.Duration
	now     func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		JWTAuth: jwtauth.New("HS256", []byte(secret), nil),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

func (t *TokenIssuer) Issue(claims Claims) (string, error) {
	now := t.now()
	payload := map[string]interface{}{
		"sub":      fmt.Sprint(claims.UserID),
		"user_id":  claims.UserID,
		"username": claims.Username,
		"is_staff": claims.IsStaff,
	}
	jwtauth.SetIssuedAt(payload, now)
	jwtauth.SetExpiry(payload, now.Add(t.ttl))

	_, tokenString, err := t.JWTAuth.Encode(payload)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verifier reads the bearer token or jwt cookie of each request.
func (t *TokenIssuer) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verifier(t.JWTAuth)
}

// Authenticator rejects requests without a valid token and stores the
// caller's Claims in the request context. It must run after Verifier.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, payload, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			utils.WriteError(w, utils.Unauthorized("auth token not detected or invalid"))
			return
		}

		claims, err := claimsFromPayload(payload)
		if err != nil {
			utils.WriteError(w, utils.Unauthorized(err.Error()))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequireStaff lets only staff users through. It must run after
// Authenticator.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			utils.WriteError(w, utils.Unauthorized("auth token not detected or invalid"))
			return
		}
		if !claims.IsStaff {
			utils.WriteError(w, utils.Forbidden("staff access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func claimsFromPayload(payload map[string]interface{}) (Claims, error) {
	var claims Claims

	switch id := payload["user_id"].(type) {
	case float64:
		claims.UserID = uint(id)
	case int64:
		claims.UserID = uint(id)
	default:
		return claims, errors.New("token has no user_id claim")
	}
	if claims.UserID == 0 {
		return claims, errors.New("token has no user_id claim")
	}

	claims.Username, _ = payload["username"].(string)
	claims.IsStaff, _ = payload["is_staff"].(bool)
	return claims, nil
}
