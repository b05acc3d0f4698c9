package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const ownerContextKey contextKey = "owner_email"

const emailClaim = "email"

var ErrNoOwnerInContext = errors.New("owner email not found in request context")

// Authenticator verifies the bearer token and stashes the owner email claim
// in the request context. Identity is established by the external
// registration service; this layer only trusts its signed tokens.
func Authenticator(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString := strings.TrimPrefix(header, "Bearer ")
			if header == "" || tokenString == header {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "invalid token claims", http.StatusUnauthorized)
				return
			}
			email, ok := claims[emailClaim].(string)
			if !ok || email == "" {
				http.Error(w, "token is missing the email claim", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ownerContextKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetOwnerEmailFromContext(ctx context.Context) (string, error) {
	email, ok := ctx.Value(ownerContextKey).(string)
	if !ok || email == "" {
		return "", ErrNoOwnerInContext
	}
	return email, nil
}
