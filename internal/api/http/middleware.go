package http

import (
	"context"
	"net/http"
	"strings"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/security"
)

type contextKey string

const claimsKey contextKey = "claims"

// Authenticate validates the bearer token and stores the claims on the
// request context.
func Authenticate(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
				return
			}
			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respondError(w, err)
				return
			}
			if claims.Type != security.TokenTypeAccess {
				respondError(w, security.ErrWrongTokenType)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

// RequireStaff rejects requests whose token does not carry the staff role.
func RequireStaff(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r)
		if claims == nil || claims.Role != string(domain.CustomerRoleStaff) {
			respondJSON(w, http.StatusForbidden, errorResponse{Error: "staff access required"})
			return
		}
		next(w, r)
	}
}

func claimsFrom(r *http.Request) *security.UserClaims {
	claims, _ := r.Context().Value(claimsKey).(*security.UserClaims)
	return claims
}
