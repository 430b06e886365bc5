package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/storefront-listings/utils"
)

type contextKey string

const adminSubjectKey contextKey = "admin_subject"

// AuthMiddleware only lets requests with a valid admin Bearer token through
func (a *ListingsAPI) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			utils.RespondError(w, nil, "Missing bearer token", http.StatusUnauthorized)
			return
		}

		subject, err := utils.ValidateToken(a.JWTSecret, strings.TrimSpace(tokenString))
		if err != nil {
			utils.RespondError(w, nil, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), adminSubjectKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAdminFromContext returns the token subject stored by AuthMiddleware
func GetAdminFromContext(ctx context.Context) (string, error) {
	subject, ok := ctx.Value(adminSubjectKey).(string)
	if !ok || subject == "" {
		return "", fmt.Errorf("admin subject not found in context")
	}
	return subject, nil
}
