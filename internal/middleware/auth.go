package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "promo-api/pkg/errors"
	"promo-api/pkg/logger"
)

// AdminAuth guards the operator endpoints with an HS256 bearer token. Tokens
// are minted out of band and must carry the "admin" role claim.
func AdminAuth(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				writeErrorResponse(w, apperrors.NewAuthorizationError("admin endpoints are disabled"), log)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeErrorResponse(w, apperrors.NewAuthenticationError("Authorization header is required"), log)
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeErrorResponse(w, apperrors.NewAuthenticationError("Invalid authorization header format"), log)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == "" {
				writeErrorResponse(w, apperrors.NewAuthenticationError("Token is required"), log)
				return
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				log.WithError(err).Info("Admin token rejected")
				writeErrorResponse(w, apperrors.NewAuthenticationError("Invalid or expired token"), log)
				return
			}

			if role, _ := claims["role"].(string); role != "admin" {
				writeErrorResponse(w, apperrors.NewAuthorizationError("admin role required"), log)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeErrorResponse writes the structured error envelope from middleware
func writeErrorResponse(w http.ResponseWriter, appErr *apperrors.AppError, log *logger.Logger) {
	log.WithError(appErr).Info("Request blocked")

	response := &apperrors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.WithError(err).Error("Failed to encode error response")
	}
}
