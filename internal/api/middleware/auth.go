package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/api/shared"
	"github.com/phrazzld/recode/internal/platform/logger"
	"github.com/phrazzld/recode/internal/redact"
	"github.com/phrazzld/recode/internal/service/auth"
)

// AuthMiddleware rejects requests without a valid bearer token and scopes the
// rest of the chain to the token's user.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Authenticate stores the authenticated user id in the request context and
// tags the request logger with it.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, msg := bearerToken(r.Header.Get("Authorization"))
		if msg != "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, msg)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			status, msg := tokenFailure(err)
			if status == http.StatusInternalServerError {
				logger.FromContextOrDefault(r.Context(), slog.Default()).
					Error("failed to validate token", slog.String("error", redact.Error(err)))
			}
			shared.RespondWithError(w, r, status, msg)
			return
		}

		ctx := shared.WithUserID(r.Context(), claims.UserID)
		log := logger.FromContextOrDefault(ctx, slog.Default()).
			With(slog.String("user_id", claims.UserID.String()))
		next.ServeHTTP(w, r.WithContext(logger.WithLogger(ctx, log)))
	})
}

// bearerToken returns the token from an Authorization header value, or the
// client-facing reason it cannot be used.
func bearerToken(header string) (token, problem string) {
	if header == "" {
		return "", "Authorization header required"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.Contains(token, " ") {
		return "", "Invalid authorization format"
	}
	return token, ""
}

func tokenFailure(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized, "Token expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid):
		return http.StatusUnauthorized, "Invalid token"
	default:
		return http.StatusInternalServerError, "Authentication error"
	}
}

// GetUserID returns the authenticated user id, if any.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}
