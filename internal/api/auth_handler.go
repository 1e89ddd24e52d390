package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/recode/internal/api/shared"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/phrazzld/recode/internal/platform/logger"
	"github.com/phrazzld/recode/internal/service"
	"github.com/phrazzld/recode/internal/service/auth"
)

// AuthHandler handles registration, login and the authenticated user's
// own record.
type AuthHandler struct {
	users         service.UserService
	jwtService    auth.JWTService
	tokenLifetime time.Duration
	now           func() time.Time
	logger        *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	users service.UserService,
	jwtService auth.JWTService,
	tokenLifetime time.Duration,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:         users,
		jwtService:    jwtService,
		tokenLifetime: tokenLifetime,
		now:           time.Now,
		logger:        logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, user)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	h.respondWithToken(w, r, http.StatusOK, user)
}

// Me handles GET /api/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load user")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// UpdateMe handles PATCH /api/me. Only the name and email can be changed.
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req UpdateMeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.UpdateUserConfig(r.Context(), userID, domain.UserPatch{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user *domain.User) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	issuedAt := h.now()
	token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to generate token",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	resp := AuthResponse{UserID: user.ID, AccessToken: token}
	if h.tokenLifetime > 0 {
		resp.ExpiresAt = issuedAt.Add(h.tokenLifetime).UTC().Format(time.RFC3339)
	}
	shared.RespondWithJSON(w, r, status, resp)
}
