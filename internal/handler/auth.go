package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tablekeep/pos-api/internal/auth"
	"github.com/tablekeep/pos-api/internal/database"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthStore reads staff accounts. *database.Queries satisfies it.
type AuthStore interface {
	GetUserByEmail(ctx context.Context, email string) (database.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (database.User, error)
}

// AuthHandler issues access and refresh tokens to staff.
type AuthHandler struct {
	store     AuthStore
	jwtSecret string
	log       *zap.Logger
}

func NewAuthHandler(store AuthStore, jwtSecret string, log *zap.Logger) *AuthHandler {
	return &AuthHandler{store: store, jwtSecret: jwtSecret, log: log}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         userResponse `json:"user"`
}

type userResponse struct {
	ID         uuid.UUID `json:"id"`
	LocationID uuid.UUID `json:"location_id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
}

// Login checks an email and password. Unknown, inactive and wrong-password
// accounts all get the same 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		badRequest(w, "email and password are required")
		return
	}

	user, ok := h.activeUser(w, r, "login", "invalid credentials", func(ctx context.Context) (database.User, error) {
		return h.store.GetUserByEmail(ctx, req.Email)
	})
	if !ok {
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)) != nil {
		unauthorized(w, "invalid credentials")
		return
	}
	h.issueTokens(w, user)
}

// Refresh trades a refresh token for a new pair. The user is reloaded so a
// deactivated account cannot keep refreshing.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.RefreshToken == "" {
		badRequest(w, "refresh_token is required")
		return
	}

	userID, err := auth.ValidateRefreshToken(h.jwtSecret, req.RefreshToken)
	if err != nil {
		unauthorized(w, "invalid refresh token")
		return
	}
	user, ok := h.activeUser(w, r, "refresh token", "user not found", func(ctx context.Context) (database.User, error) {
		return h.store.GetUserByID(ctx, userID)
	})
	if !ok {
		return
	}
	h.issueTokens(w, user)
}

// activeUser runs lookup and writes the response itself when it yields no
// active user.
func (h *AuthHandler) activeUser(w http.ResponseWriter, r *http.Request, op, missing string, lookup func(context.Context) (database.User, error)) (database.User, bool) {
	user, err := lookup(r.Context())
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		unauthorized(w, missing)
		return user, false
	case err != nil:
		h.log.Error(op, zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return user, false
	case !user.IsActive:
		unauthorized(w, missing)
		return user, false
	}
	return user, true
}

func (h *AuthHandler) issueTokens(w http.ResponseWriter, user database.User) {
	access, err := auth.GenerateToken(h.jwtSecret, user.ID, user.LocationID, user.Role)
	if err == nil {
		var refresh string
		if refresh, err = auth.GenerateRefreshToken(h.jwtSecret, user.ID); err == nil {
			writeJSON(w, http.StatusOK, tokenResponse{
				AccessToken:  access,
				RefreshToken: refresh,
				User: userResponse{
					ID:         user.ID,
					LocationID: user.LocationID,
					FullName:   user.FullName,
					Email:      user.Email,
					Role:       user.Role,
				},
			})
			return
		}
	}
	h.log.Error("sign tokens", zap.String("user_id", user.ID.String()), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func unauthorized(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": msg})
}
