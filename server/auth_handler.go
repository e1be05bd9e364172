package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/abimdanu/openmusic-api/apperr"
	"github.com/abimdanu/openmusic-api/core/auth"
	"github.com/abimdanu/openmusic-api/logger"
	"github.com/abimdanu/openmusic-api/model"

	"github.com/google/uuid"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	usernameKey contextKey = "username"
)

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterHandler handles user registration requests.
func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "invalid request body"})
		return
	}
	if req.Username == "" || req.Password == "" || req.Fullname == "" {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "username, password and fullname are required"})
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	user := &model.User{
		ID:           "user-" + uuid.NewString(),
		Username:     req.Username,
		Fullname:     req.Fullname,
		PasswordHash: hashedPassword,
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		if apperr.IsInvariant(err) {
			logger.Warn("[Register] username already taken", logger.String("username", req.Username))
		}
		writeError(w, err)
		return
	}

	logger.Info("[Register] user created", logger.String("userId", user.ID))
	writeData(w, http.StatusCreated, map[string]interface{}{"userId": user.ID})
}

// LoginHandler handles user login requests.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "invalid request body"})
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, failBody{Status: "fail", Message: "username and password are required"})
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		logger.Warn("[Login] invalid credentials", logger.String("username", req.Username))
		writeJSON(w, http.StatusUnauthorized, failBody{Status: "fail", Message: "invalid username or password"})
		return
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("[Login] login successful", logger.String("username", user.Username))
	writeData(w, http.StatusCreated, map[string]interface{}{"accessToken": token})
}

// AuthMiddleware checks for a valid JWT token and puts the caller's
// identity on the request context.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeJSON(w, http.StatusUnauthorized, failBody{Status: "fail", Message: "authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeJSON(w, http.StatusUnauthorized, failBody{Status: "fail", Message: "invalid authorization header format"})
			return
		}

		claims, err := h.tokens.ParseToken(parts[1])
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, failBody{Status: "fail", Message: "invalid token"})
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, usernameKey, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// userIDFromContext extracts the authenticated user id from the request
// context. The auth middleware guarantees it is present on protected
// routes.
func userIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}
