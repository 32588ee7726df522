package handler

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/service-market/internal/domain"
	"github.com/msomdec/service-market/internal/service"
)

// AuthHandler handles user account HTTP requests.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Name     string    `json:"name" validate:"required"`
	Contact  string    `json:"contact" validate:"required"`
	Password string    `json:"password" validate:"required,min=8"`
	Role     string    `json:"role" validate:"required,oneof=provider getter"`
	Photo    *PhotoDTO `json:"photo,omitempty"`
}

// HandleRegister creates a new user account and issues a token.
// POST /api/users/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readValidJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var photoData []byte
	var photoContentType string
	if req.Photo != nil && req.Photo.Data != "" {
		data, err := base64.StdEncoding.DecodeString(req.Photo.Data)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Photo is not valid base64.")
			return
		}
		photoData = data
		photoContentType = req.Photo.ContentType
	}

	user, err := h.auth.Register(r.Context(), req.Name, req.Contact, req.Password,
		domain.Role(req.Role), photoData, photoContentType)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateContact) {
			writeError(w, http.StatusBadRequest, "User already exists.")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("register user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		slog.Error("issue token after register", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user":  toUserDTO(user, false),
		"token": token,
	})
}

type loginRequest struct {
	Contact  string `json:"contact" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin verifies credentials and issues a token.
// POST /api/users/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readValidJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Contact, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid contact or password.")
			return
		}
		slog.Error("login user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":  toUserDTO(user, false),
		"token": token,
	})
}

// HandleLogout acknowledges a logout. Tokens are stateless with no
// server-side revocation; the client discards its copy.
// POST /api/users/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out."})
}

// HandleProfile returns the authenticated user, including the profile
// photo as base64 when one is stored.
// GET /api/users/profile
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(user, true),
	})
}

// HandleProfilePhoto serves the stored photo bytes with their original
// content type.
// GET /api/users/profile/photo
func (h *AuthHandler) HandleProfilePhoto(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	if len(user.PhotoData) == 0 {
		writeError(w, http.StatusNotFound, "No photo found for this user.")
		return
	}

	w.Header().Set("Content-Type", user.PhotoContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(user.PhotoData)
}
