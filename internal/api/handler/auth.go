package handler

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stratuslabs/stratus/internal/api/response"
	"github.com/stratuslabs/stratus/internal/store"
	"github.com/stratuslabs/stratus/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

const sessionTokenBytes = 32

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

// NewRegisterHandler returns an http.HandlerFunc for POST /api/v1/auth/register.
func NewRegisterHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"Request body must be valid JSON", nil)
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Email == "" || !strings.Contains(req.Email, "@") {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"A valid email is required", nil)
			return
		}
		if len(req.Password) < 8 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"Password must be at least 8 characters", nil)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to create account", nil)
			return
		}

		now := time.Now().UTC()
		user := &models.User{
			ID:           uuid.New(),
			Email:        req.Email,
			PasswordHash: string(hash),
			DisplayName:  req.DisplayName,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := st.CreateUser(r.Context(), user); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				response.Error(w, http.StatusConflict, "EMAIL_TAKEN",
					"An account with this email already exists", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to create account", nil)
			return
		}
		response.Created(w, user)
	}
}

// NewLoginHandler returns an http.HandlerFunc for POST /api/v1/auth/login.
// A successful login mints a new session token; the raw token is only ever
// returned here.
func NewLoginHandler(st store.Store, sessionTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"Request body must be valid JSON", nil)
			return
		}

		user, err := st.GetUserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS",
					"Email or password is incorrect", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to log in", nil)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS",
				"Email or password is incorrect", nil)
			return
		}

		token, err := newSessionToken()
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to log in", nil)
			return
		}
		now := time.Now().UTC()
		session := &models.Session{
			Token:     token,
			UserID:    user.ID,
			ExpiresAt: now.Add(sessionTTL),
			CreatedAt: now,
		}
		if err := st.CreateSession(r.Context(), session); err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to log in", nil)
			return
		}

		response.JSON(w, loginResponse{
			Token:     token,
			ExpiresAt: session.ExpiresAt,
			User:      *user,
		})
	}
}

// NewLogoutHandler returns an http.HandlerFunc for POST /api/v1/auth/logout.
// It revokes the session presented in the Authorization header.
func NewLogoutHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN",
				"Missing or malformed Authorization header", nil)
			return
		}
		if err := st.DeleteSession(r.Context(), token); err != nil && !errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to log out", nil)
			return
		}
		response.NoContent(w)
	}
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
