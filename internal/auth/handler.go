// Package auth issues the admin session token the rest of the API is
// gated on. The clinic runs single-operator: one configured admin
// credential, HMAC-signed JWTs.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/elmarkeb/clinicdesk/pkg/logging"
)

// SignInRequest is the request body for POST /auth/signin.
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignInResponse carries the issued bearer token.
type SignInResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// Handler authenticates the configured admin user.
type Handler struct {
	secret   string
	user     string
	password string
	tokenTTL time.Duration
	now      func() time.Time
	logger   *logging.Logger
}

func NewHandler(secret, user, password string, tokenTTL time.Duration, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &Handler{
		secret:   secret,
		user:     user,
		password: password,
		tokenTTL: tokenTTL,
		now:      time.Now,
		logger:   logger,
	}
}

// SignIn handles POST /auth/signin.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	if h.secret == "" || h.user == "" || h.password == "" {
		http.Error(w, "sign-in disabled", http.StatusUnauthorized)
		return
	}

	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(req.Username)), []byte(h.user)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) == 1
	if !userOK || !passOK {
		h.logger.Warn("failed sign-in attempt", "username", req.Username, "remote_ip", r.RemoteAddr)
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	now := h.now()
	expires := now.Add(h.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   h.user,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.secret))
	if err != nil {
		h.logger.Error("failed to sign token", "error", err)
		http.Error(w, "failed to sign in", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SignInResponse{
		Token:     token,
		ExpiresAt: expires.UTC().Format(time.RFC3339),
	})
}
