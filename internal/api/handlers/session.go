package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/file-finder/backend/internal/auth"
)

type SessionHandler struct {
	jwt        *auth.JWTService
	secretHash string
}

func NewSessionHandler(jwt *auth.JWTService, secretHash string) *SessionHandler {
	return &SessionHandler{jwt: jwt, secretHash: secretHash}
}

type sessionRequest struct {
	Secret string `json:"secret"`
	Client string `json:"client"`
}

type sessionResponse struct {
	Token        string    `json:"token"`
	ExpiresAt    time.Time `json:"expires_at"`
	AuthRequired bool      `json:"auth_required"`
}

// Create exchanges the launch secret for a bridge session token. Without a
// configured secret hash any caller gets a token.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if h.secretHash != "" && !auth.CheckPassword(req.Secret, h.secretHash) {
		jsonError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	client := req.Client
	if client == "" {
		client = "webview"
	}
	token, expiresAt, err := h.jwt.GenerateToken(client)
	if err != nil {
		jsonError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, sessionResponse{
		Token:        token,
		ExpiresAt:    expiresAt,
		AuthRequired: h.secretHash != "",
	}, http.StatusOK)
}
