package http

import (
	"encoding/json"
	"net/http"

	"github.com/Courage4/market-trader-platform-sub001/internal/rbac"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type LoginRequestDTO struct {
	Email string `json:"email"`
}

type LoginResponseDTO struct {
	User        rbac.Identity `json:"user"`
	LandingPath string        `json:"landing_path"`
}

// Login derives the identity from the submitted email and answers with the
// role's post-login redirect. Role derivation is total, so any email
// logs in as something; buyer is the fallback.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	ident := identityFromEmail(req.Email)
	respondJSON(w, http.StatusOK, LoginResponseDTO{
		User:        ident,
		LandingPath: rbac.LandingPath(ident.Role),
	})
}

// Navigation returns the caller's menu in rendering order.
func (h *AuthHandler) Navigation(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"role":  ident.Role,
		"items": rbac.NavigationFor(ident.Role),
	})
}
