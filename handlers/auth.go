package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fernheilpraxis/clinic-api/session"
)

type loginRequest struct {
	Passcode string `json:"passcode"`
}

// Login checks the passcode and returns a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondDomainError(w, err)
		return
	}

	token, err := h.session.Login(r.Context(), req.Passcode)
	if err != nil {
		if errors.Is(err, session.ErrWrongPasscode) {
			RespondWithError(w, http.StatusUnauthorized, "wrong passcode")
			return
		}
		respondDomainError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Logout invalidates the caller's session token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := BearerToken(r); token != "" {
		h.session.Logout(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

type changePasscodeRequest struct {
	Current string `json:"current"`
	New     string `json:"new"`
	Confirm string `json:"confirm"`
}

// ChangePasscode rotates the practice passcode.
func (h *Handler) ChangePasscode(w http.ResponseWriter, r *http.Request) {
	var req changePasscodeRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondDomainError(w, err)
		return
	}

	if err := h.session.ChangePasscode(r.Context(), req.Current, req.New, req.Confirm); err != nil {
		if errors.Is(err, session.ErrWrongPasscode) {
			RespondWithError(w, http.StatusUnauthorized, "wrong passcode")
			return
		}
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// RequireSession is the auth middleware: every request behind it must carry
// a valid session token.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.session.Authenticate(BearerToken(r)); err != nil {
			RespondWithError(w, http.StatusUnauthorized, "login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
