package api

import (
	"net/http"

	"github.com/membership-service/internal/models"
)

// handleGetSession resolves and returns the caller's session. Anonymous
// callers get an uninitialized session snapshot.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		respondJSON(w, http.StatusOK, s.sessionService.Snapshot(""))
		return
	}

	session, err := s.sessionService.Resolve(r.Context(), userID, EmailFromContext(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// handleSignOut ends the caller's session.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Authentication required", nil)
		return
	}

	if err := s.sessionService.SignOut(r.Context(), userID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// handleConnectWallet records a wallet connection on the session.
func (s *Server) handleConnectWallet(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Authentication required", nil)
		return
	}

	var wallet models.Wallet
	if err := parseJSONBody(r, &wallet); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body: "+err.Error(), nil)
		return
	}

	connected, err := s.sessionService.ConnectWallet(r.Context(), userID, wallet)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, connected)
}

// handleDisconnectWallet clears the session wallet. The profile's linked
// address is untouched.
func (s *Server) handleDisconnectWallet(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Authentication required", nil)
		return
	}

	if err := s.sessionService.DisconnectWallet(r.Context(), userID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, s.sessionService.Snapshot(userID))
}
