package api

import (
	"net/http"

	"github.com/membership-service/internal/service"
)

// NonceResponse carries a signing challenge for a wallet address.
type NonceResponse struct {
	Nonce   string `json:"nonce"`
	Message string `json:"message"`
}

// handleWalletNonce issues a single-use signing nonce for an address.
func (s *Server) handleWalletNonce(w http.ResponseWriter, r *http.Request) {
	if UserIDFromContext(r.Context()) == "" {
		respondError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Authentication required", nil)
		return
	}

	address := r.URL.Query().Get("address")
	if address == "" {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "address query parameter is required", nil)
		return
	}

	nonce, message, err := s.walletService.Challenge(r.Context(), address)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, NonceResponse{Nonce: nonce, Message: message})
}

// handleLinkWallet verifies the signed challenge and links the wallet to
// the caller's profile.
func (s *Server) handleLinkWallet(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Authentication required", nil)
		return
	}

	var input service.LinkInput
	if err := parseJSONBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body: "+err.Error(), nil)
		return
	}

	profile, err := s.walletService.Link(r.Context(), userID, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// handleUnlinkWallet removes the wallet link from the caller's profile.
func (s *Server) handleUnlinkWallet(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Authentication required", nil)
		return
	}

	profile, err := s.walletService.Unlink(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if err := s.sessionService.DisconnectWallet(r.Context(), userID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}
