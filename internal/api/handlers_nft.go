package api

import "net/http"

// handleListNFTs returns the caller's NFT records, newest first.
func (s *Server) handleListNFTs(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Authentication required", nil)
		return
	}

	nfts, err := s.nftService.List(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"nfts": nfts})
}

// handleMintNFT mints a membership NFT for the caller's linked wallet.
func (s *Server) handleMintNFT(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Authentication required", nil)
		return
	}

	nft, err := s.nftService.Mint(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, nft)
}
