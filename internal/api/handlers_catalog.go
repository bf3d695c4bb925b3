package api

import "net/http"

// handleListMerch returns in-stock merchandise priced for the caller.
// Anonymous callers see undiscounted prices.
func (s *Server) handleListMerch(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalogService.ListMerch(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// handleListChallenges returns the active community challenges.
func (s *Server) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := s.catalogService.ListChallenges(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"challenges": challenges})
}
