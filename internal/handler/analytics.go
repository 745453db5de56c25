package handler

import "net/http"

// GetAnalytics handles GET /trips/{tripID}/analytics.
// Accepts the same ?start=, ?end= and ?participant_id= filters as ListEvents.
func (s *Server) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripID")
	if err != nil {
		invalidParam(w, err)
		return
	}
	f, err := eventFilter(r)
	if err != nil {
		invalidParam(w, err)
		return
	}

	report, err := s.analytics.Report(r.Context(), tripID, f)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
