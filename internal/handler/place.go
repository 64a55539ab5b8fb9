package handler

import "net/http"

// ProposePlace handles POST /members/{memberId}/places.
func (s *Server) ProposePlace(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathInt64(r, "memberId")
	if err != nil {
		paramError(w, err)
		return
	}
	var body ProposePlaceRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Latitude == nil || body.Longitude == nil {
		requestError(w, "latitude and longitude are required")
		return
	}

	p, err := s.places.Propose(r.Context(), memberID, *body.Latitude, *body.Longitude)
	if err != nil {
		writeError(w, err, "member not found")
		return
	}
	writeJSON(w, http.StatusCreated, Place{
		ID:        p.ID,
		MemberID:  p.MemberID,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		CreatedAt: p.CreatedAt,
	})
}

// GetSuggestion handles GET /meetings/{meetingId}/suggestion.
// A meeting without proposed places answers 200 with a null center.
func (s *Server) GetSuggestion(w http.ResponseWriter, r *http.Request) {
	meetingID, err := pathInt64(r, "meetingId")
	if err != nil {
		paramError(w, err)
		return
	}

	sug, err := s.places.Suggest(r.Context(), meetingID)
	if err != nil {
		writeError(w, err, "meeting not found")
		return
	}
	resp := Suggestion{Stations: make([]RankedStation, len(sug.Stations))}
	if sug.Center != nil {
		resp.Center = &Coordinate{Latitude: sug.Center.Latitude, Longitude: sug.Center.Longitude}
	}
	for i, st := range sug.Stations {
		resp.Stations[i] = RankedStation{Station: toStation(st.Station), DistanceMeters: st.DistanceMeters}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListStations handles GET /stations.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListStations(w http.ResponseWriter, r *http.Request) {
	params, err := pagination(r)
	if err != nil {
		paramError(w, err)
		return
	}

	page, err := s.places.ListStations(r.Context(), params)
	if err != nil {
		writeError(w, err, "stations not found")
		return
	}
	writeJSON(w, http.StatusOK, toList(page, toStation))
}
