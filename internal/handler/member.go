package handler

import (
	"net/http"

	"github.com/pkordes/meetpoint/internal/middleware"
)

// ListMembers handles GET /meetings/{meetingId}/members.
func (s *Server) ListMembers(w http.ResponseWriter, r *http.Request) {
	meetingID, err := pathInt64(r, "meetingId")
	if err != nil {
		paramError(w, err)
		return
	}

	members, err := s.members.List(r.Context(), meetingID)
	if err != nil {
		writeError(w, err, "meeting not found")
		return
	}
	data := make([]Member, len(members))
	for i, m := range members {
		data[i] = toMember(m)
	}
	writeJSON(w, http.StatusOK, data)
}

// JoinMeeting handles POST /meetings/{meetingId}/members.
// A bearer identity, when present, is recorded on the member and links the
// meeting to the user's list.
func (s *Server) JoinMeeting(w http.ResponseWriter, r *http.Request) {
	meetingID, err := pathInt64(r, "meetingId")
	if err != nil {
		paramError(w, err)
		return
	}
	var body JoinMeetingRequest
	if !decodeBody(w, r, &body) {
		return
	}

	var userID *string
	if id, ok := middleware.UserIDFromContext(r.Context()); ok {
		userID = &id
	}
	member, err := s.members.Join(r.Context(), meetingID, userID, body.Nickname)
	if err != nil {
		writeError(w, err, "meeting not found")
		return
	}
	writeJSON(w, http.StatusCreated, toMember(member))
}

// RemoveMember handles DELETE /meetings/{meetingId}/members/{memberId}.
// The caller must be an authorized member of the meeting. Removing a member
// that does not exist still answers 204.
func (s *Server) RemoveMember(w http.ResponseWriter, r *http.Request) {
	meetingID, err := pathInt64(r, "meetingId")
	if err != nil {
		paramError(w, err)
		return
	}
	memberID, err := pathInt64(r, "memberId")
	if err != nil {
		paramError(w, err)
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	if err := s.members.RequireAuthorized(r.Context(), userID, meetingID); err != nil {
		writeError(w, err, "meeting not found")
		return
	}
	if err := s.members.Remove(r.Context(), meetingID, memberID); err != nil {
		writeError(w, err, "member not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckNickname handles GET /meetings/{meetingId}/nicknames/{nickname}.
func (s *Server) CheckNickname(w http.ResponseWriter, r *http.Request) {
	meetingID, err := pathInt64(r, "meetingId")
	if err != nil {
		paramError(w, err)
		return
	}
	nickname, err := pathString(r, "nickname")
	if err != nil {
		paramError(w, err)
		return
	}

	available, err := s.members.NicknameAvailable(r.Context(), meetingID, nickname)
	if err != nil {
		writeError(w, err, "meeting not found")
		return
	}
	writeJSON(w, http.StatusOK, NicknameAvailability{Nickname: nickname, Available: available})
}

// GetAuthorization handles GET /meetings/{meetingId}/authorization.
// A caller who is not a member gets 404, distinct from a member without the
// auth flag ({"auth": false}).
func (s *Server) GetAuthorization(w http.ResponseWriter, r *http.Request) {
	meetingID, err := pathInt64(r, "meetingId")
	if err != nil {
		paramError(w, err)
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())

	auth, err := s.members.IsAuthorized(r.Context(), userID, meetingID)
	if err != nil {
		writeError(w, err, "not a member of this meeting")
		return
	}
	writeJSON(w, http.StatusOK, Authorization{MeetingID: meetingID, Auth: auth})
}
