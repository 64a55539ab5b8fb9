package handler

import (
	"net/http"

	"github.com/pkordes/meetpoint/internal/domain"
	"github.com/pkordes/meetpoint/internal/middleware"
)

// CreateMeeting handles POST /meetings.
// A bearer identity, when present, becomes the creator's user id and links
// the meeting to the user's list.
func (s *Server) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var body CreateMeetingRequest
	if !decodeBody(w, r, &body) {
		return
	}

	in := domain.NewMeeting{
		Title:           body.Title,
		CreatorNickname: body.Nickname,
		StartDate:       body.StartDate,
		EndDate:         body.EndDate,
	}
	if body.Description != nil {
		in.Description = *body.Description
	}
	if body.PlaceEnabled != nil {
		in.PlaceEnabled = *body.PlaceEnabled
	}
	if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
		in.CreatorUserID = &userID
	}

	rec, err := s.meetings.Create(r.Context(), in)
	if err != nil {
		writeError(w, err, "meeting not found")
		return
	}
	writeJSON(w, http.StatusCreated, CreateMeetingResponse{
		Meeting:  toMeeting(rec.Meeting),
		Member:   toMember(rec.Creator),
		Schedule: toSchedule(rec.Schedule),
	})
}

// GetMeetingByParam handles GET /meetings/by-param/{param}.
func (s *Server) GetMeetingByParam(w http.ResponseWriter, r *http.Request) {
	param, err := pathString(r, "param")
	if err != nil {
		paramError(w, err)
		return
	}

	d, err := s.meetings.GetByParam(r.Context(), param)
	if err != nil {
		writeError(w, err, "meeting not found")
		return
	}
	resp := MeetingDetail{Meeting: toMeeting(d.Meeting)}
	if d.Schedule != nil {
		sch := toSchedule(*d.Schedule)
		resp.Schedule = &sch
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateMeeting handles PATCH /meetings/{meetingId}.
// The caller must be an authorized member of the meeting.
func (s *Server) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	meetingID, err := pathInt64(r, "meetingId")
	if err != nil {
		paramError(w, err)
		return
	}
	var body UpdateMeetingRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Title == nil && body.Description == nil {
		requestError(w, "at least one of title or description is required")
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	if err := s.members.RequireAuthorized(r.Context(), userID, meetingID); err != nil {
		writeError(w, err, "meeting not found")
		return
	}

	updated, err := s.meetings.Update(r.Context(), meetingID, domain.MeetingPatch{
		Title:       body.Title,
		Description: body.Description,
	})
	if err != nil {
		writeError(w, err, "meeting not found")
		return
	}
	writeJSON(w, http.StatusOK, toMeeting(updated))
}

// ListMyMeetings handles GET /me/meetings.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListMyMeetings(w http.ResponseWriter, r *http.Request) {
	params, err := pagination(r)
	if err != nil {
		paramError(w, err)
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())

	page, err := s.meetings.ListForUser(r.Context(), userID, params)
	if err != nil {
		writeError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, toList(page, func(m domain.UserMeeting) UserMeeting {
		return UserMeeting{
			MeetingID:    m.MeetingID,
			Title:        m.Title,
			Param:        m.Param,
			Description:  m.Description,
			PlaceEnabled: m.PlaceEnabled,
			Auth:         m.Auth,
			CreatedAt:    m.LinkedAt.Format(domain.DisplayTimeLayout),
		}
	}))
}
