package handler

import (
	"time"

	"github.com/pkordes/meetpoint/internal/domain"
)

// Request and response bodies. Field names follow openapi.yaml.

// CreateMeetingRequest is the body of POST /meetings.
type CreateMeetingRequest struct {
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	PlaceEnabled *bool     `json:"place_enabled,omitempty"`
	Nickname     string    `json:"nickname"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

// UpdateMeetingRequest is the body of PATCH /meetings/{meetingId}.
// Omitted fields are left unchanged.
type UpdateMeetingRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// JoinMeetingRequest is the body of POST /meetings/{meetingId}/members.
type JoinMeetingRequest struct {
	Nickname string `json:"nickname"`
}

// ProposePlaceRequest is the body of POST /members/{memberId}/places.
type ProposePlaceRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type Meeting struct {
	ID           int64     `json:"id"`
	Param        string    `json:"param"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PlaceEnabled bool      `json:"place_enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

type Schedule struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type Member struct {
	ID        int64  `json:"id"`
	MeetingID int64  `json:"meeting_id"`
	Nickname  string `json:"nickname"`
	Auth      bool   `json:"auth"`
}

// CreateMeetingResponse returns the meeting together with the creator's
// member record, which the client keeps to act as that member.
type CreateMeetingResponse struct {
	Meeting  Meeting  `json:"meeting"`
	Member   Member   `json:"member"`
	Schedule Schedule `json:"schedule"`
}

type MeetingDetail struct {
	Meeting  Meeting   `json:"meeting"`
	Schedule *Schedule `json:"schedule"`
}

type NicknameAvailability struct {
	Nickname  string `json:"nickname"`
	Available bool   `json:"available"`
}

type Authorization struct {
	MeetingID int64 `json:"meeting_id"`
	Auth      bool  `json:"auth"`
}

type Place struct {
	ID        int64     `json:"id"`
	MemberID  int64     `json:"member_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

type Station struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Line      string  `json:"line"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RankedStation struct {
	Station
	DistanceMeters float64 `json:"distance_meters"`
}

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Suggestion has a null center and no stations until a place is proposed.
type Suggestion struct {
	Center   *Coordinate     `json:"center"`
	Stations []RankedStation `json:"stations"`
}

// UserMeeting is one row of GET /me/meetings. CreatedAt is the time the user
// was linked to the meeting, formatted with domain.DisplayTimeLayout.
type UserMeeting struct {
	MeetingID    int64  `json:"meeting_id"`
	Title        string `json:"title"`
	Param        string `json:"param"`
	Description  string `json:"description"`
	PlaceEnabled bool   `json:"place_enabled"`
	Auth         bool   `json:"auth"`
	CreatedAt    string `json:"created_at"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// ListResponse is the envelope of every paginated listing.
type ListResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// --- mapping helpers --------------------------------------------------------

func toMeeting(m domain.Meeting) Meeting {
	return Meeting{
		ID:           m.ID,
		Param:        m.Param,
		Title:        m.Title,
		Description:  m.Description,
		PlaceEnabled: m.PlaceEnabled,
		CreatedAt:    m.CreatedAt,
	}
}

func toSchedule(s domain.Schedule) Schedule {
	return Schedule{StartDate: s.StartDate, EndDate: s.EndDate}
}

func toMember(m domain.Member) Member {
	return Member{ID: m.ID, MeetingID: m.MeetingID, Nickname: m.Nickname, Auth: m.Auth}
}

func toStation(s domain.Station) Station {
	return Station{ID: s.ID, Name: s.Name, Line: s.Line, Latitude: s.Latitude, Longitude: s.Longitude}
}

// toList maps one page of domain values into the listing envelope.
func toList[D, T any](page domain.Page[D], conv func(D) T) ListResponse[T] {
	data := make([]T, len(page.Items))
	for i, item := range page.Items {
		data[i] = conv(item)
	}
	return ListResponse[T]{
		Data: data,
		Pagination: Pagination{
			Page:  page.Params.Page,
			Limit: page.Params.Limit,
			Total: page.Total,
		},
	}
}
