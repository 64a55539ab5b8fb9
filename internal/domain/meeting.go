// Package domain contains the core data types for the meetpoint application.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import "time"

// Meeting is the top-level aggregate. Members and the schedule belong to a meeting.
// Param is the opaque identifier shared with invitees; it is unique across all meetings.
type Meeting struct {
	ID           int64     `json:"id"`
	Param        string    `json:"param"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PlaceEnabled bool      `json:"place_enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

// Schedule is the time window of a meeting. There is one schedule per meeting.
type Schedule struct {
	ID        int64     `json:"id"`
	MeetingID int64     `json:"meeting_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// NewMeeting carries everything needed to create a meeting in one atomic write:
// the meeting row, the creator's member row, the schedule and, when CreatorUserID
// is set, the user-to-meeting link.
type NewMeeting struct {
	Param           string
	Title           string
	Description     string
	PlaceEnabled    bool
	CreatorUserID   *string // nil for creators without an account
	CreatorNickname string
	StartDate       time.Time
	EndDate         time.Time
}

// MeetingRecord is the result of a successful creation.
type MeetingRecord struct {
	Meeting  Meeting
	Creator  Member
	Schedule Schedule
}

// MeetingDetail is a meeting together with its schedule, as resolved from a param.
type MeetingDetail struct {
	Meeting  Meeting
	Schedule *Schedule // nil if the meeting has no schedule row
}

// MeetingPatch is a partial update. Nil fields are left unchanged.
type MeetingPatch struct {
	Title       *string
	Description *string
}

// UserMeeting is one row of a user's "my meetings" list.
// Auth is the user's own auth flag within that meeting.
type UserMeeting struct {
	MeetingID    int64
	Title        string
	Param        string
	Description  string
	PlaceEnabled bool
	LinkedAt     time.Time
	Auth         bool
}

// DisplayTimeLayout formats link creation times in listings.
const DisplayTimeLayout = "2006-01-02 15:04:05"
