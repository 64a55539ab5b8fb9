package domain

import "time"

// Member is a participant in a meeting. Nickname is unique within the meeting only.
// UserID is nil for anonymous members. Auth marks the creator / authorized member.
type Member struct {
	ID        int64
	MeetingID int64
	Nickname  string
	UserID    *string
	Auth      bool
	CreatedAt time.Time
}
