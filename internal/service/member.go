package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkordes/meetpoint/internal/domain"
	"github.com/pkordes/meetpoint/internal/repo"
)

// MemberService implements membership operations: listing, nickname checks,
// joining, authorization and removal.
// It holds the meetings repo because most operations first verify the meeting exists.
type MemberService struct {
	meetings repo.MeetingRepo
	members  repo.MemberRepo
	log      *slog.Logger
}

// NewMemberService constructs a MemberService backed by the provided repos.
func NewMemberService(meetings repo.MeetingRepo, members repo.MemberRepo, logger *slog.Logger) *MemberService {
	return &MemberService{meetings: meetings, members: members, log: defaultLogger(logger)}
}

// List returns the members of meetingID (id, nickname and auth only).
// Returns domain.ErrNotFound if the meeting does not exist.
// Always returns a non-nil slice so callers can safely range over it.
func (s *MemberService) List(ctx context.Context, meetingID int64) ([]domain.Member, error) {
	if _, err := s.meetings.GetByID(ctx, meetingID); err != nil {
		err = fmt.Errorf("service.MemberService.List: %w", err)
		logFailure(ctx, s.log, "member", "list", err, "meeting_id", meetingID)
		return nil, err
	}
	members, err := s.members.ListByMeeting(ctx, meetingID)
	if err != nil {
		err = fmt.Errorf("service.MemberService.List: %w", err)
		logFailure(ctx, s.log, "member", "list", err, "meeting_id", meetingID)
		return nil, err
	}
	if members == nil {
		return []domain.Member{}, nil
	}
	return members, nil
}

// NicknameAvailable reports whether no member of meetingID uses nickname.
// The meeting itself is not looked up: an unknown meeting has no members, so
// every nickname is available in it.
func (s *MemberService) NicknameAvailable(ctx context.Context, meetingID int64, nickname string) (bool, error) {
	n, err := s.members.CountByNickname(ctx, meetingID, strings.TrimSpace(nickname))
	if err != nil {
		err = fmt.Errorf("service.MemberService.NicknameAvailable: %w", err)
		logFailure(ctx, s.log, "member", "nickname_available", err, "meeting_id", meetingID)
		return false, err
	}
	return n == 0, nil
}

// Join admits a participant to meetingID under nickname. userID is nil for
// anonymous participants; otherwise the user is linked to the meeting.
// Returns domain.ErrValidation for a bad nickname, domain.ErrNotFound for an
// unknown meeting and domain.ErrConflict if the nickname is taken.
func (s *MemberService) Join(ctx context.Context, meetingID int64, userID *string, nickname string) (domain.Member, error) {
	nickname = strings.TrimSpace(nickname)
	if err := validateNickname(nickname); err != nil {
		return domain.Member{}, err
	}
	if _, err := s.meetings.GetByID(ctx, meetingID); err != nil {
		err = fmt.Errorf("service.MemberService.Join: %w", err)
		logFailure(ctx, s.log, "member", "join", err, "meeting_id", meetingID)
		return domain.Member{}, err
	}

	available, err := s.NicknameAvailable(ctx, meetingID, nickname)
	if err != nil {
		return domain.Member{}, fmt.Errorf("service.MemberService.Join: %w", err)
	}
	if !available {
		return domain.Member{}, fmt.Errorf("service.MemberService.Join: %w: nickname %q is taken", domain.ErrConflict, nickname)
	}

	// The unique index on (meeting_id, nickname) still rejects a concurrent join
	// that slipped past the availability check, as domain.ErrConflict.
	member, err := s.members.Create(ctx, domain.Member{
		MeetingID: meetingID,
		Nickname:  nickname,
		UserID:    userID,
	})
	if err != nil {
		err = fmt.Errorf("service.MemberService.Join: %w", err)
		logFailure(ctx, s.log, "member", "join", err, "meeting_id", meetingID)
		return domain.Member{}, err
	}
	return member, nil
}

// IsAuthorized returns the auth flag of userID's membership in meetingID.
// Returns domain.ErrNotFound when the user is not a member, which is distinct
// from a member without the flag (false, nil).
func (s *MemberService) IsAuthorized(ctx context.Context, userID string, meetingID int64) (bool, error) {
	member, err := s.members.GetByUserAndMeeting(ctx, userID, meetingID)
	if err != nil {
		err = fmt.Errorf("service.MemberService.IsAuthorized: %w", err)
		logFailure(ctx, s.log, "member", "is_authorized", err, "meeting_id", meetingID)
		return false, err
	}
	return member.Auth, nil
}

// RequireAuthorized returns nil if userID is an authorized member of meetingID.
// Non-members and members without the auth flag both get domain.ErrUnauthorized.
func (s *MemberService) RequireAuthorized(ctx context.Context, userID string, meetingID int64) error {
	ok, err := s.IsAuthorized(ctx, userID, meetingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("service.MemberService.RequireAuthorized: %w: not a member", domain.ErrUnauthorized)
		}
		return fmt.Errorf("service.MemberService.RequireAuthorized: %w", err)
	}
	if !ok {
		return fmt.Errorf("service.MemberService.RequireAuthorized: %w", domain.ErrUnauthorized)
	}
	return nil
}

// Remove deletes memberID from meetingID. Removing a member that does not
// exist succeeds; only storage faults are returned.
func (s *MemberService) Remove(ctx context.Context, meetingID, memberID int64) error {
	if err := s.members.Delete(ctx, meetingID, memberID); err != nil {
		err = fmt.Errorf("service.MemberService.Remove: %w", err)
		logFailure(ctx, s.log, "member", "remove", err, "meeting_id", meetingID, "member_id", memberID)
		return err
	}
	return nil
}
