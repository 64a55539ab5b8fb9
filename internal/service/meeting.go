// Package service contains the business logic for the meetpoint API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here. Services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkordes/meetpoint/internal/domain"
	"github.com/pkordes/meetpoint/internal/ident"
	"github.com/pkordes/meetpoint/internal/repo"
)

// maxCreateAttempts bounds how often Create re-allocates a param after the
// database rejected the previous one as a duplicate.
const maxCreateAttempts = 3

// MeetingOptions tunes MeetingService.
type MeetingOptions struct {
	// MaxParamAttempts bounds each param allocation. Defaults to ident.DefaultMaxAttempts.
	MaxParamAttempts int

	// NewParam overrides the param generator. Defaults to ident.NewParam.
	NewParam func() string

	// CheckCreatorNickname applies the join-time nickname rules to the creator.
	// When false the creator nickname only has to be non-blank.
	CheckCreatorNickname bool
}

// MeetingService implements the meeting lifecycle: creation, lookup, update and
// the per-user listing.
type MeetingService struct {
	meetings repo.MeetingRepo
	params   *ident.Allocator
	opts     MeetingOptions
	log      *slog.Logger
}

// NewMeetingService constructs a MeetingService backed by the provided repo.
// A nil logger falls back to slog.Default().
func NewMeetingService(meetings repo.MeetingRepo, logger *slog.Logger, opts MeetingOptions) *MeetingService {
	params := ident.NewAllocator(meetings, opts.MaxParamAttempts)
	if opts.NewParam != nil {
		params.WithGenerator(opts.NewParam)
	}
	return &MeetingService{
		meetings: meetings,
		params:   params,
		opts:     opts,
		log:      defaultLogger(logger),
	}
}

// Create validates the request, allocates a unique param and persists the
// meeting with its creator, schedule and optional user link atomically.
// m.Param is ignored. m.CreatorUserID is nil for creators without an account.
//
// Returns domain.ErrValidation for invalid input, domain.ErrAllocationExhausted
// when no free param could be found, and domain.ErrCreationFailed (wrapping
// the cause) when the transaction was rolled back for any other reason.
func (s *MeetingService) Create(ctx context.Context, m domain.NewMeeting) (domain.MeetingRecord, error) {
	m.Title = strings.TrimSpace(m.Title)
	m.Description = strings.TrimSpace(m.Description)
	m.CreatorNickname = strings.TrimSpace(m.CreatorNickname)
	if err := s.validateNewMeeting(m); err != nil {
		return domain.MeetingRecord{}, err
	}

	for range maxCreateAttempts {
		param, err := s.params.Allocate(ctx)
		if err != nil {
			err = fmt.Errorf("service.MeetingService.Create: %w", err)
			logFailure(ctx, s.log, "meeting", "create", err)
			return domain.MeetingRecord{}, err
		}
		m.Param = param

		rec, err := s.meetings.Create(ctx, m)
		if err == nil {
			s.log.InfoContext(ctx, "meeting created",
				"meeting_id", rec.Meeting.ID,
				"member_id", rec.Creator.ID,
				"with_account", m.CreatorUserID != nil,
			)
			return rec, nil
		}
		if errors.Is(err, domain.ErrConflict) {
			// Another request won the race for this param.
			s.log.DebugContext(ctx, "param collision on insert, reallocating", "error", err)
			continue
		}

		err = fmt.Errorf("service.MeetingService.Create: %w: %w", domain.ErrCreationFailed, err)
		logFailure(ctx, s.log, "meeting", "create", err)
		return domain.MeetingRecord{}, err
	}
	return domain.MeetingRecord{}, fmt.Errorf("service.MeetingService.Create: %w", domain.ErrAllocationExhausted)
}

// GetByParam resolves a shared param into its meeting and schedule.
// Returns domain.ErrNotFound if no meeting uses param.
func (s *MeetingService) GetByParam(ctx context.Context, param string) (domain.MeetingDetail, error) {
	d, err := s.meetings.GetByParam(ctx, strings.TrimSpace(param))
	if err != nil {
		err = fmt.Errorf("service.MeetingService.GetByParam: %w", err)
		logFailure(ctx, s.log, "meeting", "get_by_param", err)
		return domain.MeetingDetail{}, err
	}
	return d, nil
}

// Update applies a partial title/description update to meetingID.
// Returns domain.ErrNotFound if the meeting does not exist and
// domain.ErrValidation if a supplied title is blank.
func (s *MeetingService) Update(ctx context.Context, meetingID int64, patch domain.MeetingPatch) (domain.Meeting, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if err := validateTitle(title); err != nil {
			return domain.Meeting{}, err
		}
		patch.Title = &title
	}
	if patch.Description != nil {
		desc := strings.TrimSpace(*patch.Description)
		patch.Description = &desc
	}

	if _, err := s.meetings.GetByID(ctx, meetingID); err != nil {
		err = fmt.Errorf("service.MeetingService.Update: %w", err)
		logFailure(ctx, s.log, "meeting", "update", err, "meeting_id", meetingID)
		return domain.Meeting{}, err
	}

	updated, err := s.meetings.Update(ctx, meetingID, patch)
	if err != nil {
		err = fmt.Errorf("service.MeetingService.Update: %w", err)
		logFailure(ctx, s.log, "meeting", "update", err, "meeting_id", meetingID)
		return domain.Meeting{}, err
	}
	return updated, nil
}

// ListForUser returns one page of the meetings userID belongs to, each with
// the user's own auth flag in that meeting. Items is never nil.
func (s *MeetingService) ListForUser(ctx context.Context, userID string, p domain.PaginationParams) (domain.Page[domain.UserMeeting], error) {
	items, total, err := s.meetings.ListByUser(ctx, userID, p)
	if err != nil {
		err = fmt.Errorf("service.MeetingService.ListForUser: %w", err)
		logFailure(ctx, s.log, "meeting", "list_for_user", err)
		return domain.Page[domain.UserMeeting]{}, err
	}
	if items == nil {
		items = []domain.UserMeeting{}
	}
	return domain.Page[domain.UserMeeting]{Items: items, Total: total, Params: p}, nil
}

// validateNewMeeting enforces the creation rules.
//   - Title must be non-blank and at most 100 characters.
//   - The creator nickname must be non-blank; with CheckCreatorNickname it must
//     also satisfy the join-time rules.
//   - Both dates are required and the end must not be before the start.
func (s *MeetingService) validateNewMeeting(m domain.NewMeeting) error {
	if err := validateTitle(m.Title); err != nil {
		return err
	}
	if m.CreatorNickname == "" {
		return fmt.Errorf("%w: nickname is required", domain.ErrValidation)
	}
	if s.opts.CheckCreatorNickname {
		if err := validateNickname(m.CreatorNickname); err != nil {
			return err
		}
	}
	if m.StartDate.IsZero() || m.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", domain.ErrValidation)
	}
	if m.EndDate.Before(m.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	return nil
}
