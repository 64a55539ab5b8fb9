package service_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/pkordes/meetpoint/internal/domain"
	"github.com/pkordes/meetpoint/internal/repo"
)

// mockMeetingRepo is a hand-written test double for repo.MeetingRepo.
// Each method is a function field; set only the ones your test needs.
type mockMeetingRepo struct {
	create      func(ctx context.Context, m domain.NewMeeting) (domain.MeetingRecord, error)
	getByID     func(ctx context.Context, id int64) (domain.Meeting, error)
	getByParam  func(ctx context.Context, param string) (domain.MeetingDetail, error)
	paramExists func(ctx context.Context, param string) (bool, error)
	update      func(ctx context.Context, id int64, patch domain.MeetingPatch) (domain.Meeting, error)
	listByUser  func(ctx context.Context, userID string, p domain.PaginationParams) ([]domain.UserMeeting, int64, error)
}

func (m *mockMeetingRepo) Create(ctx context.Context, nm domain.NewMeeting) (domain.MeetingRecord, error) {
	return m.create(ctx, nm)
}
func (m *mockMeetingRepo) GetByID(ctx context.Context, id int64) (domain.Meeting, error) {
	return m.getByID(ctx, id)
}
func (m *mockMeetingRepo) GetByParam(ctx context.Context, param string) (domain.MeetingDetail, error) {
	return m.getByParam(ctx, param)
}
func (m *mockMeetingRepo) ParamExists(ctx context.Context, param string) (bool, error) {
	if m.paramExists == nil {
		return false, nil
	}
	return m.paramExists(ctx, param)
}
func (m *mockMeetingRepo) Update(ctx context.Context, id int64, patch domain.MeetingPatch) (domain.Meeting, error) {
	return m.update(ctx, id, patch)
}
func (m *mockMeetingRepo) ListByUser(ctx context.Context, userID string, p domain.PaginationParams) ([]domain.UserMeeting, int64, error) {
	return m.listByUser(ctx, userID, p)
}

// mockMemberRepo is a hand-written test double for repo.MemberRepo.
type mockMemberRepo struct {
	create              func(ctx context.Context, member domain.Member) (domain.Member, error)
	getByID             func(ctx context.Context, id int64) (domain.Member, error)
	listByMeeting       func(ctx context.Context, meetingID int64) ([]domain.Member, error)
	countByNickname     func(ctx context.Context, meetingID int64, nickname string) (int64, error)
	getByUserAndMeeting func(ctx context.Context, userID string, meetingID int64) (domain.Member, error)
	delete              func(ctx context.Context, meetingID, memberID int64) error
}

func (m *mockMemberRepo) Create(ctx context.Context, member domain.Member) (domain.Member, error) {
	return m.create(ctx, member)
}
func (m *mockMemberRepo) GetByID(ctx context.Context, id int64) (domain.Member, error) {
	return m.getByID(ctx, id)
}
func (m *mockMemberRepo) ListByMeeting(ctx context.Context, meetingID int64) ([]domain.Member, error) {
	return m.listByMeeting(ctx, meetingID)
}
func (m *mockMemberRepo) CountByNickname(ctx context.Context, meetingID int64, nickname string) (int64, error) {
	return m.countByNickname(ctx, meetingID, nickname)
}
func (m *mockMemberRepo) GetByUserAndMeeting(ctx context.Context, userID string, meetingID int64) (domain.Member, error) {
	return m.getByUserAndMeeting(ctx, userID, meetingID)
}
func (m *mockMemberRepo) Delete(ctx context.Context, meetingID, memberID int64) error {
	return m.delete(ctx, meetingID, memberID)
}

// mockPlaceRepo is a hand-written test double for repo.PlaceRepo.
type mockPlaceRepo struct {
	create        func(ctx context.Context, place domain.Place) (domain.Place, error)
	listByMeeting func(ctx context.Context, meetingID int64) ([]domain.Place, error)
}

func (m *mockPlaceRepo) Create(ctx context.Context, place domain.Place) (domain.Place, error) {
	return m.create(ctx, place)
}
func (m *mockPlaceRepo) ListByMeeting(ctx context.Context, meetingID int64) ([]domain.Place, error) {
	return m.listByMeeting(ctx, meetingID)
}

// mockStationRepo is a hand-written test double for repo.StationRepo.
type mockStationRepo struct {
	list      func(ctx context.Context) ([]domain.Station, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Station, int64, error)
}

func (m *mockStationRepo) List(ctx context.Context) ([]domain.Station, error) {
	return m.list(ctx)
}
func (m *mockStationRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Station, int64, error) {
	return m.listPaged(ctx, p)
}

// compile-time checks: mocks must satisfy the repo interfaces.
var (
	_ repo.MeetingRepo = (*mockMeetingRepo)(nil)
	_ repo.MemberRepo  = (*mockMemberRepo)(nil)
	_ repo.PlaceRepo   = (*mockPlaceRepo)(nil)
	_ repo.StationRepo = (*mockStationRepo)(nil)
)

// discardLogger keeps test output quiet.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }
