package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/meetpoint/internal/domain"
	"github.com/pkordes/meetpoint/testutil"
)

func TestMeetingRepo_Create(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	input := newMeetingFixture()

	rec, err := r.meetings.Create(ctx, input)

	require.NoError(t, err)
	assert.NotZero(t, rec.Meeting.ID)
	assert.Equal(t, input.Param, rec.Meeting.Param)
	assert.Equal(t, input.Title, rec.Meeting.Title)
	assert.True(t, rec.Meeting.PlaceEnabled)
	assert.False(t, rec.Meeting.CreatedAt.IsZero())

	assert.Equal(t, rec.Meeting.ID, rec.Creator.MeetingID)
	assert.Equal(t, "alice", rec.Creator.Nickname)
	assert.True(t, rec.Creator.Auth, "creator must be authorized")
	assert.Nil(t, rec.Creator.UserID)

	assert.Equal(t, rec.Meeting.ID, rec.Schedule.MeetingID)
	assert.True(t, rec.Schedule.StartDate.Equal(input.StartDate))
	assert.True(t, rec.Schedule.EndDate.Equal(input.EndDate))
}

func TestMeetingRepo_Create_WithUserLinksMeeting(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	input := newMeetingFixture()
	input.CreatorUserID = strPtr("user-1")

	rec := mustCreateMeeting(t, r, input)

	require.NotNil(t, rec.Creator.UserID)
	assert.Equal(t, "user-1", *rec.Creator.UserID)

	list, total, err := r.meetings.ListByUser(ctx, "user-1", domain.PaginationParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, rec.Meeting.ID, list[0].MeetingID)
	assert.True(t, list[0].Auth)
}

// TestMeetingRepo_Create_IsAtomic forces the schedule insert to fail after the
// meeting and creator rows were written; nothing of the meeting may remain.
func TestMeetingRepo_Create_IsAtomic(t *testing.T) {
	tx := testutil.NewTx(t)
	r := reposFor(tx)
	ctx := context.Background()
	input := newMeetingFixture()
	input.CreatorNickname = "atomic-creator"
	input.EndDate = input.StartDate.Add(-time.Hour) // violates meeting_schedules_order_check

	_, err := r.meetings.Create(ctx, input)
	require.Error(t, err)

	count := func(query string, arg any) int64 {
		t.Helper()
		var n int64
		require.NoError(t, tx.QueryRow(ctx, query, arg).Scan(&n))
		return n
	}
	assert.Zero(t, count(`SELECT count(*) FROM meetings WHERE param = $1`, input.Param),
		"meeting row must be rolled back")
	assert.Zero(t, count(`SELECT count(*) FROM meeting_members WHERE nickname = $1`, input.CreatorNickname),
		"creator member row must be rolled back")
}

func TestMeetingRepo_Create_DuplicateParam(t *testing.T) {
	r := newTestRepos(t)
	first := mustCreateMeeting(t, r, newMeetingFixture())

	dup := newMeetingFixture()
	dup.Param = first.Meeting.Param
	_, err := r.meetings.Create(context.Background(), dup)

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestMeetingRepo_GetByID(t *testing.T) {
	r := newTestRepos(t)
	rec := mustCreateMeeting(t, r, newMeetingFixture())

	got, err := r.meetings.GetByID(context.Background(), rec.Meeting.ID)

	require.NoError(t, err)
	assert.Equal(t, rec.Meeting.Param, got.Param)
}

func TestMeetingRepo_GetByID_NotFound(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.meetings.GetByID(context.Background(), -1)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMeetingRepo_GetByParam(t *testing.T) {
	r := newTestRepos(t)
	rec := mustCreateMeeting(t, r, newMeetingFixture())

	got, err := r.meetings.GetByParam(context.Background(), rec.Meeting.Param)

	require.NoError(t, err)
	assert.Equal(t, rec.Meeting.ID, got.Meeting.ID)
	require.NotNil(t, got.Schedule)
	assert.Equal(t, rec.Schedule.ID, got.Schedule.ID)
}

func TestMeetingRepo_GetByParam_NotFound(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.meetings.GetByParam(context.Background(), "no-such-param")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMeetingRepo_ParamExists(t *testing.T) {
	r := newTestRepos(t)
	rec := mustCreateMeeting(t, r, newMeetingFixture())
	ctx := context.Background()

	exists, err := r.meetings.ParamExists(ctx, rec.Meeting.Param)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = r.meetings.ParamExists(ctx, "unused")
	require.NoError(t, err)
	assert.False(t, exists)
}

// TestMeetingRepo_Update_TargetsRequestedID pins that the update is applied to
// the id passed in, and to no other meeting.
func TestMeetingRepo_Update_TargetsRequestedID(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	other := mustCreateMeeting(t, r, newMeetingFixture())
	target := mustCreateMeeting(t, r, newMeetingFixture())

	got, err := r.meetings.Update(ctx, target.Meeting.ID, domain.MeetingPatch{Title: strPtr("Renamed")})

	require.NoError(t, err)
	assert.Equal(t, target.Meeting.ID, got.ID)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, target.Meeting.Description, got.Description, "nil description keeps the column")

	untouched, err := r.meetings.GetByID(ctx, other.Meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, "Friday dinner", untouched.Title)
}

func TestMeetingRepo_Update_NotFound(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.meetings.Update(context.Background(), -1, domain.MeetingPatch{Title: strPtr("x")})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMeetingRepo_ListByUser_Paged(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	for range 3 {
		m := newMeetingFixture()
		m.CreatorUserID = strPtr("pager")
		mustCreateMeeting(t, r, m)
	}

	page, total, err := r.meetings.ListByUser(ctx, "pager", domain.PaginationParams{Page: 2, Limit: 2})

	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 1)
}

func TestMeetingRepo_ListByUser_Empty(t *testing.T) {
	r := newTestRepos(t)

	list, total, err := r.meetings.ListByUser(context.Background(), "nobody", domain.PaginationParams{Page: 1, Limit: 20})

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
