package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/meetpoint/internal/domain"
	"github.com/pkordes/meetpoint/internal/ident"
	"github.com/pkordes/meetpoint/internal/repo"
	"github.com/pkordes/meetpoint/testutil"
)

// repos bundles every repo backed by one test transaction.
type repos struct {
	meetings repo.MeetingRepo
	members  repo.MemberRepo
	places   repo.PlaceRepo
	stations repo.StationRepo
}

// newTestRepos opens a transaction against the test database and returns all
// repos backed by it. The transaction is rolled back when the test finishes.
func newTestRepos(t *testing.T) repos {
	t.Helper()
	return reposFor(testutil.NewTx(t))
}

func reposFor(tx pgx.Tx) repos {
	return repos{
		meetings: repo.NewMeetingRepo(tx),
		members:  repo.NewMemberRepo(tx),
		places:   repo.NewPlaceRepo(tx),
		stations: repo.NewStationRepo(tx),
	}
}

func strPtr(s string) *string { return &s }

// newMeetingFixture returns a NewMeeting with a fresh param and sane defaults.
func newMeetingFixture() domain.NewMeeting {
	return domain.NewMeeting{
		Param:           ident.NewParam(),
		Title:           "Friday dinner",
		Description:     "somewhere central",
		PlaceEnabled:    true,
		CreatorNickname: "alice",
		StartDate:       time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2025, 6, 1, 21, 0, 0, 0, time.UTC),
	}
}

// mustCreateMeeting inserts a meeting and fails the test if it does not succeed.
func mustCreateMeeting(t *testing.T, r repos, m domain.NewMeeting) domain.MeetingRecord {
	t.Helper()
	rec, err := r.meetings.Create(context.Background(), m)
	require.NoError(t, err, "create meeting")
	return rec
}
