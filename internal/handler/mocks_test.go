package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/meetpoint/internal/domain"
	"github.com/pkordes/meetpoint/internal/handler"
	"github.com/pkordes/meetpoint/internal/middleware"
)

// mockMeetingServicer is a test double for handler.MeetingServicer.
// Set only the method fields your test needs.
type mockMeetingServicer struct {
	create      func(ctx context.Context, m domain.NewMeeting) (domain.MeetingRecord, error)
	getByParam  func(ctx context.Context, param string) (domain.MeetingDetail, error)
	update      func(ctx context.Context, meetingID int64, patch domain.MeetingPatch) (domain.Meeting, error)
	listForUser func(ctx context.Context, userID string, p domain.PaginationParams) (domain.Page[domain.UserMeeting], error)
}

func (m *mockMeetingServicer) Create(ctx context.Context, nm domain.NewMeeting) (domain.MeetingRecord, error) {
	return m.create(ctx, nm)
}
func (m *mockMeetingServicer) GetByParam(ctx context.Context, param string) (domain.MeetingDetail, error) {
	return m.getByParam(ctx, param)
}
func (m *mockMeetingServicer) Update(ctx context.Context, meetingID int64, patch domain.MeetingPatch) (domain.Meeting, error) {
	return m.update(ctx, meetingID, patch)
}
func (m *mockMeetingServicer) ListForUser(ctx context.Context, userID string, p domain.PaginationParams) (domain.Page[domain.UserMeeting], error) {
	return m.listForUser(ctx, userID, p)
}

// mockMemberServicer is a test double for handler.MemberServicer.
type mockMemberServicer struct {
	list              func(ctx context.Context, meetingID int64) ([]domain.Member, error)
	nicknameAvailable func(ctx context.Context, meetingID int64, nickname string) (bool, error)
	join              func(ctx context.Context, meetingID int64, userID *string, nickname string) (domain.Member, error)
	isAuthorized      func(ctx context.Context, userID string, meetingID int64) (bool, error)
	requireAuthorized func(ctx context.Context, userID string, meetingID int64) error
	remove            func(ctx context.Context, meetingID, memberID int64) error
}

func (m *mockMemberServicer) List(ctx context.Context, meetingID int64) ([]domain.Member, error) {
	return m.list(ctx, meetingID)
}
func (m *mockMemberServicer) NicknameAvailable(ctx context.Context, meetingID int64, nickname string) (bool, error) {
	return m.nicknameAvailable(ctx, meetingID, nickname)
}
func (m *mockMemberServicer) Join(ctx context.Context, meetingID int64, userID *string, nickname string) (domain.Member, error) {
	return m.join(ctx, meetingID, userID, nickname)
}
func (m *mockMemberServicer) IsAuthorized(ctx context.Context, userID string, meetingID int64) (bool, error) {
	return m.isAuthorized(ctx, userID, meetingID)
}
func (m *mockMemberServicer) RequireAuthorized(ctx context.Context, userID string, meetingID int64) error {
	return m.requireAuthorized(ctx, userID, meetingID)
}
func (m *mockMemberServicer) Remove(ctx context.Context, meetingID, memberID int64) error {
	return m.remove(ctx, meetingID, memberID)
}

// mockPlaceServicer is a test double for handler.PlaceServicer.
type mockPlaceServicer struct {
	propose      func(ctx context.Context, memberID int64, lat, lng float64) (domain.Place, error)
	suggest      func(ctx context.Context, meetingID int64) (domain.Suggestion, error)
	listStations func(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Station], error)
}

func (m *mockPlaceServicer) Propose(ctx context.Context, memberID int64, lat, lng float64) (domain.Place, error) {
	return m.propose(ctx, memberID, lat, lng)
}
func (m *mockPlaceServicer) Suggest(ctx context.Context, meetingID int64) (domain.Suggestion, error) {
	return m.suggest(ctx, meetingID)
}
func (m *mockPlaceServicer) ListStations(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Station], error) {
	return m.listStations(ctx, p)
}

// compile-time checks: mocks must satisfy the handler interfaces.
var (
	_ handler.MeetingServicer = (*mockMeetingServicer)(nil)
	_ handler.MemberServicer  = (*mockMemberServicer)(nil)
	_ handler.PlaceServicer   = (*mockPlaceServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

const testSecret = "handler-test-secret"

// services groups the mocks a test wires into the router. Nil fields get an
// empty mock whose methods panic if called.
type services struct {
	meetings *mockMeetingServicer
	members  *mockMemberServicer
	places   *mockPlaceServicer
}

// newHTTPHandler wires a Server with the given mocks behind the bearer
// authenticator. This mirrors how main.go wires it in production.
func newHTTPHandler(svc services, opts ...handler.Option) http.Handler {
	if svc.meetings == nil {
		svc.meetings = &mockMeetingServicer{}
	}
	if svc.members == nil {
		svc.members = &mockMemberServicer{}
	}
	if svc.places == nil {
		svc.places = &mockPlaceServicer{}
	}
	srv := handler.NewServer(svc.meetings, svc.members, svc.places, opts...)
	return middleware.NewAuthenticator(testSecret)(srv.Routes())
}

// serve runs req through h and returns the recorded response.
func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// asUser signs a bearer token for userID onto req.
func asUser(t *testing.T, req *http.Request, userID string) *http.Request {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
	return req
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func jsonRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, jsonBody(t, v))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[handler.ErrorResponse](t, rec).Error.Code
}

func meetingFixture() domain.Meeting {
	return domain.Meeting{
		ID:           7,
		Param:        "abcdefghijklmnopqrstuvwxyz",
		Title:        "Friday dinner",
		Description:  "somewhere central",
		PlaceEnabled: true,
		CreatedAt:    time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func strPtr(s string) *string { return &s }
