// Package handler implements the HTTP handlers for the meetpoint API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, meeting.go, etc.) but all share the same Server struct so
// they can access its dependencies. Routes wires them into a chi router.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/meetpoint/internal/domain"
	"github.com/pkordes/meetpoint/internal/middleware"
)

// MeetingServicer defines the business operations the meeting handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type MeetingServicer interface {
	Create(ctx context.Context, m domain.NewMeeting) (domain.MeetingRecord, error)
	GetByParam(ctx context.Context, param string) (domain.MeetingDetail, error)
	Update(ctx context.Context, meetingID int64, patch domain.MeetingPatch) (domain.Meeting, error)
	ListForUser(ctx context.Context, userID string, p domain.PaginationParams) (domain.Page[domain.UserMeeting], error)
}

// MemberServicer defines the membership operations the handlers depend on.
type MemberServicer interface {
	List(ctx context.Context, meetingID int64) ([]domain.Member, error)
	NicknameAvailable(ctx context.Context, meetingID int64, nickname string) (bool, error)
	Join(ctx context.Context, meetingID int64, userID *string, nickname string) (domain.Member, error)
	IsAuthorized(ctx context.Context, userID string, meetingID int64) (bool, error)
	RequireAuthorized(ctx context.Context, userID string, meetingID int64) error
	Remove(ctx context.Context, meetingID, memberID int64) error
}

// PlaceServicer defines the place and station operations the handlers depend on.
type PlaceServicer interface {
	Propose(ctx context.Context, memberID int64, lat, lng float64) (domain.Place, error)
	Suggest(ctx context.Context, meetingID int64) (domain.Suggestion, error)
	ListStations(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Station], error)
}

// Pinger reports whether a backing store is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies of every handler.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	meetings MeetingServicer
	members  MemberServicer
	places   PlaceServicer
	db       Pinger
	openAPI  []byte
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithPinger makes GET /healthz report the reachability of db.
func WithPinger(db Pinger) Option {
	return func(s *Server) { s.db = db }
}

// WithOpenAPI serves doc at GET /openapi.yaml.
func WithOpenAPI(doc []byte) Option {
	return func(s *Server) { s.openAPI = doc }
}

// NewServer constructs the Server with all its dependencies.
func NewServer(meetings MeetingServicer, members MemberServicer, places PlaceServicer, opts ...Option) *Server {
	s := &Server{meetings: meetings, members: members, places: places}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the API router. Caller identity is read from the request
// context, so wrap the router in middleware.NewAuthenticator.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", "method not allowed"))
	})

	r.Get("/healthz", s.GetHealth)
	if s.openAPI != nil {
		r.Get("/openapi.yaml", s.GetOpenAPI)
	}

	r.Route("/meetings", func(r chi.Router) {
		r.Post("/", s.CreateMeeting)
		r.Get("/by-param/{param}", s.GetMeetingByParam)
		r.Route("/{meetingId}", func(r chi.Router) {
			r.With(middleware.RequireUser).Patch("/", s.UpdateMeeting)
			r.Get("/members", s.ListMembers)
			r.Post("/members", s.JoinMeeting)
			r.With(middleware.RequireUser).Delete("/members/{memberId}", s.RemoveMember)
			r.Get("/nicknames/{nickname}", s.CheckNickname)
			r.With(middleware.RequireUser).Get("/authorization", s.GetAuthorization)
			r.Get("/suggestion", s.GetSuggestion)
		})
	})
	r.Post("/members/{memberId}/places", s.ProposePlace)
	r.With(middleware.RequireUser).Get("/me/meetings", s.ListMyMeetings)
	r.Get("/stations", s.ListStations)

	return r
}
