// Package memrepo is an in-memory implementation of the repo interfaces.
// It honours the same contracts as the Postgres repos (uniqueness, scoping,
// atomic meeting creation, cascades) and lets tests inject faults at named
// points. It is intended for tests and local experiments only.
package memrepo

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pkordes/meetpoint/internal/domain"
	"github.com/pkordes/meetpoint/internal/repo"
)

// Op names a point where a fault can be injected with FailOn.
type Op string

const (
	OpInsertMeeting  Op = "meetings.create.meeting"
	OpInsertCreator  Op = "meetings.create.creator"
	OpInsertSchedule Op = "meetings.create.schedule"
	OpLinkUser       Op = "meetings.create.link"
	OpParamExists    Op = "meetings.param_exists"
	OpListPlaces     Op = "places.list"
	OpListStations   Op = "stations.list"
	OpDeleteMember   Op = "members.delete"
)

type link struct {
	id        int64
	userID    string
	meetingID int64
	createdAt time.Time
}

// Store holds all rows. The zero value is not usable; call New.
type Store struct {
	mu     sync.Mutex
	now    func() time.Time
	nextID int64

	meetings  map[int64]domain.Meeting
	params    map[string]int64
	members   map[int64]domain.Member
	schedules map[int64]domain.Schedule // keyed by meeting id
	places    []domain.Place
	links     []link
	stations  []domain.Station

	faults map[Op]error
}

// New returns an empty store whose timestamps come from now (time.Now if nil).
func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:       now,
		meetings:  map[int64]domain.Meeting{},
		params:    map[string]int64{},
		members:   map[int64]domain.Member{},
		schedules: map[int64]domain.Schedule{},
		faults:    map[Op]error{},
	}
}

// FailOn makes the next and every later execution of op return err.
// Pass a nil err to clear the fault.
func (s *Store) FailOn(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

// SeedStations appends stations to the catalog, assigning ids.
func (s *Store) SeedStations(stations ...domain.Station) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range stations {
		st.ID = s.id()
		st.CreatedAt = s.now()
		s.stations = append(s.stations, st)
	}
}

// Counts reports the number of rows per table.
type Counts struct {
	Meetings, Members, Schedules, Places, Links int
}

// Counts returns a snapshot of the row counts.
func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counts{
		Meetings:  len(s.meetings),
		Members:   len(s.members),
		Schedules: len(s.schedules),
		Places:    len(s.places),
		Links:     len(s.links),
	}
}

// Meetings returns the store as a repo.MeetingRepo.
func (s *Store) Meetings() repo.MeetingRepo { return meetingRepo{s} }

// Members returns the store as a repo.MemberRepo.
func (s *Store) Members() repo.MemberRepo { return memberRepo{s} }

// Places returns the store as a repo.PlaceRepo.
func (s *Store) Places() repo.PlaceRepo { return placeRepo{s} }

// Stations returns the store as a repo.StationRepo.
func (s *Store) Stations() repo.StationRepo { return stationRepo{s} }

// id returns the next row id. Callers hold mu.
func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// fault returns the injected error for op, if any. Callers hold mu.
func (s *Store) fault(op Op) error {
	if err, ok := s.faults[op]; ok {
		return fmt.Errorf("memrepo %s: %w", op, err)
	}
	return nil
}

// nicknameTaken reports whether nickname is used in meetingID. Callers hold mu.
func (s *Store) nicknameTaken(meetingID int64, nickname string) bool {
	for _, m := range s.members {
		if m.MeetingID == meetingID && m.Nickname == nickname {
			return true
		}
	}
	return false
}

// linkUser mirrors ON CONFLICT DO NOTHING. It returns an undo func that is
// nil when nothing was inserted. Callers hold mu.
func (s *Store) linkUser(userID string, meetingID int64) func() {
	for _, l := range s.links {
		if l.userID == userID && l.meetingID == meetingID {
			return nil
		}
	}
	s.links = append(s.links, link{id: s.id(), userID: userID, meetingID: meetingID, createdAt: s.now()})
	n := len(s.links)
	return func() { s.links = slices.Delete(s.links, n-1, n) }
}

// ---- meetings --------------------------------------------------------------

type meetingRepo struct{ s *Store }

// Create applies each write in turn and undoes all of them if any step fails,
// so a fault injected at any step leaves no trace of the meeting.
func (r meetingRepo) Create(ctx context.Context, m domain.NewMeeting) (rec domain.MeetingRecord, err error) {
	if err := ctx.Err(); err != nil {
		return domain.MeetingRecord{}, fmt.Errorf("memrepo.MeetingRepo.Create: %w", err)
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	var undo []func()
	defer func() {
		if err != nil {
			for i := len(undo) - 1; i >= 0; i-- {
				undo[i]()
			}
			rec = domain.MeetingRecord{}
			err = fmt.Errorf("memrepo.MeetingRepo.Create: %w", err)
		}
	}()

	if _, taken := s.params[m.Param]; taken {
		return rec, fmt.Errorf("%w: meetings_param_key", domain.ErrConflict)
	}
	meeting := domain.Meeting{
		ID:           s.id(),
		Param:        m.Param,
		Title:        m.Title,
		Description:  m.Description,
		PlaceEnabled: m.PlaceEnabled,
		CreatedAt:    s.now(),
	}
	s.meetings[meeting.ID] = meeting
	s.params[meeting.Param] = meeting.ID
	undo = append(undo, func() {
		delete(s.meetings, meeting.ID)
		delete(s.params, meeting.Param)
	})
	if err := s.fault(OpInsertMeeting); err != nil {
		return rec, err
	}
	rec.Meeting = meeting

	creator := domain.Member{
		ID:        s.id(),
		MeetingID: meeting.ID,
		Nickname:  m.CreatorNickname,
		UserID:    m.CreatorUserID,
		Auth:      true,
		CreatedAt: s.now(),
	}
	s.members[creator.ID] = creator
	undo = append(undo, func() { delete(s.members, creator.ID) })
	if err := s.fault(OpInsertCreator); err != nil {
		return rec, err
	}
	rec.Creator = creator

	if m.EndDate.Before(m.StartDate) {
		return rec, fmt.Errorf("%w: meeting_schedules_order_check", domain.ErrValidation)
	}
	schedule := domain.Schedule{ID: s.id(), MeetingID: meeting.ID, StartDate: m.StartDate, EndDate: m.EndDate}
	s.schedules[meeting.ID] = schedule
	undo = append(undo, func() { delete(s.schedules, meeting.ID) })
	if err := s.fault(OpInsertSchedule); err != nil {
		return rec, err
	}
	rec.Schedule = schedule

	if m.CreatorUserID != nil {
		if u := s.linkUser(*m.CreatorUserID, meeting.ID); u != nil {
			undo = append(undo, u)
		}
		if err := s.fault(OpLinkUser); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

func (r meetingRepo) GetByID(ctx context.Context, id int64) (domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return domain.Meeting{}, fmt.Errorf("memrepo.MeetingRepo.GetByID: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.meetings[id]
	if !ok {
		return domain.Meeting{}, fmt.Errorf("memrepo.MeetingRepo.GetByID: %w", domain.ErrNotFound)
	}
	return m, nil
}

func (r meetingRepo) GetByParam(ctx context.Context, param string) (domain.MeetingDetail, error) {
	if err := ctx.Err(); err != nil {
		return domain.MeetingDetail{}, fmt.Errorf("memrepo.MeetingRepo.GetByParam: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, ok := r.s.params[param]
	if !ok {
		return domain.MeetingDetail{}, fmt.Errorf("memrepo.MeetingRepo.GetByParam: %w", domain.ErrNotFound)
	}
	d := domain.MeetingDetail{Meeting: r.s.meetings[id]}
	if sch, ok := r.s.schedules[id]; ok {
		d.Schedule = &sch
	}
	return d, nil
}

func (r meetingRepo) ParamExists(ctx context.Context, param string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("memrepo.MeetingRepo.ParamExists: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault(OpParamExists); err != nil {
		return false, err
	}
	_, ok := r.s.params[param]
	return ok, nil
}

func (r meetingRepo) Update(ctx context.Context, id int64, patch domain.MeetingPatch) (domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return domain.Meeting{}, fmt.Errorf("memrepo.MeetingRepo.Update: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.meetings[id]
	if !ok {
		return domain.Meeting{}, fmt.Errorf("memrepo.MeetingRepo.Update: %w", domain.ErrNotFound)
	}
	if patch.Title != nil {
		m.Title = *patch.Title
	}
	if patch.Description != nil {
		m.Description = *patch.Description
	}
	r.s.meetings[id] = m
	return m, nil
}

func (r meetingRepo) ListByUser(ctx context.Context, userID string, p domain.PaginationParams) ([]domain.UserMeeting, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("memrepo.MeetingRepo.ListByUser: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var linked []link
	for _, l := range r.s.links {
		if l.userID == userID {
			linked = append(linked, l)
		}
	}
	slices.SortStableFunc(linked, func(a, b link) int {
		if c := b.createdAt.Compare(a.createdAt); c != 0 {
			return c
		}
		return cmp.Compare(b.id, a.id)
	})

	list := []domain.UserMeeting{}
	for i := p.Offset(); i < len(linked) && len(list) < p.Limit; i++ {
		l := linked[i]
		m := r.s.meetings[l.meetingID]
		auth := false
		for _, mem := range r.s.members {
			if mem.MeetingID == m.ID && mem.UserID != nil && *mem.UserID == userID && mem.Auth {
				auth = true
				break
			}
		}
		list = append(list, domain.UserMeeting{
			MeetingID:    m.ID,
			Title:        m.Title,
			Param:        m.Param,
			Description:  m.Description,
			PlaceEnabled: m.PlaceEnabled,
			LinkedAt:     l.createdAt,
			Auth:         auth,
		})
	}
	return list, int64(len(linked)), nil
}

// ---- members ---------------------------------------------------------------

type memberRepo struct{ s *Store }

func (r memberRepo) Create(ctx context.Context, member domain.Member) (domain.Member, error) {
	if err := ctx.Err(); err != nil {
		return domain.Member{}, fmt.Errorf("memrepo.MemberRepo.Create: %w", err)
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meetings[member.MeetingID]; !ok {
		return domain.Member{}, fmt.Errorf("memrepo.MemberRepo.Create: %w", domain.ErrNotFound)
	}
	if s.nicknameTaken(member.MeetingID, member.Nickname) {
		return domain.Member{}, fmt.Errorf("memrepo.MemberRepo.Create: %w: meeting_members_meeting_nickname_key", domain.ErrConflict)
	}
	member.ID = s.id()
	member.CreatedAt = s.now()
	s.members[member.ID] = member
	if member.UserID != nil {
		s.linkUser(*member.UserID, member.MeetingID)
	}
	return member, nil
}

func (r memberRepo) GetByID(ctx context.Context, id int64) (domain.Member, error) {
	if err := ctx.Err(); err != nil {
		return domain.Member{}, fmt.Errorf("memrepo.MemberRepo.GetByID: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[id]
	if !ok {
		return domain.Member{}, fmt.Errorf("memrepo.MemberRepo.GetByID: %w", domain.ErrNotFound)
	}
	return m, nil
}

func (r memberRepo) ListByMeeting(ctx context.Context, meetingID int64) ([]domain.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("memrepo.MemberRepo.ListByMeeting: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	members := []domain.Member{}
	for _, m := range r.s.members {
		if m.MeetingID == meetingID {
			members = append(members, domain.Member{ID: m.ID, MeetingID: m.MeetingID, Nickname: m.Nickname, Auth: m.Auth})
		}
	}
	slices.SortFunc(members, func(a, b domain.Member) int { return cmp.Compare(a.ID, b.ID) })
	return members, nil
}

func (r memberRepo) CountByNickname(ctx context.Context, meetingID int64, nickname string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("memrepo.MemberRepo.CountByNickname: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, m := range r.s.members {
		if m.MeetingID == meetingID && m.Nickname == nickname {
			n++
		}
	}
	return n, nil
}

func (r memberRepo) GetByUserAndMeeting(ctx context.Context, userID string, meetingID int64) (domain.Member, error) {
	if err := ctx.Err(); err != nil {
		return domain.Member{}, fmt.Errorf("memrepo.MemberRepo.GetByUserAndMeeting: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var (
		found domain.Member
		ok    bool
	)
	for _, m := range r.s.members {
		if m.MeetingID != meetingID || m.UserID == nil || *m.UserID != userID {
			continue
		}
		// Prefer an authorized row, then the lowest id.
		if !ok || (m.Auth && !found.Auth) || (m.Auth == found.Auth && m.ID < found.ID) {
			found, ok = m, true
		}
	}
	if !ok {
		return domain.Member{}, fmt.Errorf("memrepo.MemberRepo.GetByUserAndMeeting: %w", domain.ErrNotFound)
	}
	return found, nil
}

func (r memberRepo) Delete(ctx context.Context, meetingID, memberID int64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("memrepo.MemberRepo.Delete: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault(OpDeleteMember); err != nil {
		return err
	}
	m, ok := r.s.members[memberID]
	if !ok || m.MeetingID != meetingID {
		return nil
	}
	delete(r.s.members, memberID)
	r.s.places = slices.DeleteFunc(r.s.places, func(p domain.Place) bool { return p.MemberID == memberID })
	return nil
}

// ---- places ----------------------------------------------------------------

type placeRepo struct{ s *Store }

func (r placeRepo) Create(ctx context.Context, place domain.Place) (domain.Place, error) {
	if err := ctx.Err(); err != nil {
		return domain.Place{}, fmt.Errorf("memrepo.PlaceRepo.Create: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.members[place.MemberID]; !ok {
		return domain.Place{}, fmt.Errorf("memrepo.PlaceRepo.Create: %w", domain.ErrNotFound)
	}
	place.ID = r.s.id()
	place.CreatedAt = r.s.now()
	r.s.places = append(r.s.places, place)
	return place, nil
}

func (r placeRepo) ListByMeeting(ctx context.Context, meetingID int64) ([]domain.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("memrepo.PlaceRepo.ListByMeeting: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault(OpListPlaces); err != nil {
		return nil, err
	}
	places := []domain.Place{}
	for _, p := range r.s.places {
		if m, ok := r.s.members[p.MemberID]; ok && m.MeetingID == meetingID {
			places = append(places, p)
		}
	}
	return places, nil
}

// ---- stations --------------------------------------------------------------

type stationRepo struct{ s *Store }

func (r stationRepo) List(ctx context.Context) ([]domain.Station, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("memrepo.StationRepo.List: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault(OpListStations); err != nil {
		return nil, err
	}
	return slices.Clone(r.s.stations), nil
}

func (r stationRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Station, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("memrepo.StationRepo.ListPaged: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sorted := slices.Clone(r.s.stations)
	slices.SortStableFunc(sorted, func(a, b domain.Station) int { return strings.Compare(a.Name, b.Name) })

	page := []domain.Station{}
	for i := p.Offset(); i < len(sorted) && len(page) < p.Limit; i++ {
		page = append(page, sorted[i])
	}
	return page, int64(len(sorted)), nil
}

// compile-time checks
var (
	_ repo.MeetingRepo = meetingRepo{}
	_ repo.MemberRepo  = memberRepo{}
	_ repo.PlaceRepo   = placeRepo{}
	_ repo.StationRepo = stationRepo{}
)
