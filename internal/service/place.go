package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkordes/meetpoint/internal/domain"
	"github.com/pkordes/meetpoint/internal/geo"
	"github.com/pkordes/meetpoint/internal/repo"
)

// DefaultSuggestionLimit is how many stations a suggestion carries.
const DefaultSuggestionLimit = 5

// PlaceService records proposed places and turns them into a suggested
// convening point: the centroid of all proposals and the nearest stations to it.
type PlaceService struct {
	members  repo.MemberRepo
	places   repo.PlaceRepo
	stations repo.StationRepo
	limit    int
	log      *slog.Logger
}

// NewPlaceService constructs a PlaceService. limit < 1 falls back to DefaultSuggestionLimit.
func NewPlaceService(members repo.MemberRepo, places repo.PlaceRepo, stations repo.StationRepo, limit int, logger *slog.Logger) *PlaceService {
	if limit < 1 {
		limit = DefaultSuggestionLimit
	}
	return &PlaceService{
		members:  members,
		places:   places,
		stations: stations,
		limit:    limit,
		log:      defaultLogger(logger),
	}
}

// Propose records a place proposed by memberID.
// Returns domain.ErrValidation for out-of-range coordinates and
// domain.ErrNotFound if the member does not exist.
func (s *PlaceService) Propose(ctx context.Context, memberID int64, lat, lng float64) (domain.Place, error) {
	if err := validateCoordinate(lat, lng); err != nil {
		return domain.Place{}, err
	}
	if _, err := s.members.GetByID(ctx, memberID); err != nil {
		err = fmt.Errorf("service.PlaceService.Propose: %w", err)
		logFailure(ctx, s.log, "place", "propose", err, "member_id", memberID)
		return domain.Place{}, err
	}

	place, err := s.places.Create(ctx, domain.Place{MemberID: memberID, Latitude: lat, Longitude: lng})
	if err != nil {
		err = fmt.Errorf("service.PlaceService.Propose: %w", err)
		logFailure(ctx, s.log, "place", "propose", err, "member_id", memberID)
		return domain.Place{}, err
	}
	return place, nil
}

// Suggest computes the centroid of every place proposed in meetingID and the
// stations nearest to it, nearest first, at most limit of them.
// A meeting without proposals yields an empty suggestion and no error.
func (s *PlaceService) Suggest(ctx context.Context, meetingID int64) (domain.Suggestion, error) {
	places, err := s.places.ListByMeeting(ctx, meetingID)
	if err != nil {
		err = fmt.Errorf("service.PlaceService.Suggest: %w", err)
		logFailure(ctx, s.log, "place", "suggest", err, "meeting_id", meetingID)
		return domain.Suggestion{}, err
	}
	if len(places) == 0 {
		return domain.Suggestion{Stations: []domain.RankedStation{}}, nil
	}

	points := make([]geo.Point, len(places))
	for i, p := range places {
		points[i] = geo.Point{Lat: p.Latitude, Lng: p.Longitude}
	}
	center, err := geo.Centroid(points)
	if err != nil {
		return domain.Suggestion{}, fmt.Errorf("service.PlaceService.Suggest: %w", err)
	}

	stations, err := s.stations.List(ctx)
	if err != nil {
		err = fmt.Errorf("service.PlaceService.Suggest: %w", err)
		logFailure(ctx, s.log, "place", "suggest", err, "meeting_id", meetingID)
		return domain.Suggestion{}, err
	}

	nearest := geo.Nearest(center, stations, stationPoint, s.limit)
	ranked := make([]domain.RankedStation, len(nearest))
	for i, n := range nearest {
		ranked[i] = domain.RankedStation{Station: n.Item, DistanceMeters: n.Distance}
	}
	return domain.Suggestion{
		Center:   &domain.Coordinate{Latitude: center.Lat, Longitude: center.Lng},
		Stations: ranked,
	}, nil
}

// ListStations returns one page of the station catalog ordered by name.
func (s *PlaceService) ListStations(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Station], error) {
	items, total, err := s.stations.ListPaged(ctx, p)
	if err != nil {
		err = fmt.Errorf("service.PlaceService.ListStations: %w", err)
		logFailure(ctx, s.log, "place", "list_stations", err)
		return domain.Page[domain.Station]{}, err
	}
	if items == nil {
		items = []domain.Station{}
	}
	return domain.Page[domain.Station]{Items: items, Total: total, Params: p}, nil
}

func stationPoint(s domain.Station) geo.Point {
	return geo.Point{Lat: s.Latitude, Lng: s.Longitude}
}
