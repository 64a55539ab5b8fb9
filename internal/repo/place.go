package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/meetpoint/internal/domain"
)

// PlaceRepo defines the persistence operations for proposed places.
type PlaceRepo interface {
	// Create inserts a place for place.MemberID and returns the persisted record.
	// Returns domain.ErrNotFound if the member does not exist.
	Create(ctx context.Context, place domain.Place) (domain.Place, error)

	// ListByMeeting returns every place proposed by any member of meetingID,
	// in insertion order.
	ListByMeeting(ctx context.Context, meetingID int64) ([]domain.Place, error)
}

// pgPlaceRepo is the Postgres implementation of PlaceRepo.
type pgPlaceRepo struct {
	db db
}

// NewPlaceRepo constructs a PlaceRepo backed by the provided db connection.
func NewPlaceRepo(db db) PlaceRepo {
	return &pgPlaceRepo{db: db}
}

func (r *pgPlaceRepo) Create(ctx context.Context, place domain.Place) (domain.Place, error) {
	const q = `
		INSERT INTO meeting_places (member_id, latitude, longitude)
		VALUES (@member_id, @latitude, @longitude)
		RETURNING id, member_id, latitude, longitude, created_at`

	var p domain.Place
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"member_id": place.MemberID,
		"latitude":  place.Latitude,
		"longitude": place.Longitude,
	}).Scan(&p.ID, &p.MemberID, &p.Latitude, &p.Longitude, &p.CreatedAt)
	if err != nil {
		return domain.Place{}, fmt.Errorf("repo.PlaceRepo.Create: %w", mapPgError(err))
	}
	return p, nil
}

func (r *pgPlaceRepo) ListByMeeting(ctx context.Context, meetingID int64) ([]domain.Place, error) {
	const q = `
		SELECT p.id, p.member_id, p.latitude, p.longitude, p.created_at
		FROM meeting_places p
		JOIN meeting_members mm ON mm.id = p.member_id
		WHERE mm.meeting_id = @meeting_id
		ORDER BY p.id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"meeting_id": meetingID})
	if err != nil {
		return nil, fmt.Errorf("repo.PlaceRepo.ListByMeeting: %w", err)
	}
	defer rows.Close()

	places := []domain.Place{}
	for rows.Next() {
		var p domain.Place
		if err := rows.Scan(&p.ID, &p.MemberID, &p.Latitude, &p.Longitude, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("repo.PlaceRepo.ListByMeeting: scan: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PlaceRepo.ListByMeeting: rows: %w", err)
	}
	return places, nil
}
