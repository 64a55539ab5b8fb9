package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/meetpoint/internal/domain"
)

// StationRepo is the read-only station catalog. Stations are seeded by
// migration and curated outside the application; there is no write path.
type StationRepo interface {
	// List returns the full catalog ordered by id. The set is small enough
	// (one city's stations) to load per request.
	List(ctx context.Context) ([]domain.Station, error)

	// ListPaged returns one page of stations ordered by name, and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Station, int64, error)
}

// pgStationRepo is the Postgres implementation of StationRepo.
type pgStationRepo struct {
	db db
}

// NewStationRepo constructs a StationRepo backed by the provided db connection.
func NewStationRepo(db db) StationRepo {
	return &pgStationRepo{db: db}
}

const stationColumns = `id, name, line, lat, lng, created_at`

func (r *pgStationRepo) List(ctx context.Context) ([]domain.Station, error) {
	const q = `SELECT ` + stationColumns + ` FROM stations ORDER BY id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.StationRepo.List: %w", err)
	}
	stations, err := collectStations(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.StationRepo.List: %w", err)
	}
	return stations, nil
}

func (r *pgStationRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Station, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM stations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.StationRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT ` + stationColumns + `
		FROM stations
		ORDER BY name, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.StationRepo.ListPaged: %w", err)
	}
	stations, err := collectStations(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.StationRepo.ListPaged: %w", err)
	}
	return stations, total, nil
}

// collectStations drains rows into a non-nil slice and closes them.
func collectStations(rows pgx.Rows) ([]domain.Station, error) {
	defer rows.Close()

	stations := []domain.Station{}
	for rows.Next() {
		var s domain.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Line, &s.Latitude, &s.Longitude, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return stations, nil
}
