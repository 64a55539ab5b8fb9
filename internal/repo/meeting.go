package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/meetpoint/internal/domain"
)

// MeetingRepo defines the persistence operations for Meetings.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock or the in-memory store.
type MeetingRepo interface {
	// Create persists the meeting, the creator's member row (auth=true), the
	// schedule and, when CreatorUserID is set, the user link as one transaction.
	// Either all rows commit or none do. A param collision surfaces as
	// domain.ErrConflict.
	Create(ctx context.Context, m domain.NewMeeting) (domain.MeetingRecord, error)

	// GetByID retrieves a meeting by primary key.
	// Returns domain.ErrNotFound if no meeting with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Meeting, error)

	// GetByParam retrieves a meeting and its schedule by the external param.
	// Returns domain.ErrNotFound if no meeting uses that param.
	GetByParam(ctx context.Context, param string) (domain.MeetingDetail, error)

	// ParamExists reports whether any meeting already uses param.
	ParamExists(ctx context.Context, param string) (bool, error)

	// Update applies a partial title/description update to the meeting with the
	// given id. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, id int64, patch domain.MeetingPatch) (domain.Meeting, error)

	// ListByUser returns one page of the meetings linked to userID, most recently
	// linked first, and the total number of linked meetings.
	ListByUser(ctx context.Context, userID string, p domain.PaginationParams) ([]domain.UserMeeting, int64, error)
}

// pgMeetingRepo is the Postgres implementation of MeetingRepo.
type pgMeetingRepo struct {
	db db
}

// NewMeetingRepo constructs a MeetingRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewMeetingRepo(db db) MeetingRepo {
	return &pgMeetingRepo{db: db}
}

const meetingColumns = `id, param, title, description, place_enabled, created_at`

// Create inserts all rows of a new meeting inside one transaction.
func (r *pgMeetingRepo) Create(ctx context.Context, m domain.NewMeeting) (domain.MeetingRecord, error) {
	var rec domain.MeetingRecord

	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		const insertMeeting = `
			INSERT INTO meetings (param, title, description, place_enabled)
			VALUES (@param, @title, @description, @place_enabled)
			RETURNING ` + meetingColumns

		meeting, err := scanMeeting(tx.QueryRow(ctx, insertMeeting, pgx.NamedArgs{
			"param":         m.Param,
			"title":         m.Title,
			"description":   m.Description,
			"place_enabled": m.PlaceEnabled,
		}))
		if err != nil {
			return fmt.Errorf("insert meeting: %w", mapPgError(err))
		}
		rec.Meeting = meeting

		creator, err := insertMember(ctx, tx, domain.Member{
			MeetingID: meeting.ID,
			Nickname:  m.CreatorNickname,
			UserID:    m.CreatorUserID,
			Auth:      true,
		})
		if err != nil {
			return fmt.Errorf("insert creator: %w", err)
		}
		rec.Creator = creator

		const insertSchedule = `
			INSERT INTO meeting_schedules (meeting_id, start_date, end_date)
			VALUES (@meeting_id, @start_date, @end_date)
			RETURNING id, meeting_id, start_date, end_date`

		err = tx.QueryRow(ctx, insertSchedule, pgx.NamedArgs{
			"meeting_id": meeting.ID,
			"start_date": m.StartDate,
			"end_date":   m.EndDate,
		}).Scan(&rec.Schedule.ID, &rec.Schedule.MeetingID, &rec.Schedule.StartDate, &rec.Schedule.EndDate)
		if err != nil {
			return fmt.Errorf("insert schedule: %w", mapPgError(err))
		}

		if m.CreatorUserID != nil {
			if err := linkUser(ctx, tx, *m.CreatorUserID, meeting.ID); err != nil {
				return fmt.Errorf("link user: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.MeetingRecord{}, fmt.Errorf("repo.MeetingRepo.Create: %w", err)
	}
	return rec, nil
}

// GetByID retrieves a meeting by primary key.
func (r *pgMeetingRepo) GetByID(ctx context.Context, id int64) (domain.Meeting, error) {
	const q = `SELECT ` + meetingColumns + ` FROM meetings WHERE id = @id`

	m, err := scanMeeting(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Meeting{}, fmt.Errorf("repo.MeetingRepo.GetByID: %w", mapPgError(err))
	}
	return m, nil
}

// GetByParam retrieves a meeting and its optional schedule by param.
func (r *pgMeetingRepo) GetByParam(ctx context.Context, param string) (domain.MeetingDetail, error) {
	const q = `
		SELECT m.id, m.param, m.title, m.description, m.place_enabled, m.created_at,
		       s.id, s.start_date, s.end_date
		FROM meetings m
		LEFT JOIN meeting_schedules s ON s.meeting_id = m.id
		WHERE m.param = @param`

	var (
		d          domain.MeetingDetail
		scheduleID pgtype.Int8
		start, end pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"param": param}).Scan(
		&d.Meeting.ID, &d.Meeting.Param, &d.Meeting.Title, &d.Meeting.Description,
		&d.Meeting.PlaceEnabled, &d.Meeting.CreatedAt,
		&scheduleID, &start, &end,
	)
	if err != nil {
		return domain.MeetingDetail{}, fmt.Errorf("repo.MeetingRepo.GetByParam: %w", mapPgError(err))
	}
	if scheduleID.Valid {
		d.Schedule = &domain.Schedule{
			ID:        scheduleID.Int64,
			MeetingID: d.Meeting.ID,
			StartDate: start.Time,
			EndDate:   end.Time,
		}
	}
	return d, nil
}

// ParamExists reports whether param is already taken.
func (r *pgMeetingRepo) ParamExists(ctx context.Context, param string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM meetings WHERE param = @param)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"param": param}).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.MeetingRepo.ParamExists: %w", err)
	}
	return exists, nil
}

// Update overwrites the non-nil patch fields of the meeting identified by id.
func (r *pgMeetingRepo) Update(ctx context.Context, id int64, patch domain.MeetingPatch) (domain.Meeting, error) {
	const q = `
		UPDATE meetings
		SET title       = COALESCE(@title, title),
		    description = COALESCE(@description, description)
		WHERE id = @id
		RETURNING ` + meetingColumns

	m, err := scanMeeting(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":          id,
		"title":       patch.Title,       // nil becomes NULL, keeping the column
		"description": patch.Description, // nil becomes NULL, keeping the column
	}))
	if err != nil {
		return domain.Meeting{}, fmt.Errorf("repo.MeetingRepo.Update: %w", mapPgError(err))
	}
	return m, nil
}

// ListByUser joins the user's links to their meetings. Auth is true when any of
// the user's member rows in that meeting carries the auth flag.
func (r *pgMeetingRepo) ListByUser(ctx context.Context, userID string, p domain.PaginationParams) ([]domain.UserMeeting, int64, error) {
	const countQ = `SELECT count(*) FROM users_to_meetings WHERE user_id = @user_id`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"user_id": userID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.MeetingRepo.ListByUser: count: %w", err)
	}

	const q = `
		SELECT m.id, m.title, m.param, m.description, m.place_enabled, um.created_at,
		       EXISTS (
		           SELECT 1 FROM meeting_members mm
		           WHERE mm.meeting_id = m.id AND mm.user_id = um.user_id AND mm.auth
		       ) AS auth
		FROM users_to_meetings um
		JOIN meetings m ON m.id = um.meeting_id
		WHERE um.user_id = @user_id
		ORDER BY um.created_at DESC, um.id DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"user_id": userID,
		"limit":   p.Limit,
		"offset":  p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.MeetingRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	list := []domain.UserMeeting{}
	for rows.Next() {
		var um domain.UserMeeting
		if err := rows.Scan(&um.MeetingID, &um.Title, &um.Param, &um.Description,
			&um.PlaceEnabled, &um.LinkedAt, &um.Auth); err != nil {
			return nil, 0, fmt.Errorf("repo.MeetingRepo.ListByUser: scan: %w", err)
		}
		list = append(list, um)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.MeetingRepo.ListByUser: rows: %w", err)
	}
	return list, total, nil
}

// linkUser records that userID belongs to meetingID. Linking twice is a no-op.
func linkUser(ctx context.Context, q db, userID string, meetingID int64) error {
	const stmt = `
		INSERT INTO users_to_meetings (user_id, meeting_id)
		VALUES (@user_id, @meeting_id)
		ON CONFLICT (user_id, meeting_id) DO NOTHING`

	if _, err := q.Exec(ctx, stmt, pgx.NamedArgs{"user_id": userID, "meeting_id": meetingID}); err != nil {
		return mapPgError(err)
	}
	return nil
}

// scanMeeting maps a single database row into a domain.Meeting.
func scanMeeting(s scanner) (domain.Meeting, error) {
	var m domain.Meeting
	err := s.Scan(&m.ID, &m.Param, &m.Title, &m.Description, &m.PlaceEnabled, &m.CreatedAt)
	return m, err
}
