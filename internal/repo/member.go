package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/meetpoint/internal/domain"
)

// MemberRepo defines the persistence operations for meeting members.
// Writes that target a specific member are scoped by meetingID to enforce ownership.
type MemberRepo interface {
	// Create inserts a member. When member.UserID is set, the user is linked to
	// the meeting in the same transaction. A taken nickname in the same meeting
	// surfaces as domain.ErrConflict; an unknown meeting as domain.ErrNotFound.
	Create(ctx context.Context, member domain.Member) (domain.Member, error)

	// GetByID retrieves a member by primary key.
	// Returns domain.ErrNotFound if no member with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Member, error)

	// ListByMeeting returns the members of a meeting ordered by id. Only id,
	// meeting id, nickname and auth are populated.
	ListByMeeting(ctx context.Context, meetingID int64) ([]domain.Member, error)

	// CountByNickname counts members of meetingID using nickname.
	CountByNickname(ctx context.Context, meetingID int64, nickname string) (int64, error)

	// GetByUserAndMeeting returns userID's membership in meetingID, preferring
	// an authorized row when the user holds several.
	// Returns domain.ErrNotFound if the user is not a member.
	GetByUserAndMeeting(ctx context.Context, userID string, meetingID int64) (domain.Member, error)

	// Delete removes a member of meetingID. Deleting a member that does not
	// exist is not an error. The member's places are removed by cascade.
	Delete(ctx context.Context, meetingID, memberID int64) error
}

// pgMemberRepo is the Postgres implementation of MemberRepo.
type pgMemberRepo struct {
	db db
}

// NewMemberRepo constructs a MemberRepo backed by the provided db connection.
func NewMemberRepo(db db) MemberRepo {
	return &pgMemberRepo{db: db}
}

const memberColumns = `id, meeting_id, nickname, user_id, auth, created_at`

// Create inserts the member and, for registered users, the user link.
func (r *pgMemberRepo) Create(ctx context.Context, member domain.Member) (domain.Member, error) {
	var created domain.Member
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		created, err = insertMember(ctx, tx, member)
		if err != nil {
			return err
		}
		if member.UserID != nil {
			return linkUser(ctx, tx, *member.UserID, member.MeetingID)
		}
		return nil
	})
	if err != nil {
		return domain.Member{}, fmt.Errorf("repo.MemberRepo.Create: %w", err)
	}
	return created, nil
}

// GetByID retrieves a member by primary key.
func (r *pgMemberRepo) GetByID(ctx context.Context, id int64) (domain.Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM meeting_members WHERE id = @id`

	m, err := scanMember(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Member{}, fmt.Errorf("repo.MemberRepo.GetByID: %w", mapPgError(err))
	}
	return m, nil
}

// ListByMeeting returns the public view of a meeting's members.
func (r *pgMemberRepo) ListByMeeting(ctx context.Context, meetingID int64) ([]domain.Member, error) {
	const q = `
		SELECT id, meeting_id, nickname, auth
		FROM meeting_members
		WHERE meeting_id = @meeting_id
		ORDER BY id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"meeting_id": meetingID})
	if err != nil {
		return nil, fmt.Errorf("repo.MemberRepo.ListByMeeting: %w", err)
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.MeetingID, &m.Nickname, &m.Auth); err != nil {
			return nil, fmt.Errorf("repo.MemberRepo.ListByMeeting: scan: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.MemberRepo.ListByMeeting: rows: %w", err)
	}
	return members, nil
}

// CountByNickname counts nickname matches within one meeting.
func (r *pgMemberRepo) CountByNickname(ctx context.Context, meetingID int64, nickname string) (int64, error) {
	const q = `
		SELECT count(*)
		FROM meeting_members
		WHERE meeting_id = @meeting_id AND nickname = @nickname`

	var n int64
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"meeting_id": meetingID, "nickname": nickname}).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("repo.MemberRepo.CountByNickname: %w", err)
	}
	return n, nil
}

// GetByUserAndMeeting looks up the membership of a registered user.
func (r *pgMemberRepo) GetByUserAndMeeting(ctx context.Context, userID string, meetingID int64) (domain.Member, error) {
	const q = `
		SELECT ` + memberColumns + `
		FROM meeting_members
		WHERE meeting_id = @meeting_id AND user_id = @user_id
		ORDER BY auth DESC, id
		LIMIT 1`

	m, err := scanMember(r.db.QueryRow(ctx, q, pgx.NamedArgs{"meeting_id": meetingID, "user_id": userID}))
	if err != nil {
		return domain.Member{}, fmt.Errorf("repo.MemberRepo.GetByUserAndMeeting: %w", mapPgError(err))
	}
	return m, nil
}

// Delete removes a member scoped to its meeting. Zero affected rows is success.
func (r *pgMemberRepo) Delete(ctx context.Context, meetingID, memberID int64) error {
	const q = `DELETE FROM meeting_members WHERE id = @id AND meeting_id = @meeting_id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": memberID, "meeting_id": meetingID}); err != nil {
		return fmt.Errorf("repo.MemberRepo.Delete: %w", err)
	}
	return nil
}

// insertMember is shared by MemberRepo.Create and MeetingRepo.Create.
func insertMember(ctx context.Context, q db, m domain.Member) (domain.Member, error) {
	const stmt = `
		INSERT INTO meeting_members (meeting_id, nickname, user_id, auth)
		VALUES (@meeting_id, @nickname, @user_id, @auth)
		RETURNING ` + memberColumns

	created, err := scanMember(q.QueryRow(ctx, stmt, pgx.NamedArgs{
		"meeting_id": m.MeetingID,
		"nickname":   m.Nickname,
		"user_id":    m.UserID, // nil becomes NULL for anonymous members
		"auth":       m.Auth,
	}))
	if err != nil {
		return domain.Member{}, mapPgError(err)
	}
	return created, nil
}

// scanMember maps a single database row into a domain.Member.
// It handles the nullable user_id conversion.
func scanMember(s scanner) (domain.Member, error) {
	var (
		m      domain.Member
		userID pgtype.Text
	)
	if err := s.Scan(&m.ID, &m.MeetingID, &m.Nickname, &userID, &m.Auth, &m.CreatedAt); err != nil {
		return domain.Member{}, err
	}
	if userID.Valid {
		id := userID.String
		m.UserID = &id
	}
	return m, nil
}
