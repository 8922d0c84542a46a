package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	id "sprout/pkg/domain"
	"sprout/pkg/platform/sentinel"
)

// PostgresStore persists achievement records. The achievement_records table
// carries a unique index on (milestone_id, child_id); the database, not this
// code, arbitrates concurrent creates for the same pair.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const recordColumns = `id, milestone_id, child_id, caregiver_id, achieved_date,
	age_months_at_recording, notes, photo_ref,
	verification_status, verified_by, verification_notes, verified_at,
	created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, rec *AchievementRecord) error {
	query := `
		INSERT INTO achievement_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(rec.ID), uuid.UUID(rec.MilestoneID), uuid.UUID(rec.ChildID),
		uuid.UUID(rec.CaregiverID), rec.AchievedDate,
		rec.AgeMonthsAtRecording, rec.Notes, rec.PhotoRef,
		rec.Verification.Status.String(), nullableActor(rec.Verification.VerifiedBy),
		rec.Verification.Notes, rec.Verification.VerifiedAt,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create achievement record: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, recordID id.RecordID) (*AchievementRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM achievement_records WHERE id = $1`
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, uuid.UUID(recordID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find achievement record: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) ListByChild(ctx context.Context, childID id.ChildID) ([]*AchievementRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM achievement_records WHERE child_id = $1 ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(childID))
	if err != nil {
		return nil, fmt.Errorf("list achievement records: %w", err)
	}
	defer rows.Close()

	var recs []*AchievementRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan achievement record: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate achievement records: %w", err)
	}
	return recs, nil
}

// Update applies a caregiver edit. The updated_at guard makes concurrent
// edits lose cleanly instead of silently overwriting each other.
func (s *PostgresStore) Update(ctx context.Context, rec *AchievementRecord, expectedUpdatedAt time.Time) error {
	query := `
		UPDATE achievement_records
		SET achieved_date = $2, age_months_at_recording = $3, notes = $4, photo_ref = $5,
		    verification_status = $6, verified_by = $7, verification_notes = $8, verified_at = $9,
		    updated_at = $10
		WHERE id = $1 AND updated_at = $11
	`
	result, err := s.db.ExecContext(ctx, query,
		uuid.UUID(rec.ID), rec.AchievedDate, rec.AgeMonthsAtRecording, rec.Notes, rec.PhotoRef,
		rec.Verification.Status.String(), nullableActor(rec.Verification.VerifiedBy),
		rec.Verification.Notes, rec.Verification.VerifiedAt,
		rec.UpdatedAt, expectedUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update achievement record: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update achievement record rows affected: %w", err)
	}
	if rows == 0 {
		// Distinguish a vanished record from a concurrent edit.
		if _, findErr := s.FindByID(ctx, rec.ID); errors.Is(findErr, sentinel.ErrNotFound) {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrStaleVersion
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, recordID id.RecordID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM achievement_records WHERE id = $1`, uuid.UUID(recordID))
	if err != nil {
		return fmt.Errorf("delete achievement record: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete achievement record rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// UpdateVerificationIfPending is a conditional update: the WHERE clause on
// verification_status is what keeps two reviewers from both completing the
// same round.
func (s *PostgresStore) UpdateVerificationIfPending(ctx context.Context, recordID id.RecordID, v Verification, updatedAt time.Time) (*AchievementRecord, error) {
	query := `
		UPDATE achievement_records
		SET verification_status = $2, verified_by = $3, verification_notes = $4,
		    verified_at = $5, updated_at = $6
		WHERE id = $1 AND verification_status = 'pending'
		RETURNING ` + recordColumns
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query,
		uuid.UUID(recordID), v.Status.String(), nullableActor(v.VerifiedBy),
		v.Notes, v.VerifiedAt, updatedAt,
	))
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update verification: %w", err)
	}
	// No row matched: either the record is gone or it is no longer pending.
	if _, findErr := s.FindByID(ctx, recordID); errors.Is(findErr, sentinel.ErrNotFound) {
		return nil, sentinel.ErrNotFound
	}
	return nil, sentinel.ErrInvalidState
}

type recordRow interface {
	Scan(dest ...any) error
}

func scanRecord(row recordRow) (*AchievementRecord, error) {
	var (
		rec                                      AchievementRecord
		rawID, milestoneID, childID, caregiverID uuid.UUID
		status                                   string
		verifiedBy                               sql.NullString
	)
	err := row.Scan(&rawID, &milestoneID, &childID, &caregiverID, &rec.AchievedDate,
		&rec.AgeMonthsAtRecording, &rec.Notes, &rec.PhotoRef,
		&status, &verifiedBy, &rec.Verification.Notes, &rec.Verification.VerifiedAt,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.ID = id.RecordID(rawID)
	rec.MilestoneID = id.MilestoneID(milestoneID)
	rec.ChildID = id.ChildID(childID)
	rec.CaregiverID = id.ActorID(caregiverID)
	if rec.Verification.Status, err = id.ParseVerificationStatus(status); err != nil {
		return nil, err
	}
	if verifiedBy.Valid {
		actor, err := id.ParseActorID(verifiedBy.String)
		if err != nil {
			return nil, err
		}
		rec.Verification.VerifiedBy = &actor
	}
	return &rec, nil
}

func nullableActor(actor *id.ActorID) any {
	if actor == nil {
		return nil
	}
	return uuid.UUID(*actor)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
