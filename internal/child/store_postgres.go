package child

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "sprout/pkg/domain"
	"sprout/pkg/platform/sentinel"
)

// PostgresStore reads the replicated roster table. Pure I/O; access rules
// live in services.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed roster store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByID(ctx context.Context, childID id.ChildID) (*Child, error) {
	query := `
		SELECT id, display_name, birth_date, caregiver_id, worker_id
		FROM children
		WHERE id = $1
	`
	c, err := scanChild(s.db.QueryRowContext(ctx, query, uuid.UUID(childID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find child: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListByWorker(ctx context.Context, workerID id.ActorID) ([]*Child, error) {
	query := `
		SELECT id, display_name, birth_date, caregiver_id, worker_id
		FROM children
		WHERE worker_id = $1
		ORDER BY LOWER(display_name)
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(workerID))
	if err != nil {
		return nil, fmt.Errorf("list children by worker: %w", err)
	}
	defer rows.Close()

	var out []*Child
	for rows.Next() {
		c, err := scanChild(rows)
		if err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate children: %w", err)
	}
	return out, nil
}

type childRow interface {
	Scan(dest ...any) error
}

func scanChild(row childRow) (*Child, error) {
	var c Child
	var rawID, caregiverID, workerID uuid.UUID
	var birthDate sql.NullTime
	if err := row.Scan(&rawID, &c.DisplayName, &birthDate, &caregiverID, &workerID); err != nil {
		return nil, err
	}
	c.ID = id.ChildID(rawID)
	c.CaregiverID = id.ActorID(caregiverID)
	c.WorkerID = id.ActorID(workerID)
	if birthDate.Valid {
		c.BirthDate = &birthDate.Time
	}
	return &c, nil
}
