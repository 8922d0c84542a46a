package milestone

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	id "sprout/pkg/domain"
	"sprout/pkg/platform/sentinel"
)

// PostgresStore persists the milestone catalog in PostgreSQL.
// This store is pure I/O; validation belongs in the service.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed catalog store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const definitionColumns = `id, name, description, min_months, max_months, display_order, icon_ref, guidance, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, def *Definition) error {
	guidance, err := marshalGuidance(def.Guidance)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO milestone_definitions (` + definitionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(def.ID), def.Name, def.Description,
		def.MinMonths, def.MaxMonths, def.DisplayOrder,
		def.IconRef, guidance, def.CreatedAt, def.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create milestone definition: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, def *Definition) error {
	guidance, err := marshalGuidance(def.Guidance)
	if err != nil {
		return err
	}
	query := `
		UPDATE milestone_definitions
		SET name = $2, description = $3, min_months = $4, max_months = $5,
		    display_order = $6, icon_ref = $7, guidance = $8, updated_at = $9
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		uuid.UUID(def.ID), def.Name, def.Description,
		def.MinMonths, def.MaxMonths, def.DisplayOrder,
		def.IconRef, guidance, def.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update milestone definition: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update milestone definition rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, milestoneID id.MilestoneID) (*Definition, error) {
	query := `SELECT ` + definitionColumns + ` FROM milestone_definitions WHERE id = $1`
	def, err := scanDefinition(s.db.QueryRowContext(ctx, query, uuid.UUID(milestoneID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find milestone definition: %w", err)
	}
	return def, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*Definition, error) {
	query := `SELECT ` + definitionColumns + ` FROM milestone_definitions ORDER BY display_order, LOWER(name)`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list milestone definitions: %w", err)
	}
	defer rows.Close()

	var defs []*Definition
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan milestone definition: %w", err)
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate milestone definitions: %w", err)
	}
	return defs, nil
}

type definitionRow interface {
	Scan(dest ...any) error
}

func scanDefinition(row definitionRow) (*Definition, error) {
	var def Definition
	var rawID uuid.UUID
	var guidance []byte
	if err := row.Scan(&rawID, &def.Name, &def.Description,
		&def.MinMonths, &def.MaxMonths, &def.DisplayOrder,
		&def.IconRef, &guidance, &def.CreatedAt, &def.UpdatedAt); err != nil {
		return nil, err
	}
	def.ID = id.MilestoneID(rawID)
	if len(guidance) > 0 {
		var g Guidance
		if err := json.Unmarshal(guidance, &g); err != nil {
			return nil, fmt.Errorf("decode guidance: %w", err)
		}
		def.Guidance = &g
	}
	return &def, nil
}

func marshalGuidance(g *Guidance) ([]byte, error) {
	if g == nil {
		return nil, nil
	}
	raw, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("encode guidance: %w", err)
	}
	return raw, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
