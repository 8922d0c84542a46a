package audit

import (
	"context"
	"database/sql"
	"fmt"

	id "sprout/pkg/domain"
)

// PostgresStore persists audit events in the audit_events table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (
			occurred_at, action, actor_id, actor_role,
			child_id, record_id, milestone_id,
			request_id, client_ip, device, detail
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		event.Timestamp, string(event.Action), event.ActorID.String(), string(event.ActorRole),
		nullableID(event.ChildID.IsNil(), event.ChildID.String()),
		nullableID(event.RecordID.IsNil(), event.RecordID.String()),
		nullableID(event.MilestoneID.IsNil(), event.MilestoneID.String()),
		event.RequestID, event.ClientIP, event.Device, event.Detail,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByChild(ctx context.Context, childID id.ChildID, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT occurred_at, action, actor_id, actor_role,
		       child_id, record_id, milestone_id,
		       request_id, client_ip, device, detail
		FROM audit_events
		WHERE child_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2`,
		childID.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func scanEvent(rows *sql.Rows) (Event, error) {
	var (
		event                         Event
		action, role                  string
		actorID                       string
		childID, recordID, milestoneID sql.NullString
	)
	err := rows.Scan(
		&event.Timestamp, &action, &actorID, &role,
		&childID, &recordID, &milestoneID,
		&event.RequestID, &event.ClientIP, &event.Device, &event.Detail,
	)
	if err != nil {
		return Event{}, fmt.Errorf("scan audit event: %w", err)
	}
	event.Action = Action(action)
	event.ActorRole = id.Role(role)
	if event.ActorID, err = id.ParseActorID(actorID); err != nil {
		return Event{}, fmt.Errorf("scan audit event: %w", err)
	}
	if childID.Valid {
		if event.ChildID, err = id.ParseChildID(childID.String); err != nil {
			return Event{}, fmt.Errorf("scan audit event: %w", err)
		}
	}
	if recordID.Valid {
		if event.RecordID, err = id.ParseRecordID(recordID.String); err != nil {
			return Event{}, fmt.Errorf("scan audit event: %w", err)
		}
	}
	if milestoneID.Valid {
		if event.MilestoneID, err = id.ParseMilestoneID(milestoneID.String); err != nil {
			return Event{}, fmt.Errorf("scan audit event: %w", err)
		}
	}
	return event, nil
}

func nullableID(isNil bool, s string) any {
	if isNil {
		return nil
	}
	return s
}
