package audit

import (
	"context"

	id "sprout/pkg/domain"
)

// Store persists audit events. Appends are fail-closed: callers treat an
// append error as a failure of the audited operation.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByChild(ctx context.Context, childID id.ChildID, limit int) ([]Event, error)
}
