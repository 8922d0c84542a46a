package child

import (
	"context"

	id "sprout/pkg/domain"
)

// Store is the roster lookup contract. The Postgres implementation reads a
// replicated roster table; the in-memory one backs development and tests.
type Store interface {
	FindByID(ctx context.Context, childID id.ChildID) (*Child, error)
	// ListByWorker returns the worker's caseload.
	ListByWorker(ctx context.Context, workerID id.ActorID) ([]*Child, error)
}
