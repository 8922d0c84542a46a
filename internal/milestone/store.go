package milestone

import (
	"context"

	id "sprout/pkg/domain"
)

// Store is the catalog persistence contract. Implementations return
// sentinel errors; the service translates them into domain errors.
type Store interface {
	Create(ctx context.Context, def *Definition) error
	Update(ctx context.Context, def *Definition) error
	FindByID(ctx context.Context, milestoneID id.MilestoneID) (*Definition, error)
	// List returns all definitions ordered by display order, then name.
	List(ctx context.Context) ([]*Definition, error)
}
