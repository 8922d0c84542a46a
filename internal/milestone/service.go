package milestone

import (
	"context"
	"errors"

	"sprout/internal/audit"
	id "sprout/pkg/domain"
	dErrors "sprout/pkg/domain-errors"
	"sprout/pkg/platform/sentinel"
	"sprout/pkg/requestcontext"
)

// Service exposes admin catalog maintenance and read access for the rest of
// the system. It keeps orchestration out of handlers and domain logic thin.
type Service struct {
	store   Store
	auditor *audit.Publisher
}

func NewService(store Store, auditor *audit.Publisher) *Service {
	return &Service{store: store, auditor: auditor}
}

// Create validates and stores a new definition.
func (s *Service) Create(ctx context.Context, def *Definition) (*Definition, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	def.ID = id.NewMilestoneID()
	def.CreatedAt = now
	def.UpdatedAt = now
	if err := s.store.Create(ctx, def); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "milestone already exists")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to create milestone", err)
	}
	if err := s.audit(ctx, audit.ActionMilestoneCreated, def); err != nil {
		return nil, err
	}
	return def, nil
}

// Update replaces a definition's mutable fields.
func (s *Service) Update(ctx context.Context, milestoneID id.MilestoneID, def *Definition) (*Definition, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, milestoneID)
	if err != nil {
		return nil, err
	}
	def.ID = current.ID
	def.CreatedAt = current.CreatedAt
	def.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, def); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "milestone not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to update milestone", err)
	}
	if err := s.audit(ctx, audit.ActionMilestoneUpdated, def); err != nil {
		return nil, err
	}
	return def, nil
}

// Get resolves one definition.
func (s *Service) Get(ctx context.Context, milestoneID id.MilestoneID) (*Definition, error) {
	def, err := s.store.FindByID(ctx, milestoneID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "milestone not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load milestone", err)
	}
	return def, nil
}

func (s *Service) audit(ctx context.Context, action audit.Action, def *Definition) error {
	err := s.auditor.Publish(ctx, audit.Event{
		Action:      action,
		ActorID:     requestcontext.ActorID(ctx),
		ActorRole:   requestcontext.ActorRole(ctx),
		MilestoneID: def.ID,
		Detail:      def.Name,
	})
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to record audit event", err)
	}
	return nil
}

// List returns the full catalog in display order.
func (s *Service) List(ctx context.Context) ([]*Definition, error) {
	defs, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to list milestones", err)
	}
	return defs, nil
}
