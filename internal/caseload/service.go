package caseload

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"sprout/internal/caseload/metrics"
	"sprout/internal/child"
	"sprout/internal/milestone"
	"sprout/internal/progress"
	"sprout/internal/record"
	id "sprout/pkg/domain"
	dErrors "sprout/pkg/domain-errors"
	"sprout/pkg/platform/sentinel"
	"sprout/pkg/requestcontext"
)

// rollupConcurrency bounds parallel per-child store reads during a caseload
// rollup.
const rollupConcurrency = 8

// Service builds the read-side views. Everything here is computed from the
// catalog, roster, and record stores at request time; nothing is persisted.
type Service struct {
	milestones milestone.Store
	children   child.Store
	records    record.Store
	cache      *Cache
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

func NewService(milestones milestone.Store, children child.Store, records record.Store,
	cache *Cache, m *metrics.Metrics) *Service {
	return &Service{
		milestones: milestones,
		children:   children,
		records:    records,
		cache:      cache,
		metrics:    m,
		tracer:     otel.Tracer("sprout/caseload"),
	}
}

// ChildDetail is the worker-facing view of one child: the roster entry, the
// full progress list, and the rollup.
type ChildDetail struct {
	Child  *child.Child `json:"child"`
	Items  []Item       `json:"items"`
	Rollup Rollup       `json:"rollup"`
}

// Progress returns the status of every catalog milestone for one child.
// Caregivers see only their own children; health workers only their
// caseload.
func (s *Service) Progress(ctx context.Context, childID id.ChildID) ([]Item, error) {
	ch, err := s.authorizedChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	items, _, err := s.computeChild(ctx, ch)
	return items, err
}

// Detail returns the worker-facing child view.
func (s *Service) Detail(ctx context.Context, childID id.ChildID) (*ChildDetail, error) {
	ch, err := s.authorizedChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	items, rollup, err := s.computeChild(ctx, ch)
	if err != nil {
		return nil, err
	}
	return &ChildDetail{Child: ch, Items: items, Rollup: rollup}, nil
}

// CaseloadRollup computes the triage queue for a health worker: one rollup
// per child, sorted by priority precedence and then by name. Recomputed on
// every read; only the short-TTL cache stands between reads.
func (s *Service) CaseloadRollup(ctx context.Context, workerID id.ActorID) ([]Rollup, error) {
	ctx, span := s.tracer.Start(ctx, "caseload.rollup")
	defer span.End()
	start := time.Now()

	actorRole := requestcontext.ActorRole(ctx)
	if actorRole == id.RoleHealthWorker && requestcontext.ActorID(ctx) != workerID {
		return nil, dErrors.New(dErrors.CodeForbidden, "cannot view another worker's caseload")
	}

	children, err := s.children.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to list caseload", err)
	}
	span.SetAttributes(attribute.Int("caseload.children", len(children)))

	now := requestcontext.Now(ctx)
	rollups := make([]Rollup, len(children))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rollupConcurrency)
	var mu sync.Mutex

	for i, ch := range children {
		g.Go(func() error {
			if cached, _ := s.cache.Get(gctx, ch.ID, now); cached != nil {
				s.metrics.IncrementCacheHit()
				mu.Lock()
				rollups[i] = *cached
				mu.Unlock()
				return nil
			}
			s.metrics.IncrementCacheMiss()

			_, rollup, err := s.computeChild(gctx, ch)
			if err != nil {
				return err
			}
			s.cache.Set(gctx, now, rollup)

			mu.Lock()
			rollups[i] = rollup
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(rollups, func(i, j int) bool {
		if priorityRank[rollups[i].Priority] != priorityRank[rollups[j].Priority] {
			return priorityRank[rollups[i].Priority] < priorityRank[rollups[j].Priority]
		}
		return strings.ToLower(rollups[i].DisplayName) < strings.ToLower(rollups[j].DisplayName)
	})

	s.metrics.ObserveRollup(start, len(children))
	return rollups, nil
}

// computeChild derives the progress list and rollup for one child at the
// request-scoped instant.
func (s *Service) computeChild(ctx context.Context, ch *child.Child) ([]Item, Rollup, error) {
	defs, err := s.milestones.List(ctx)
	if err != nil {
		return nil, Rollup{}, dErrors.Wrap(dErrors.CodeInternal, "failed to load catalog", err)
	}
	recs, err := s.records.ListByChild(ctx, ch.ID)
	if err != nil {
		return nil, Rollup{}, dErrors.Wrap(dErrors.CodeInternal, "failed to load records", err)
	}

	age := progress.AgeAt(ch.BirthDate, requestcontext.Now(ctx))
	items := buildItems(defs, recs, age)
	return items, buildRollup(ch.ID, ch.DisplayName, items), nil
}

// authorizedChild loads a child and checks the caller may read it.
func (s *Service) authorizedChild(ctx context.Context, childID id.ChildID) (*child.Child, error) {
	ch, err := s.children.FindByID(ctx, childID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "child not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load child", err)
	}

	actorID := requestcontext.ActorID(ctx)
	switch requestcontext.ActorRole(ctx) {
	case id.RoleCaregiver:
		if ch.CaregiverID != actorID {
			return nil, dErrors.New(dErrors.CodeForbidden, "child belongs to another caregiver")
		}
	case id.RoleHealthWorker:
		if ch.WorkerID != actorID {
			return nil, dErrors.New(dErrors.CodeForbidden, "child is not in your caseload")
		}
	case id.RoleAdmin:
		// Admins may read anything.
	default:
		return nil, dErrors.New(dErrors.CodeForbidden, "unrecognized role")
	}
	return ch, nil
}
