package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sprout/internal/milestone"
	"sprout/internal/platform/middleware"
	id "sprout/pkg/domain"
	dErrors "sprout/pkg/domain-errors"
	"sprout/pkg/platform/httputil"
)

// CatalogService defines the milestone catalog operations the transport needs.
type CatalogService interface {
	Create(ctx context.Context, def *milestone.Definition) (*milestone.Definition, error)
	Update(ctx context.Context, milestoneID id.MilestoneID, def *milestone.Definition) (*milestone.Definition, error)
	Get(ctx context.Context, milestoneID id.MilestoneID) (*milestone.Definition, error)
	List(ctx context.Context) ([]*milestone.Definition, error)
}

// CatalogHandler exposes the milestone catalog. Reads are open to every
// authenticated role; writes are admin-only.
type CatalogHandler struct {
	logger  *slog.Logger
	catalog CatalogService
}

func NewCatalogHandler(catalog CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{logger: logger, catalog: catalog}
}

func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/catalog/milestones", h.handleList)
	r.Get("/catalog/milestones/{milestoneID}", h.handleGet)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(h.logger, id.RoleAdmin))
		r.Post("/catalog/milestones", h.handleCreate)
		r.Put("/catalog/milestones/{milestoneID}", h.handleUpdate)
	})
}

func (h *CatalogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	defs, err := h.catalog.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"milestones": defs})
}

func (h *CatalogHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	milestoneID, err := id.ParseMilestoneID(chi.URLParam(r, "milestoneID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid milestone id"))
		return
	}

	def, err := h.catalog.Get(r.Context(), milestoneID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, def)
}

func (h *CatalogHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req milestoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	def, err := h.catalog.Create(ctx, req.toDefinition())
	if err != nil {
		h.logger.WarnContext(ctx, "create milestone failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, def)
}

func (h *CatalogHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	milestoneID, err := id.ParseMilestoneID(chi.URLParam(r, "milestoneID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid milestone id"))
		return
	}

	var req milestoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	def, err := h.catalog.Update(ctx, milestoneID, req.toDefinition())
	if err != nil {
		h.logger.WarnContext(ctx, "update milestone failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, def)
}
