package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sprout/internal/caseload"
	"sprout/internal/platform/middleware"
	id "sprout/pkg/domain"
	dErrors "sprout/pkg/domain-errors"
	"sprout/pkg/platform/httputil"
	"sprout/pkg/requestcontext"
)

// CaseloadService defines the read-side views the transport needs.
type CaseloadService interface {
	Progress(ctx context.Context, childID id.ChildID) ([]caseload.Item, error)
	Detail(ctx context.Context, childID id.ChildID) (*caseload.ChildDetail, error)
	CaseloadRollup(ctx context.Context, workerID id.ActorID) ([]caseload.Rollup, error)
}

// CaseloadHandler exposes progress and triage-queue endpoints.
type CaseloadHandler struct {
	logger   *slog.Logger
	caseload CaseloadService
}

func NewCaseloadHandler(cs CaseloadService, logger *slog.Logger) *CaseloadHandler {
	return &CaseloadHandler{logger: logger, caseload: cs}
}

// Register mounts the read-side routes. Progress is shared by all roles, the
// queue and child detail are worker and admin views.
func (h *CaseloadHandler) Register(r chi.Router) {
	r.Get("/children/{childID}/progress", h.handleProgress)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(h.logger, id.RoleHealthWorker, id.RoleAdmin))
		r.Get("/children/{childID}/detail", h.handleDetail)
		r.Get("/caseload", h.handleCaseload)
	})
}

func (h *CaseloadHandler) handleProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	childID, err := id.ParseChildID(chi.URLParam(r, "childID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid child id"))
		return
	}

	items, err := h.caseload.Progress(ctx, childID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *CaseloadHandler) handleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	childID, err := id.ParseChildID(chi.URLParam(r, "childID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid child id"))
		return
	}

	detail, err := h.caseload.Detail(ctx, childID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, detail)
}

// handleCaseload returns the triage queue. Workers get their own caseload;
// admins may pass ?worker_id= to inspect any.
func (h *CaseloadHandler) handleCaseload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	workerID := requestcontext.ActorID(ctx)
	if raw := r.URL.Query().Get("worker_id"); raw != "" {
		parsed, err := id.ParseActorID(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid worker_id"))
			return
		}
		workerID = parsed
	}

	rollups, err := h.caseload.CaseloadRollup(ctx, workerID)
	if err != nil {
		h.logger.WarnContext(ctx, "caseload rollup failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"caseload": rollups})
}
