package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sprout/internal/platform/middleware"
	"sprout/internal/record"
	id "sprout/pkg/domain"
	dErrors "sprout/pkg/domain-errors"
	"sprout/pkg/platform/httputil"
)

// RecordService defines the record lifecycle and verification operations the
// transport needs.
type RecordService interface {
	Create(ctx context.Context, in record.CreateInput) (*record.AchievementRecord, error)
	Update(ctx context.Context, recordID id.RecordID, in record.UpdateInput) (*record.AchievementRecord, error)
	Delete(ctx context.Context, recordID id.RecordID) error
	Get(ctx context.Context, recordID id.RecordID) (*record.AchievementRecord, error)
	Approve(ctx context.Context, recordID id.RecordID, notes string) (*record.AchievementRecord, error)
	Flag(ctx context.Context, recordID id.RecordID, notes string) (*record.AchievementRecord, error)
}

// RecordHandler exposes the achievement-record endpoints.
type RecordHandler struct {
	logger  *slog.Logger
	records RecordService
}

func NewRecordHandler(records RecordService, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{logger: logger, records: records}
}

// Register mounts the record routes. Create/edit/delete are caregiver
// operations; approve/flag are health-worker operations. The services
// enforce ownership on top of these role gates.
func (h *RecordHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(h.logger, id.RoleCaregiver))
		r.Post("/children/{childID}/records", h.handleCreate)
		r.Patch("/records/{recordID}", h.handleUpdate)
		r.Delete("/records/{recordID}", h.handleDelete)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(h.logger, id.RoleHealthWorker))
		r.Post("/records/{recordID}/approve", h.handleApprove)
		r.Post("/records/{recordID}/flag", h.handleFlag)
	})

	r.Get("/records/{recordID}", h.handleGet)
}

func (h *RecordHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	childID, err := id.ParseChildID(chi.URLParam(r, "childID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid child id"))
		return
	}

	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	in, err := req.toInput(childID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rec, err := h.records.Create(ctx, in)
	if err != nil {
		h.logError(ctx, "create record failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, rec)
}

func (h *RecordHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recordID, err := id.ParseRecordID(chi.URLParam(r, "recordID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid record id"))
		return
	}

	var req updateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	in, err := req.toInput()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rec, err := h.records.Update(ctx, recordID, in)
	if err != nil {
		h.logError(ctx, "update record failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *RecordHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recordID, err := id.ParseRecordID(chi.URLParam(r, "recordID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid record id"))
		return
	}

	if err := h.records.Delete(ctx, recordID); err != nil {
		h.logError(ctx, "delete record failed", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecordHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recordID, err := id.ParseRecordID(chi.URLParam(r, "recordID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid record id"))
		return
	}

	rec, err := h.records.Get(ctx, recordID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *RecordHandler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.handleVerify(w, r, h.records.Approve)
}

func (h *RecordHandler) handleFlag(w http.ResponseWriter, r *http.Request) {
	h.handleVerify(w, r, h.records.Flag)
}

func (h *RecordHandler) handleVerify(w http.ResponseWriter, r *http.Request,
	verify func(context.Context, id.RecordID, string) (*record.AchievementRecord, error)) {
	ctx := r.Context()

	recordID, err := id.ParseRecordID(chi.URLParam(r, "recordID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid record id"))
		return
	}

	// An empty body means no notes.
	var req verifyRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return
		}
	}

	rec, err := verify(ctx, recordID, req.Notes)
	if err != nil {
		h.logError(ctx, "verification failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *RecordHandler) logError(ctx context.Context, msg string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		return
	}
	h.logger.WarnContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
}
