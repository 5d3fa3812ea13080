package handler

import (
	"net/http"

	"github.com/osse101/prizegrid/internal/allocation"
	"github.com/osse101/prizegrid/internal/domain"
	"github.com/osse101/prizegrid/internal/logger"
)

// AllocationHandler drives the preview, commit and abort lifecycle
type AllocationHandler struct {
	service allocation.Service
}

func NewAllocationHandler(service allocation.Service) *AllocationHandler {
	return &AllocationHandler{service: service}
}

// AbortRequest is the optional body of an abort
type AbortRequest struct {
	Reason string `json:"reason" validate:"max=512"`
}

// HandlePreview draws a grid and holds it as a run
// @Summary Preview allocation
// @Tags allocations
// @Accept json
// @Produce json
// @Param request body allocation.PreviewRequest true "Event and optional template"
// @Success 201 {object} allocation.Run
// @Success 200 {object} allocation.Run "Already committed, replayed"
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/allocations/preview [post]
func (h *AllocationHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	var req allocation.PreviewRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Preview allocation"); err != nil {
		return
	}

	run, err := h.service.Preview(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, "Preview allocation", err)
		return
	}

	status := http.StatusCreated
	if run.Replayed {
		status = http.StatusOK
	}
	respondJSON(w, status, run)
}

// HandleGet returns a cached run
// @Summary Get allocation run
// @Tags allocations
// @Produce json
// @Param runID path string true "Run ID"
// @Success 200 {object} allocation.Run
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/allocations/{runID} [get]
func (h *AllocationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	runID, ok := getPathParam(r, w, "runID")
	if !ok {
		return
	}

	run, err := h.service.GetRun(r.Context(), runID)
	if err != nil {
		respondServiceError(w, r, "Get allocation run", err)
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// HandleCommit commits a previewed run
// @Summary Commit allocation
// @Tags allocations
// @Accept json
// @Produce json
// @Param runID path string true "Run ID"
// @Param request body allocation.CommitOptions false "Commit options"
// @Success 200 {object} allocation.Run
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/allocations/{runID}/commit [post]
func (h *AllocationHandler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	runID, ok := getPathParam(r, w, "runID")
	if !ok {
		return
	}
	var opts allocation.CommitOptions
	if err := decodeOptionalBody(r, w, &opts, "Commit allocation"); err != nil {
		return
	}

	run, err := h.service.Commit(r.Context(), runID, opts)
	if err != nil {
		respondServiceError(w, r, "Commit allocation", err)
		return
	}

	logger.FromContext(r.Context()).Info(LogMsgAllocationCommitted,
		"run_id", run.ID, "ledger_id", run.LedgerID, "replayed", run.Replayed)
	respondJSON(w, http.StatusOK, run)
}

// HandleAbort abandons a run
// @Summary Abort allocation
// @Tags allocations
// @Accept json
// @Produce json
// @Param runID path string true "Run ID"
// @Param request body AbortRequest false "Reason"
// @Success 200 {object} allocation.Run
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/allocations/{runID}/abort [post]
func (h *AllocationHandler) HandleAbort(w http.ResponseWriter, r *http.Request) {
	runID, ok := getPathParam(r, w, "runID")
	if !ok {
		return
	}
	var req AbortRequest
	if err := decodeOptionalBody(r, w, &req, "Abort allocation"); err != nil {
		return
	}

	run, err := h.service.Abort(r.Context(), runID, req.Reason)
	if err != nil {
		respondServiceError(w, r, "Abort allocation", err)
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// HandleHistory lists ledger entries of an event
// @Summary Ledger history
// @Tags ledger
// @Produce json
// @Param event_id query string true "Event ID"
// @Success 200 {array} domain.LedgerEntry
// @Router /api/v1/ledger [get]
func (h *AllocationHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	eventID, ok := GetQueryParam(r, w, "event_id")
	if !ok {
		return
	}

	entries, err := h.service.History(r.Context(), eventID)
	if err != nil {
		respondServiceError(w, r, "Ledger history", err)
		return
	}
	if entries == nil {
		entries = []domain.LedgerEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

// HandleVerify recomputes a ledger entry's hash
// @Summary Verify ledger entry
// @Tags ledger
// @Produce json
// @Param id path string true "Ledger ID"
// @Success 200 {object} allocation.Verification
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/ledger/{id}/verify [get]
func (h *AllocationHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	id, ok := getPathParam(r, w, "id")
	if !ok {
		return
	}

	v, err := h.service.Verify(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "Verify ledger entry", err)
		return
	}
	if !v.Valid {
		logger.FromContext(r.Context()).Warn(LogMsgVerificationFailed, "ledger_id", id, "problem", v.Problem)
	}
	respondJSON(w, http.StatusOK, v)
}
