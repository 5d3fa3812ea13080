package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/osse101/prizegrid/internal/eventlog"
	"github.com/osse101/prizegrid/internal/repository"
)

// ActivityHandler serves the persisted event log
type ActivityHandler struct {
	service eventlog.Service
}

func NewActivityHandler(service eventlog.Service) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// HandleList lists logged events, newest first
// @Summary List activity
// @Tags activity
// @Produce json
// @Param run_id query string false "Run ID"
// @Param event_id query string false "Event ID"
// @Param type query string false "Event type"
// @Param since query string false "RFC3339 lower bound"
// @Param limit query int false "Maximum entries (default 100, max 500)"
// @Success 200 {array} repository.EventLogEntry
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/activity [get]
func (h *ActivityHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.EventLogFilter{
		RunID:     optionalQuery(q.Get("run_id")),
		EventID:   optionalQuery(q.Get("event_id")),
		EventType: optionalQuery(q.Get("type")),
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidQueryParam, "limit"))
			return
		}
		filter.Limit = limit
	}

	if raw := q.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidQueryParam, "since"))
			return
		}
		filter.Since = &since
	}

	entries, err := h.service.ListEvents(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, "List activity", err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// HandleRunHistory lists one run's events in publish order
// @Summary Run history
// @Tags activity
// @Produce json
// @Param runID path string true "Run ID"
// @Success 200 {array} repository.EventLogEntry
// @Router /api/v1/allocations/{runID}/history [get]
func (h *ActivityHandler) HandleRunHistory(w http.ResponseWriter, r *http.Request) {
	runID, ok := getPathParam(r, w, "runID")
	if !ok {
		return
	}

	entries, err := h.service.RunHistory(r.Context(), runID)
	if err != nil {
		respondServiceError(w, r, "Run history", err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func optionalQuery(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
