package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/prizegrid/internal/database/memory"
	"github.com/osse101/prizegrid/internal/event"
	"github.com/osse101/prizegrid/internal/eventlog"
	"github.com/osse101/prizegrid/internal/repository"
)

func newActivityRouter(t *testing.T) (http.Handler, event.Bus) {
	t.Helper()
	bus := event.NewMemoryBus()
	svc := eventlog.NewService(memory.New())
	require.NoError(t, svc.Subscribe(bus))

	h := NewActivityHandler(svc)
	r := chi.NewRouter()
	r.Get("/activity", h.HandleList)
	r.Get("/allocations/{runID}/history", h.HandleRunHistory)
	return r, bus
}

func TestActivity_ListAndRunHistory(t *testing.T) {
	h, bus := newActivityRouter(t)
	ctx := context.Background()

	require.NoError(t, bus.Publish(ctx, event.NewRunPreviewedEvent(event.RunPreviewedPayloadV1{RunID: "r1", EventID: "e1", Band: "GREEN"})))
	require.NoError(t, bus.Publish(ctx, event.NewRunCommittedEvent(event.RunCommittedPayloadV1{RunID: "r1", EventID: "e1", LedgerID: "01L"})))
	require.NoError(t, bus.Publish(ctx, event.NewRunAbortedEvent(event.RunAbortedPayloadV1{RunID: "r2", EventID: "e2"})))

	w := do(t, h, http.MethodGet, "/allocations/r1/history", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	history := decode[[]repository.EventLogEntry](t, w)
	require.Len(t, history, 2)
	assert.Equal(t, "allocation.previewed", history[0].EventType)
	assert.Equal(t, "01L", history[1].Payload["ledger_id"])

	w = do(t, h, http.MethodGet, "/activity?event_id=e2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]repository.EventLogEntry](t, w), 1)

	w = do(t, h, http.MethodGet, "/activity?limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]repository.EventLogEntry](t, w), 1)

	w = do(t, h, http.MethodGet, "/allocations/unknown/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]repository.EventLogEntry](t, w))
}

func TestActivity_RejectsBadQuery(t *testing.T) {
	h, _ := newActivityRouter(t)

	for _, path := range []string{"/activity?limit=abc", "/activity?limit=-2", "/activity?since=yesterday"} {
		t.Run(path, func(t *testing.T) {
			w := do(t, h, http.MethodGet, path, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
