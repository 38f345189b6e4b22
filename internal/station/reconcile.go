package station

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const backfillTimeout = 5 * time.Second

// Reconciler gives a newly attached viewer the current live window plus a
// historical backfill. It only ever sends to the joining viewer; shared
// state is never touched.
type Reconciler struct {
	buffer       *Buffer
	store        Store
	hub          *Hub
	historyLimit int
	logger       zerolog.Logger
}

func NewReconciler(buffer *Buffer, store Store, hub *Hub, historyLimit int, logger zerolog.Logger) *Reconciler {
	if historyLimit <= 0 {
		historyLimit = DefaultQueryLimit
	}

	return &Reconciler{
		buffer:       buffer,
		store:        store,
		hub:          hub,
		historyLimit: historyLimit,
		logger:       logger.With().Str("component", "reconciler").Logger(),
	}
}

// OnAttach sends the live window and then the historical backfill. The two
// sends may interleave with concurrent pipeline broadcasts; viewers apply
// last-write-wins per series.
func (reconciler *Reconciler) OnAttach(ctx context.Context, viewer *Viewer) {
	if !reconciler.hub.SendTo(viewer, EventUpdate, reconciler.buffer.Snapshot()) {
		return
	}

	queryCtx, cancel := context.WithTimeout(ctx, backfillTimeout)
	defer cancel()

	rows, err := reconciler.store.Recent(queryCtx, reconciler.historyLimit)
	if err != nil {
		reconciler.logger.Error().Err(err).Str("viewer", viewer.ID).Msg("historical backfill failed")
		return
	}

	reconciler.hub.SendTo(viewer, EventHistorical, SeriesFromRows(rows))
}
