package station

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const viewerSendBuffer = 64

// Event is one named push to a viewer.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// Viewer is an attached client. Events arrive on Send in broadcast order
// until the hub closes it.
type Viewer struct {
	ID   string
	Send chan Event
}

// Hub tracks attached viewers and fans events out to them. A viewer whose
// send buffer is full is detached rather than blocking delivery to the rest.
type Hub struct {
	mu      sync.Mutex
	viewers map[*Viewer]struct{}
	logger  zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		viewers: make(map[*Viewer]struct{}),
		logger:  logger.With().Str("component", "hub").Logger(),
	}
}

func (hub *Hub) Attach() *Viewer {
	viewer := &Viewer{
		ID:   uuid.NewString(),
		Send: make(chan Event, viewerSendBuffer),
	}

	hub.mu.Lock()
	hub.viewers[viewer] = struct{}{}
	total := len(hub.viewers)
	hub.mu.Unlock()

	viewersConnected.Set(float64(total))
	hub.logger.Info().Str("viewer", viewer.ID).Int("total", total).Msg("viewer attached")
	return viewer
}

func (hub *Hub) Detach(viewer *Viewer) {
	hub.mu.Lock()
	total := hub.remove(viewer)
	hub.mu.Unlock()

	viewersConnected.Set(float64(total))
	hub.logger.Info().Str("viewer", viewer.ID).Int("total", total).Msg("viewer detached")
}

// remove deletes and closes the viewer's channel. Caller holds the lock.
// Returns the remaining viewer count.
func (hub *Hub) remove(viewer *Viewer) int {
	if _, attached := hub.viewers[viewer]; attached {
		delete(hub.viewers, viewer)
		close(viewer.Send)
	}
	return len(hub.viewers)
}

// BroadcastAll pushes the event to every attached viewer. Viewers that
// cannot keep up are pruned; the rest still receive the event.
func (hub *Hub) BroadcastAll(name string, data any) {
	event := Event{Name: name, Data: data}

	hub.mu.Lock()
	for viewer := range hub.viewers {
		select {
		case viewer.Send <- event:
		default:
			hub.remove(viewer)
			hub.logger.Warn().Str("viewer", viewer.ID).Msg("viewer too slow, pruned")
		}
	}
	total := len(hub.viewers)
	hub.mu.Unlock()

	viewersConnected.Set(float64(total))
}

// SendTo pushes an event to a single viewer. Reports whether the viewer
// was still attached and accepted it; on failure the viewer is pruned.
func (hub *Hub) SendTo(viewer *Viewer, name string, data any) bool {
	event := Event{Name: name, Data: data}

	hub.mu.Lock()
	defer hub.mu.Unlock()

	if _, attached := hub.viewers[viewer]; !attached {
		return false
	}

	select {
	case viewer.Send <- event:
		return true
	default:
		hub.remove(viewer)
		hub.logger.Warn().Str("viewer", viewer.ID).Msg("viewer too slow, pruned")
		return false
	}
}

func (hub *Hub) Count() int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.viewers)
}
