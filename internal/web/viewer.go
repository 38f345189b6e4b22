package web

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"climatestation/backend/internal/station"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard may be served from a different origin than the API.
	CheckOrigin: func(*http.Request) bool { return true },
}

// clientEvent is what a viewer sends upstream: currently only the light
// switch toggle.
type clientEvent struct {
	Event string `json:"event"`
	Data  struct {
		State string `json:"state"`
	} `json:"data"`
}

// handleViewer upgrades the connection, attaches the viewer to the hub,
// runs the join reconciliation, and pumps events both ways until the
// connection drops.
func (api *API) handleViewer(response http.ResponseWriter, request *http.Request) {
	conn, err := upgrader.Upgrade(response, request, nil)
	if err != nil {
		api.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	viewer := api.hub.Attach()
	go api.writePump(conn, viewer)

	api.reconciler.OnAttach(request.Context(), viewer)
	api.readPump(conn, viewer)
}

func (api *API) readPump(conn *websocket.Conn, viewer *station.Viewer) {
	defer func() {
		api.hub.Detach(viewer)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var event clientEvent
		if err := conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				api.logger.Warn().Err(err).Str("viewer", viewer.ID).Msg("viewer connection error")
			}
			return
		}

		switch event.Event {
		case "toggle_light":
			api.relay.OnCommand(event.Data.State)
		default:
			api.logger.Debug().Str("viewer", viewer.ID).Str("event", event.Event).
				Msg("ignoring unknown viewer event")
		}
	}
}

func (api *API) writePump(conn *websocket.Conn, viewer *station.Viewer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-viewer.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub pruned the viewer.
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteJSON(event); err != nil {
				api.hub.Detach(viewer)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				api.hub.Detach(viewer)
				return
			}
		}
	}
}
