package handler

import (
	"context"
	"log"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/labstack/echo/v4"

	"github.com/arkanhadi/lapor-siaga/internal/broadcast"
)

const eventWriteTimeout = 5 * time.Second

// EventsHandler upgrades a request to a websocket and streams live report
// events from the hub until either side disconnects.
type EventsHandler struct {
	Hub *broadcast.Hub
}

func NewEventsHandler(hub *broadcast.Hub) *EventsHandler {
	return &EventsHandler{Hub: hub}
}

// Attach subscribes the connection to the hub and pumps events out as JSON
// frames.  Events published before the upgrade completed are not replayed.
func (h *EventsHandler) Attach(c echo.Context) error {
	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		InsecureSkipVerify: true, // dashboard origin varies per deployment
	})
	if err != nil {
		return err
	}
	defer conn.Close(websocket.StatusInternalError, "closed")

	ctx := c.Request().Context()
	cl := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(cl)

	// Reads are discarded; the only thing a read tells us is that the
	// peer went away.
	go func() {
		defer cl.Close()
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return nil
		case <-cl.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return nil
		case ev := <-cl.Send:
			wctx, cancel := context.WithTimeout(ctx, eventWriteTimeout)
			err := wsjson.Write(wctx, conn, ev)
			cancel()
			if err != nil {
				log.Printf("events: write failed, dropping subscriber: %v", err)
				conn.Close(websocket.StatusPolicyViolation, "write timeout")
				return nil
			}
		}
	}
}
