package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/mdouchement/sharedlist/internal/changefeed"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Access is granted by the API key whatever the origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

// feed contains the realtime handlers.
type feed struct {
	broker *changefeed.Broker
}

///// Subscribe
////
//

// Subscribe upgrades the connection to a websocket and streams the changes of the items table.
func (h *feed) Subscribe(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already replied to the client.
		logrus.WithError(err).Warn("could not upgrade change feed connection")
		return nil
	}
	defer conn.Close()

	events, unsubscribe := h.broker.Subscribe()
	defer unsubscribe()

	log := logrus.WithField("remote", c.RealIP())
	log.Info("change feed subscribed")
	defer log.Info("change feed unsubscribed")

	// Client messages are discarded, reading is only used to process control frames.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		conn.SetReadDeadline(time.Now().Add(pongWait)) // nolint:errcheck
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			conn.SetWriteDeadline(time.Now().Add(writeWait)) // nolint:errcheck
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed")
				conn.WriteMessage(websocket.CloseMessage, msg) // nolint:errcheck
				return nil
			}
			if err := conn.WriteJSON(ev); err != nil {
				log.WithError(err).Warn("could not write change event")
				return nil
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait)) // nolint:errcheck
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case <-gone:
			return nil
		}
	}
}
