package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"calmdrive/internal/telemetry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard frontend is served from another origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// telemetryLive streams simulated gauge samples once per second until the
// client disconnects. Each connection gets its own simulator so streams
// drift independently, like separate dashboard sessions.
func (s *Server) telemetryLive(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Telemetry websocket upgrade failed")
		return
	}
	defer conn.Close()

	// Drain control frames so client closes are noticed promptly.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	sim := telemetry.NewSimulator(nil)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case now := <-ticker.C:
			if err := conn.WriteJSON(sim.Next(now)); err != nil {
				log.Debug().Err(err).Msg("Telemetry stream closed")
				return
			}
		}
	}
}
