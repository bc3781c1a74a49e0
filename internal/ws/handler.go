package ws

import (
	"net/http"

	"github.com/clawbot69/clawnopoly/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// HandleWS upgrades the request and serves the connection. An empty
// allowedOrigin accepts any origin.
func HandleWS(hub *Hub, router *Router, allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade error", "error", err, "remote", c.ClientIP())
			return
		}

		client := NewClient(conn, hub, router)
		go client.Run()
	}
}
