package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/minkwan/storefront-backend/internal/middleware"
	"github.com/minkwan/storefront-backend/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-origin policy is enforced at the proxy layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeOrderFeed upgrades the request and attaches the client to the
// hub. Auth and role checks run in the route middleware before this.
func ServeOrderFeed(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.GetUserID(c)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Error("WebSocket upgrade failed", err, map[string]interface{}{
				"user_id": userID,
			})
			return
		}

		client := &Client{
			Hub:    hub,
			Conn:   &Conn{Conn: conn},
			UserID: userID,
			Send:   make(chan []byte, 64),
		}
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}
