package stream

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func RegisterRoutes(r fiber.Router, hub *Hub) {
	r.Get("/feed", websocket.New(func(c *websocket.Conn) {
		client := hub.Register()
		defer hub.Unregister(client)

		done := make(chan struct{})
		go func() {
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					break
				}
			}
			close(done)
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		// Closing Send lets the writer drain and exit even when no further
		// broadcasts arrive. Unregister is safe to call twice.
		hub.Unregister(client)
		<-done
	}))
}
