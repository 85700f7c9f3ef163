package socket

import (
	socketio "github.com/googollee/go-socket.io"
	log "github.com/sirupsen/logrus"
)

// NewSocketServer initializes the live-push server. Clients join rooms to
// subscribe: "story:{id}" for comment streams, a conversation id for chat,
// "user:{id}" for notifications. Controllers broadcast into those rooms
// after the corresponding write succeeds.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "join", func(c socketio.Conn, room string) {
		if room == "" {
			log.Println("❌ Invalid room in join request")
			return
		}
		log.Printf("👥 Socket %s joined room %s", c.ID(), room)
		c.Join(room)
	})

	server.OnEvent("/", "leave", func(c socketio.Conn, room string) {
		c.Leave(room)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", c.ID(), reason)
	})

	return server
}
