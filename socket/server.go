package socket

import (
	"log/slog"
	"net/http"

	socketio "github.com/googollee/go-socket.io"

	"vivaah_server/models"
	"vivaah_server/services"
	"vivaah_server/utils"
)

const namespace = "/"

var _ services.Notifier = (*Server)(nil)

// Server pushes invitation and moderation events to connected users.
// Each user joins a room named after their user id.
type Server struct {
	io     *socketio.Server
	secret []byte
	logger *slog.Logger
}

// NewSocketServer initializes and returns a new Socket.IO server
func NewSocketServer(secret []byte, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{io: socketio.NewServer(nil), secret: secret, logger: logger}

	s.io.OnConnect(namespace, func(c socketio.Conn) error {
		s.logger.Debug("socket connected", "socketId", c.ID())
		return nil
	})

	// Clients send their session token; the server never trusts a bare user id.
	s.io.OnEvent(namespace, "join", func(c socketio.Conn, token string) {
		caller, err := utils.VerifyToken(s.secret, token)
		if err != nil {
			s.logger.Warn("socket join rejected", "socketId", c.ID(), "error", err)
			c.Emit("error", "invalid session token")
			return
		}
		c.SetContext(caller)
		c.Join(caller.UserID)
		s.logger.Info("socket joined", "socketId", c.ID(), "userId", caller.UserID)
		c.Emit("joined", caller.UserID)
	})

	s.io.OnError(namespace, func(c socketio.Conn, err error) {
		s.logger.Warn("socket error", "error", err)
	})

	s.io.OnDisconnect(namespace, func(c socketio.Conn, reason string) {
		userID := ""
		if caller, ok := c.Context().(models.Caller); ok {
			userID = caller.UserID
		}
		s.logger.Debug("socket disconnected", "socketId", c.ID(), "userId", userID, "reason", reason)
	})

	return s
}

// Notify broadcasts event to every socket the user has joined with
func (s *Server) Notify(userID, event string, payload interface{}) {
	if userID == "" {
		return
	}
	s.io.BroadcastToRoom(namespace, userID, event, payload)
}

// Serve runs the socket event loop until Close is called
func (s *Server) Serve() {
	if err := s.io.Serve(); err != nil {
		s.logger.Error("socket server stopped", "error", err)
	}
}

// Close stops the socket event loop
func (s *Server) Close() error {
	return s.io.Close()
}

// Handler mounts the socket transport on an HTTP router
func (s *Server) Handler() http.Handler {
	return s.io
}
