package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pageonefree/pageone-server-go/internal/game"
	"github.com/pageonefree/pageone-server-go/internal/room"
	"go.uber.org/zap"
)

// Server is the WebSocket gateway. It owns the connection-to-seat bindings
// and fans engine notifications out to the right sockets; all game semantics
// stay inside internal/game.
type Server struct {
	rooms    *room.Manager
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	seats map[string]map[int]*client // room id -> seat -> connection
}

// New creates the gateway on top of the given room registry.
func New(rooms *room.Manager, logger *zap.Logger) *Server {
	return &Server{
		rooms:  rooms,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		seats: make(map[string]map[int]*client),
	}
}

// Handler returns the HTTP handler exposing the /ws endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := newClient(conn, s, s.logger)
	go c.writePump()
	c.readPump()
}

// bindSeat routes a room seat's notifications to c. A previous connection on
// the same seat is closed; the identity keeps the seat.
func (s *Server) bindSeat(roomID string, seat int, c *client) {
	s.mu.Lock()
	if s.seats[roomID] == nil {
		s.seats[roomID] = make(map[int]*client)
	}
	old := s.seats[roomID][seat]
	s.seats[roomID][seat] = c
	s.mu.Unlock()

	if old != nil && old != c {
		old.shutdown()
	}
}

// unbindSeat removes the binding, but only if c still owns it.
func (s *Server) unbindSeat(roomID string, seat int, c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seats[roomID][seat] == c {
		delete(s.seats[roomID], seat)
		if len(s.seats[roomID]) == 0 {
			delete(s.seats, roomID)
		}
	}
}

// deliver fans a batch of engine notifications out to the room's sockets.
// Seat 0 broadcasts; anything else goes to that seat's connection only.
func (s *Server) deliver(roomID string, notes []game.Notification) {
	if len(notes) == 0 {
		return
	}

	type targeted struct {
		c   *client
		msg outboundMessage
	}
	var out []targeted

	s.mu.Lock()
	clients := s.seats[roomID]
	for _, n := range notes {
		msg := outboundMessage{Type: string(n.Type), Payload: n.Payload}
		if n.Seat == 0 {
			for _, c := range clients {
				out = append(out, targeted{c, msg})
			}
			continue
		}
		if c, ok := clients[n.Seat]; ok {
			out = append(out, targeted{c, msg})
		}
	}
	s.mu.Unlock()

	for _, t := range out {
		t.c.enqueue(t.msg)
	}
}
