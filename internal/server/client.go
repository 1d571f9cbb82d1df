package server

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pageonefree/pageone-server-go/internal/game"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendQueueSize  = 64
)

// client is one WebSocket connection, bound to at most one room seat.
type client struct {
	server *Server
	conn   *websocket.Conn
	logger *zap.Logger

	send      chan outboundMessage
	done      chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	room     *game.Room
	roomID   string
	seat     int
	clientID string
}

func newClient(conn *websocket.Conn, server *Server, logger *zap.Logger) *client {
	return &client{
		server: server,
		conn:   conn,
		logger: logger,
		send:   make(chan outboundMessage, sendQueueSize),
		done:   make(chan struct{}),
	}
}

// enqueue queues an outbound message, dropping it if the client is shut down
// or cannot keep up. The engine must never block on a slow socket. The send
// channel is never closed, so enqueuing after shutdown is always safe; the
// done channel alone carries the shutdown signal.
func (c *client) enqueue(msg outboundMessage) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case <-c.done:
	case c.send <- msg:
	default:
		c.logger.Warn("dropping message for slow client", zap.String("type", msg.Type))
	}
}

// shutdown signals the write pump to end, which closes the connection with
// it. Safe to call from any goroutine, any number of times.
func (c *client) shutdown() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

func (c *client) readPump() {
	defer c.cleanup()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.reject("malformed message")
			continue
		}
		c.handle(msg)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) cleanup() {
	c.mu.Lock()
	rm, roomID, seat, clientID := c.room, c.roomID, c.seat, c.clientID
	c.mu.Unlock()

	if rm != nil {
		c.server.unbindSeat(roomID, seat, c)
		notes := rm.Disconnect(clientID)
		c.server.deliver(roomID, notes)
	}
	c.shutdown()
	c.conn.Close()
}

func (c *client) handle(msg inboundMessage) {
	if msg.Type == msgJoin {
		c.handleJoin(msg)
		return
	}

	c.mu.Lock()
	rm, roomID, seat := c.room, c.roomID, c.seat
	c.mu.Unlock()

	if rm == nil {
		c.reject("join a room first")
		return
	}

	var (
		notes []game.Notification
		err   error
	)
	switch msg.Type {
	case msgRequestStart:
		notes, err = rm.VoteStart(seat)
	case msgRequestRestart:
		notes, err = rm.VoteRestart(seat)
	case msgMove:
		if msg.Move == nil {
			c.reject("move payload missing")
			return
		}
		notes, err = c.dispatchMove(rm, seat, *msg.Move)
	case msgRonTimeout:
		notes = rm.ExpireCurrentRon()
	default:
		c.reject("unknown message type")
		return
	}

	if err != nil {
		c.logger.Debug("action rejected",
			zap.String("room_id", roomID),
			zap.Int("seat", seat),
			zap.String("type", msg.Type),
			zap.Error(err),
		)
		c.reject(err.Error())
		return
	}
	c.server.deliver(roomID, notes)
}

func (c *client) dispatchMove(rm *game.Room, seat int, move movePayload) ([]game.Notification, error) {
	switch move.Kind {
	case moveKindPlay:
		return rm.Play(seat, move.Index)
	case moveKindDraw:
		return rm.Draw(seat)
	case moveKindChooseSuit:
		return rm.ChooseSuit(seat, game.Suit(move.Suit))
	case moveKindAcceptRon:
		return rm.AcceptRon(seat)
	case moveKindDeclineRon:
		return rm.DeclineRon(seat)
	default:
		return nil, errors.New("unknown move kind")
	}
}

func (c *client) handleJoin(msg inboundMessage) {
	clientID := msg.ClientID
	if clientID == "" {
		clientID = uuid.NewString()
	}

	rm, created := c.server.rooms.GetOrCreate(msg.RoomID)
	roomID := rm.ID()
	if created {
		rm.SetNotificationSink(func(notes []game.Notification) {
			c.server.deliver(roomID, notes)
		})
	}

	seat, notes, err := rm.Join(clientID, msg.Name)
	if err != nil {
		c.reject(err.Error())
		return
	}

	c.mu.Lock()
	c.room = rm
	c.roomID = roomID
	c.seat = seat
	c.clientID = clientID
	c.mu.Unlock()

	c.server.bindSeat(roomID, seat, c)
	c.server.deliver(roomID, notes)
}

// reject sends an explicit rejection notice to this connection. Rejected
// actions never mutate room state.
func (c *client) reject(reason string) {
	c.enqueue(outboundMessage{
		Type:    string(game.NotifyRejected),
		Payload: game.ActionRejected{Reason: reason},
	})
}
