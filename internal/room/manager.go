package room

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/pageonefree/pageone-server-go/internal/game"
	"go.uber.org/zap"
)

// cleanupInterval is how often the janitor scans for evictable rooms.
const cleanupInterval = time.Minute

// Manager owns every live room, keyed by room id. Rooms are created on first
// reference and evicted once no player has been connected for the TTL.
type Manager struct {
	mu             sync.Mutex
	rooms          map[string]*game.Room
	decisionWindow time.Duration
	ttl            time.Duration
	logger         *zap.Logger
}

// NewManager creates a room registry. decisionWindow is passed to every room
// it creates; ttl governs eviction of idle rooms.
func NewManager(decisionWindow, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		rooms:          make(map[string]*game.Room),
		decisionWindow: decisionWindow,
		ttl:            ttl,
		logger:         logger,
	}
}

// GetOrCreate returns the room with the given id, creating it if needed. An
// empty id allocates a fresh room under a generated id. The second result
// reports whether the room was created by this call.
func (m *Manager) GetOrCreate(id string) (*game.Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.newRoomIDLocked()
	}
	if r, ok := m.rooms[id]; ok {
		return r, false
	}
	r := game.NewRoom(id, m.decisionWindow, m.logger)
	m.rooms[id] = r
	m.logger.Info("room created", zap.String("room_id", id))
	return r, true
}

// Get returns the room with the given id, if it exists.
func (m *Manager) Get(id string) (*game.Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	return r, ok
}

// Count reports how many rooms are live.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

// CleanupIdleRooms periodically evicts rooms whose players have all been
// disconnected for longer than the TTL. Blocks until ctx is cancelled.
func (m *Manager) CleanupIdleRooms(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.EvictIdle()
		}
	}
}

// EvictIdle removes every idle room and reports how many were evicted.
func (m *Manager) EvictIdle() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, r := range m.rooms {
		if r.Idle(m.ttl) {
			delete(m.rooms, id)
			evicted++
			m.logger.Info("room evicted", zap.String("room_id", id))
		}
	}
	return evicted
}

// newRoomIDLocked allocates an unused room id of the form "room" plus six
// digits. Caller holds m.mu.
func (m *Manager) newRoomIDLocked() string {
	for {
		id := fmt.Sprintf("room%d", 100000+rand.Intn(900000))
		if _, taken := m.rooms[id]; !taken {
			return id
		}
	}
}
