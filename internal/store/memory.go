package store

import (
	"strings"
	"sync"
	"time"
)

type Message struct {
	Role    string
	Content string
	Agent   string
}

// MemoryStore keeps per-session chat history plus a short-lived cache of the
// hotels from the session's last search, used to resolve a hotel mentioned
// by name before the booking pipeline runs.
type MemoryStore struct {
	mu                  sync.RWMutex
	sessions            map[string][]Message
	maxMessages         int
	lastHotelsBySession map[string]lastHotelsCache
}

func NewMemoryStore(maxMessages int) *MemoryStore {
	return &MemoryStore{
		sessions:            make(map[string][]Message),
		maxMessages:         maxMessages,
		lastHotelsBySession: make(map[string]lastHotelsCache),
	}
}

func (m *MemoryStore) Append(sessionID string, msg Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = append(m.sessions[sessionID], msg)
	m.trimLocked(sessionID)
}

func (m *MemoryStore) Get(sessionID string) []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msgs := m.sessions[sessionID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

func (m *MemoryStore) trimLocked(sessionID string) {
	if m.maxMessages <= 0 {
		return
	}
	msgs := m.sessions[sessionID]
	if len(msgs) > m.maxMessages {
		m.sessions[sessionID] = msgs[len(msgs)-m.maxMessages:]
	}
}

var lastHotelsTTL = 7 * time.Minute

// HotelRef holds just enough to resolve a hotel id from a name mention.
type HotelRef struct {
	ID   string
	Name string
}

type lastHotelsCache struct {
	Hotels    []HotelRef
	UpdatedAt time.Time
}

// SetLastHotels caches the hotels from the session's most recent search.
func (m *MemoryStore) SetLastHotels(sessionID string, hotels []HotelRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastHotelsBySession[sessionID] = lastHotelsCache{
		Hotels:    append([]HotelRef(nil), hotels...),
		UpdatedAt: time.Now(),
	}
}

// ResolveHotel finds a cached hotel whose name appears in the message
// (case-insensitive), if the cache is still within TTL.
func (m *MemoryStore) ResolveHotel(sessionID, message string) (HotelRef, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cache, ok := m.lastHotelsBySession[sessionID]
	if !ok {
		return HotelRef{}, false
	}
	if time.Since(cache.UpdatedAt) > lastHotelsTTL {
		delete(m.lastHotelsBySession, sessionID)
		return HotelRef{}, false
	}
	lower := strings.ToLower(message)
	for _, h := range cache.Hotels {
		if h.Name != "" && strings.Contains(lower, strings.ToLower(h.Name)) {
			return h, true
		}
	}
	return HotelRef{}, false
}
