package s0_data

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/pkg/logger"
)

// SnapshotEvent is published to subscribers after every swap
type SnapshotEvent struct {
	Generation  uint64    `json:"generation"`
	RecordCount int       `json:"record_count"`
	Source      string    `json:"source"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// Store holds the current snapshot
// ⭐ SSOT: 현재 스냅샷 참조는 이 구조체에서만 교체
//
// Readers call Current and never block. Writers are serialized so generations
// increase by exactly one per Install.
type Store struct {
	current atomic.Pointer[contracts.Snapshot]

	mu     sync.Mutex // guards installs and subscribers
	subs   map[int]chan SnapshotEvent
	nextID int
	logger *logger.Logger
}

// NewStore creates an empty store
func NewStore(log *logger.Logger) *Store {
	return &Store{
		subs:   make(map[int]chan SnapshotEvent),
		logger: log,
	}
}

// Current returns the installed snapshot, nil before the first Install
func (s *Store) Current() *contracts.Snapshot {
	return s.current.Load()
}

// Generation returns the installed generation, 0 before the first Install
func (s *Store) Generation() uint64 {
	if snap := s.current.Load(); snap != nil {
		return snap.Generation
	}
	return 0
}

// Install builds the next generation from records and makes it current.
// In-flight readers keep the snapshot they already hold.
func (s *Store) Install(records []contracts.StockRecord, source string) *contracts.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := contracts.NewSnapshot(records, s.Generation()+1, source, time.Now())
	s.current.Store(next)

	event := SnapshotEvent{
		Generation:  next.Generation,
		RecordCount: next.Len(),
		Source:      source,
		LoadedAt:    next.LoadedAt,
	}
	for _, ch := range s.subs {
		publish(ch, event)
	}

	s.logger.WithFields(map[string]interface{}{
		"generation":  event.Generation,
		"records":     event.RecordCount,
		"source":      source,
		"subscribers": len(s.subs),
	}).Info("Snapshot installed")

	return next
}

// Subscribe returns a channel of swap events and a cancel func.
// Slow subscribers only see the latest event.
func (s *Store) Subscribe() (<-chan SnapshotEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan SnapshotEvent, 1)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// publish never blocks; a pending stale event is replaced
func publish(ch chan SnapshotEvent, event SnapshotEvent) {
	for {
		select {
		case ch <- event:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
