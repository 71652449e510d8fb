package notify

import (
	"context"
	"sync"
	"time"

	"github.com/alextreichler/storefront-console/internal/models"
)

// MemoryStore keeps notifications in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]models.Notification
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]models.Notification)}
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, n models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], n)
	return nil
}

func (s *MemoryStore) Active(_ context.Context, sessionID string, now time.Time) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.sessions[sessionID]
	kept := list[:0]
	for _, n := range list {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		delete(s.sessions, sessionID)
		return nil, nil
	}
	s.sessions[sessionID] = kept

	out := make([]models.Notification, len(kept))
	copy(out, kept)
	return out, nil
}

func (s *MemoryStore) Remove(_ context.Context, sessionID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.sessions[sessionID]
	for i, n := range list {
		if n.ID == id {
			s.sessions[sessionID] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(s.sessions[sessionID]) == 0 {
		delete(s.sessions, sessionID)
	}
	return nil
}

// Sweep drops expired notifications of every session.
func (s *MemoryStore) Sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sid, list := range s.sessions {
		kept := list[:0]
		for _, n := range list {
			if !n.Expired(now) {
				kept = append(kept, n)
			}
		}
		if len(kept) == 0 {
			delete(s.sessions, sid)
		} else {
			s.sessions[sid] = kept
		}
	}
}

// Janitor sweeps every interval until ctx is done.
func (s *MemoryStore) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}
