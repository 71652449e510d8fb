package console

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Workspace is the page state of one browser session: the active tab and
// the last content of every region.
type Workspace struct {
	ActiveTab   Tab
	Products    ProductsView
	ProductForm ProductForm
	SKUInput    string
	Inventory   InventoryView
	Browse      BrowseView
	Order       OrderForm
	OrderResult OrderResultView

	lastSeen time.Time
}

func newWorkspace(defaultTab Tab) *Workspace {
	return &Workspace{
		ActiveTab:   defaultTab,
		Products:    ProductsView{State: StateIdle},
		Inventory:   InventoryView{State: StateIdle},
		Browse:      BrowseView{State: StateIdle},
		Order:       NewOrderForm(),
		OrderResult: OrderResultView{State: StateIdle},
	}
}

func (w *Workspace) clone() Workspace {
	c := *w
	c.Products.Products = slices.Clone(w.Products.Products)
	c.Inventory.Records = slices.Clone(w.Inventory.Records)
	c.Browse.Records = slices.Clone(w.Browse.Records)
	c.Order = w.Order.Clone()
	c.OrderResult.Fields = slices.Clone(w.OrderResult.Fields)
	return c
}

// WorkspaceStore keeps workspaces per session id. Updates are applied under
// the store lock after backend calls return, so concurrent operations of
// one session never wait on each other's I/O.
type WorkspaceStore struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
	defaultTab Tab
	now        func() time.Time
}

func NewWorkspaceStore(defaultTab Tab) *WorkspaceStore {
	if defaultTab == "" {
		defaultTab = TabProducts
	}
	return &WorkspaceStore{
		workspaces: make(map[string]*Workspace),
		defaultTab: defaultTab,
		now:        time.Now,
	}
}

func (s *WorkspaceStore) DefaultTab() Tab { return s.defaultTab }

func (s *WorkspaceStore) get(sessionID string) *Workspace {
	w, ok := s.workspaces[sessionID]
	if !ok {
		w = newWorkspace(s.defaultTab)
		s.workspaces[sessionID] = w
	}
	w.lastSeen = s.now()
	return w
}

// Reset discards the session's workspace, as a page reload would.
func (s *WorkspaceStore) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces[sessionID] = newWorkspace(s.defaultTab)
	s.workspaces[sessionID].lastSeen = s.now()
}

// Snapshot returns a copy of the session's workspace, creating it if needed.
func (s *WorkspaceStore) Snapshot(sessionID string) Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(sessionID).clone()
}

// Update applies fn to the session's workspace and returns the result.
func (s *WorkspaceStore) Update(sessionID string, fn func(w *Workspace)) Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.get(sessionID)
	fn(w)
	return w.clone()
}

// Expire drops workspaces not seen for longer than idle.
func (s *WorkspaceStore) Expire(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-idle)
	removed := 0
	for sid, w := range s.workspaces {
		if w.lastSeen.Before(cutoff) {
			delete(s.workspaces, sid)
			removed++
		}
	}
	return removed
}

// Cleanup expires idle workspaces every interval until ctx is done.
func (s *WorkspaceStore) Cleanup(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Expire(idle); n > 0 {
				slog.Debug("Expired idle workspaces", "count", n)
			}
		}
	}
}
