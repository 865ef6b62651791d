package repositories

import (
	"sync"
	"time"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"
)

// GuestCartStorage holds guest carts keyed by an opaque session ID. Guest
// carts never touch the database; they live only for the lifetime of the
// process, mirroring client-local storage in the server rendition. Sessions
// that go untouched are evicted via PurgeIdle so abandoned carts do not
// accumulate forever.
type GuestCartStorage struct {
	entries map[string]*guestCartEntry
	mu      sync.Mutex
}

type guestCartEntry struct {
	items   []models.CartItem
	touched time.Time
}

// NewGuestCartStorage creates an empty guest cart storage.
func NewGuestCartStorage() *GuestCartStorage {
	return &GuestCartStorage{
		entries: make(map[string]*guestCartEntry),
	}
}

// Get returns a copy of the session's line items and refreshes its idle
// timer.
func (s *GuestCartStorage) Get(sessionID string) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[sessionID]
	if !ok {
		return nil
	}
	entry.touched = time.Now()
	return append([]models.CartItem(nil), entry.items...)
}

// Set replaces the session's line items wholesale.
func (s *GuestCartStorage) Set(sessionID string, items []models.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(items) == 0 {
		delete(s.entries, sessionID)
		return
	}
	s.entries[sessionID] = &guestCartEntry{
		items:   append([]models.CartItem(nil), items...),
		touched: time.Now(),
	}
}

// Clear drops the session's cart entirely.
func (s *GuestCartStorage) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
}

// PurgeIdle evicts every session not touched within maxIdle and reports how
// many were dropped. An evicted guest simply starts over with an empty cart.
func (s *GuestCartStorage) PurgeIdle(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-maxIdle)
	purged := 0
	for sessionID, entry := range s.entries {
		if !entry.touched.After(cutoff) {
			delete(s.entries, sessionID)
			purged++
		}
	}
	return purged
}
