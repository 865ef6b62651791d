package services

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"
	"github.com/Atwoto/solara-mvp-sub000/internal/repositories"
)

// MergeCoordinator folds a guest session's cart into the server cart exactly
// once, on the unauthenticated -> authenticated transition. It is the only
// code that talks to both CartStore implementations at once.
type MergeCoordinator struct {
	carts    *CartService
	products repositories.ProductRepository

	mu     sync.Mutex
	merged map[string]bool // session IDs already folded in
}

// NewMergeCoordinator creates a new MergeCoordinator.
func NewMergeCoordinator(carts *CartService, products repositories.ProductRepository) *MergeCoordinator {
	return &MergeCoordinator{
		carts:    carts,
		products: products,
		merged:   make(map[string]bool),
	}
}

// MergeOnLogin merges the guest cart for sessionID into userID's server cart
// and returns the authoritative server cart. Quantities for a product present
// in both carts sum, matching the Add increment contract. Each guest line is
// dropped from the guest store the moment it lands on the server, so a merge
// that fails partway can be retried and only processes the remainder instead
// of double-adding what already went through. Repeat calls for the same
// session are no-ops beyond a server re-read.
func (m *MergeCoordinator) MergeOnLogin(sessionID, userID string) ([]models.CartItem, error) {
	serverStore := m.carts.ForUser(userID)
	if sessionID == "" {
		return serverStore.Get()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.merged[sessionID] {
		return serverStore.Get()
	}

	guestStore := m.carts.ForSession(sessionID)
	guestItems, err := guestStore.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to read guest cart: %w", err)
	}

	for _, item := range guestItems {
		product, err := m.products.GetByID(item.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				// Product delisted since the guest added it; drop the line.
				log.Printf("Skipping merge of delisted product %s for session %s", item.ProductID, sessionID)
				if _, rerr := guestStore.Remove(item.ProductID); rerr != nil {
					log.Printf("Failed to drop delisted line %s for session %s: %v", item.ProductID, sessionID, rerr)
				}
				continue
			}
			return nil, fmt.Errorf("failed to resolve product %s during merge: %w", item.ProductID, err)
		}
		if _, err := serverStore.Add(product, item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to merge product %s into server cart: %w", item.ProductID, err)
		}
		// Consume the guest line now that the server holds it.
		if _, err := guestStore.Remove(item.ProductID); err != nil {
			log.Printf("Failed to drop merged line %s for session %s: %v", item.ProductID, sessionID, err)
		}
	}

	if err := guestStore.Clear(); err != nil {
		// Every line is already consumed; a dangling empty guest entry is
		// only a cosmetic leak.
		log.Printf("Failed to clear guest cart for session %s after merge: %v", sessionID, err)
	}
	m.merged[sessionID] = true

	return serverStore.Get()
}

// PurgeMerged drops all merged-session markers. Safe to call at any time:
// a purged marker only costs a no-op re-merge, because the guest lines are
// consumed as they land on the server. Called periodically so the marker map
// does not grow for the lifetime of the process.
func (m *MergeCoordinator) PurgeMerged() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.merged = make(map[string]bool)
}
