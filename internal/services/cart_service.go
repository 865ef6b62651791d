package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"
	"github.com/Atwoto/solara-mvp-sub000/internal/repositories"

	"github.com/google/uuid"
)

// CartOwner identifies whose cart an operation targets: an authenticated
// user (UserID set) or a guest session (SessionID set). Email travels with
// it so checkout knows the payer without re-resolving the user.
type CartOwner struct {
	UserID    string
	SessionID string
	Email     string
}

// Authenticated reports whether the owner is a signed-in user.
func (o CartOwner) Authenticated() bool { return o.UserID != "" }

// Key returns a stable identity string, used to serialize per-owner
// operations such as the checkout double-submit guard.
func (o CartOwner) Key() string {
	if o.Authenticated() {
		return "user:" + o.UserID
	}
	return "session:" + o.SessionID
}

// CartStore is the single cart contract shared by guest and authenticated
// modes. Mutations return the full post-mutation cart so callers always
// observe confirmed state rather than an optimistic local copy.
//
// Contract, keyed by product id:
//   - Add increments the existing line's quantity (never overwrites); a
//     repeated call is an additional increment by design.
//   - UpdateQuantity sets the quantity to an absolute value; zero or
//     negative removes the line.
//   - Remove is a no-op if the line is absent.
//
// No line item with quantity <= 0 is ever stored.
type CartStore interface {
	Get() ([]models.CartItem, error)
	Add(product *models.Product, quantity int) ([]models.CartItem, error)
	UpdateQuantity(productID string, quantity int) ([]models.CartItem, error)
	Remove(productID string) ([]models.CartItem, error)
	Clear() error
}

// CartService selects the right CartStore implementation for an owner. It is
// the only place that branches on auth state; call sites work against the
// CartStore interface.
type CartService struct {
	repo  repositories.CartRepository
	guest *repositories.GuestCartStorage
}

// NewCartService creates a new CartService.
func NewCartService(repo repositories.CartRepository, guest *repositories.GuestCartStorage) *CartService {
	return &CartService{
		repo:  repo,
		guest: guest,
	}
}

// For returns the store for an owner: server-backed for users, session-backed
// for guests.
func (s *CartService) For(owner CartOwner) CartStore {
	if owner.Authenticated() {
		return s.ForUser(owner.UserID)
	}
	return s.ForSession(owner.SessionID)
}

// ForUser returns the server-persisted store of an authenticated user.
func (s *CartService) ForUser(userID string) CartStore {
	return &serverCartStore{repo: s.repo, userID: userID}
}

// ForSession returns the in-memory store of a guest session.
func (s *CartService) ForSession(sessionID string) CartStore {
	return &guestCartStore{storage: s.guest, sessionID: sessionID}
}

// snapshotItem freezes the product fields a cart line needs for display.
func snapshotItem(product *models.Product, quantity int) models.CartItem {
	return models.CartItem{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.PriceMinor,
		ImageURL:    product.FirstImage(),
		Quantity:    quantity,
		AddedAt:     time.Now(),
	}
}

// serverCartStore is the authenticated-mode CartStore. Every mutation is a
// server round-trip followed by a full re-read, so the caller never drifts
// from persisted truth. On error the persisted cart is left untouched.
type serverCartStore struct {
	repo   repositories.CartRepository
	userID string
}

func (s *serverCartStore) Get() ([]models.CartItem, error) {
	cart, err := s.repo.GetOrCreateByUser(s.userID)
	if err != nil {
		return nil, err
	}
	return cart.Items, nil
}

func (s *serverCartStore) Add(product *models.Product, quantity int) ([]models.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("add quantity must be positive, got %d", quantity)
	}
	cart, err := s.repo.GetOrCreateByUser(s.userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindItem(cart.ID, product.ID)
	switch {
	case err == nil:
		if err := s.repo.UpdateItemQuantity(cart.ID, product.ID, existing.Quantity+quantity); err != nil {
			return nil, err
		}
	case errors.Is(err, repositories.ErrNotFound):
		item := snapshotItem(product, quantity)
		item.CartID = cart.ID
		if err := s.repo.CreateItem(&item); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return s.Get()
}

func (s *serverCartStore) UpdateQuantity(productID string, quantity int) ([]models.CartItem, error) {
	if quantity <= 0 {
		return s.Remove(productID)
	}
	cart, err := s.repo.GetOrCreateByUser(s.userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateItemQuantity(cart.ID, productID, quantity); err != nil {
		// Setting a quantity on an absent line is a no-op, not an error.
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	}
	return s.Get()
}

func (s *serverCartStore) Remove(productID string) ([]models.CartItem, error) {
	cart, err := s.repo.GetOrCreateByUser(s.userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItem(cart.ID, productID); err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	}
	return s.Get()
}

func (s *serverCartStore) Clear() error {
	cart, err := s.repo.GetOrCreateByUser(s.userID)
	if err != nil {
		return err
	}
	return s.repo.ClearItems(cart.ID)
}

// guestCartStore is the guest-mode CartStore, backed by session-keyed
// in-process storage. Mutations are synchronous and persist on every change.
type guestCartStore struct {
	storage   *repositories.GuestCartStorage
	sessionID string
}

func (s *guestCartStore) Get() ([]models.CartItem, error) {
	return s.storage.Get(s.sessionID), nil
}

func (s *guestCartStore) Add(product *models.Product, quantity int) ([]models.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("add quantity must be positive, got %d", quantity)
	}
	items := s.storage.Get(s.sessionID)
	found := false
	for i := range items {
		if items[i].ProductID == product.ID {
			items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, snapshotItem(product, quantity))
	}
	s.storage.Set(s.sessionID, items)
	return s.Get()
}

func (s *guestCartStore) UpdateQuantity(productID string, quantity int) ([]models.CartItem, error) {
	if quantity <= 0 {
		return s.Remove(productID)
	}
	items := s.storage.Get(s.sessionID)
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			break
		}
	}
	s.storage.Set(s.sessionID, items)
	return s.Get()
}

func (s *guestCartStore) Remove(productID string) ([]models.CartItem, error) {
	items := s.storage.Get(s.sessionID)
	for i := range items {
		if items[i].ProductID == productID {
			items = append(items[:i], items[i+1:]...)
			break
		}
	}
	s.storage.Set(s.sessionID, items)
	return s.Get()
}

func (s *guestCartStore) Clear() error {
	s.storage.Clear(s.sessionID)
	return nil
}
