package services_test

import (
	"testing"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"
	"github.com/Atwoto/solara-mvp-sub000/internal/repositories"
	"github.com/Atwoto/solara-mvp-sub000/internal/services"

	"github.com/stretchr/testify/assert"
)

func newCartService() *services.CartService {
	return services.NewCartService(repositories.NewMockCartRepository(), repositories.NewGuestCartStorage())
}

func product(id string, price int64) *models.Product {
	return &models.Product{ID: id, Name: "Product " + id, PriceMinor: price, Category: "panels"}
}

// Each store implementation must satisfy the same contract; run the suite
// against both.
func eachStore(t *testing.T, test func(t *testing.T, store services.CartStore)) {
	t.Run("server", func(t *testing.T) {
		test(t, newCartService().ForUser("user-1"))
	})
	t.Run("guest", func(t *testing.T) {
		test(t, newCartService().ForSession("sess-1"))
	})
}

func TestCartStore_AddIncrementsExistingLine(t *testing.T) {
	eachStore(t, func(t *testing.T, store services.CartStore) {
		p := product("prod-x", 1000)

		items, err := store.Add(p, 2)
		assert.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)

		// A second add increments, never overwrites.
		items, err = store.Add(p, 3)
		assert.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, 5, items[0].Quantity)
		assert.Equal(t, int64(1000), items[0].UnitPrice)
	})
}

func TestCartStore_AddRejectsNonPositiveQuantity(t *testing.T) {
	eachStore(t, func(t *testing.T, store services.CartStore) {
		_, err := store.Add(product("prod-x", 100), 0)
		assert.Error(t, err)
		_, err = store.Add(product("prod-x", 100), -2)
		assert.Error(t, err)

		items, err := store.Get()
		assert.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestCartStore_UpdateQuantitySetsAbsolute(t *testing.T) {
	eachStore(t, func(t *testing.T, store services.CartStore) {
		p := product("prod-x", 1000)
		_, err := store.Add(p, 4)
		assert.NoError(t, err)

		items, err := store.UpdateQuantity("prod-x", 2)
		assert.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
	})
}

func TestCartStore_UpdateQuantityFloorRemovesLine(t *testing.T) {
	eachStore(t, func(t *testing.T, store services.CartStore) {
		p := product("prod-x", 1000)
		_, err := store.Add(p, 4)
		assert.NoError(t, err)

		for _, q := range []int{0, -1, -99} {
			_, err := store.Add(p, 1)
			assert.NoError(t, err)
			items, err := store.UpdateQuantity("prod-x", q)
			assert.NoError(t, err)
			assert.Empty(t, items, "quantity %d must remove the line", q)
		}
	})
}

func TestCartStore_RemoveIsIdempotent(t *testing.T) {
	eachStore(t, func(t *testing.T, store services.CartStore) {
		_, err := store.Add(product("prod-x", 1000), 1)
		assert.NoError(t, err)

		items, err := store.Remove("prod-x")
		assert.NoError(t, err)
		assert.Empty(t, items)

		// Removing an absent line is a no-op, not an error.
		items, err = store.Remove("prod-x")
		assert.NoError(t, err)
		assert.Empty(t, items)

		items, err = store.Remove("never-added")
		assert.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestCartStore_Clear(t *testing.T) {
	eachStore(t, func(t *testing.T, store services.CartStore) {
		_, err := store.Add(product("prod-x", 1000), 1)
		assert.NoError(t, err)
		_, err = store.Add(product("prod-y", 2000), 2)
		assert.NoError(t, err)

		assert.NoError(t, store.Clear())
		items, err := store.Get()
		assert.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestCartStore_SnapshotsProductFields(t *testing.T) {
	eachStore(t, func(t *testing.T, store services.CartStore) {
		p := &models.Product{
			ID:         "prod-x",
			Name:       "400W Panel",
			PriceMinor: 129900,
			Images:     []string{"https://img.example/panel.jpg"},
		}
		items, err := store.Add(p, 1)
		assert.NoError(t, err)
		assert.Equal(t, "400W Panel", items[0].ProductName)
		assert.Equal(t, int64(129900), items[0].UnitPrice)
		assert.Equal(t, "https://img.example/panel.jpg", items[0].ImageURL)
	})
}

func TestCartService_StoresAreIsolatedPerOwner(t *testing.T) {
	svc := newCartService()
	p := product("prod-x", 1000)

	_, err := svc.ForUser("user-1").Add(p, 1)
	assert.NoError(t, err)
	_, err = svc.ForSession("sess-9").Add(p, 5)
	assert.NoError(t, err)

	userItems, err := svc.ForUser("user-1").Get()
	assert.NoError(t, err)
	assert.Len(t, userItems, 1)
	assert.Equal(t, 1, userItems[0].Quantity)

	otherUser, err := svc.ForUser("user-2").Get()
	assert.NoError(t, err)
	assert.Empty(t, otherUser)

	guestItems, err := svc.ForSession("sess-9").Get()
	assert.NoError(t, err)
	assert.Equal(t, 5, guestItems[0].Quantity)
}

func TestCartService_ForSelectsByAuthState(t *testing.T) {
	svc := newCartService()
	p := product("prod-x", 1000)

	authed := services.CartOwner{UserID: "user-1", SessionID: "sess-1"}
	guest := services.CartOwner{SessionID: "sess-1"}

	// An authenticated owner's operations must hit the server cart even if
	// a session id is also present.
	_, err := svc.For(authed).Add(p, 2)
	assert.NoError(t, err)

	guestItems, err := svc.For(guest).Get()
	assert.NoError(t, err)
	assert.Empty(t, guestItems)

	userItems, err := svc.ForUser("user-1").Get()
	assert.NoError(t, err)
	assert.Len(t, userItems, 1)
}
