package services_test

import (
	"errors"
	"testing"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"
	"github.com/Atwoto/solara-mvp-sub000/internal/repositories"
	"github.com/Atwoto/solara-mvp-sub000/internal/services"

	"github.com/stretchr/testify/assert"
)

func mergeFixture(t *testing.T) (*services.CartService, *repositories.MockProductRepository, *services.MergeCoordinator) {
	t.Helper()
	products := repositories.NewMockProductRepository()
	assert.NoError(t, products.Create(product("prod-x", 1000)))
	assert.NoError(t, products.Create(product("prod-y", 2500)))
	carts := newCartService()
	return carts, products, services.NewMergeCoordinator(carts, products)
}

func TestMergeOnLogin_MovesGuestCartToServer(t *testing.T) {
	carts, products, merger := mergeFixture(t)

	p, err := products.GetByID("prod-x")
	assert.NoError(t, err)
	_, err = carts.ForSession("sess-1").Add(p, 2)
	assert.NoError(t, err)

	merged, err := merger.MergeOnLogin("sess-1", "user-1")
	assert.NoError(t, err)
	assert.Len(t, merged, 1)
	assert.Equal(t, "prod-x", merged[0].ProductID)
	assert.Equal(t, 2, merged[0].Quantity)

	// Guest storage is discarded after the fold.
	guestItems, err := carts.ForSession("sess-1").Get()
	assert.NoError(t, err)
	assert.Empty(t, guestItems)
}

func TestMergeOnLogin_QuantitiesSum(t *testing.T) {
	carts, products, merger := mergeFixture(t)

	p, err := products.GetByID("prod-x")
	assert.NoError(t, err)

	// Server cart already holds 3, guest holds 2 of the same product.
	_, err = carts.ForUser("user-1").Add(p, 3)
	assert.NoError(t, err)
	_, err = carts.ForSession("sess-1").Add(p, 2)
	assert.NoError(t, err)

	merged, err := merger.MergeOnLogin("sess-1", "user-1")
	assert.NoError(t, err)
	assert.Len(t, merged, 1)
	assert.Equal(t, 5, merged[0].Quantity)
}

func TestMergeOnLogin_SecondRunIsNoop(t *testing.T) {
	carts, products, merger := mergeFixture(t)

	p, err := products.GetByID("prod-x")
	assert.NoError(t, err)
	_, err = carts.ForSession("sess-1").Add(p, 2)
	assert.NoError(t, err)

	first, err := merger.MergeOnLogin("sess-1", "user-1")
	assert.NoError(t, err)
	second, err := merger.MergeOnLogin("sess-1", "user-1")
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, second, 1)
	assert.Equal(t, 2, second[0].Quantity)
}

func TestMergeOnLogin_PurgedMarkerIsHarmless(t *testing.T) {
	carts, products, merger := mergeFixture(t)

	p, err := products.GetByID("prod-x")
	assert.NoError(t, err)
	_, err = carts.ForSession("sess-1").Add(p, 2)
	assert.NoError(t, err)

	first, err := merger.MergeOnLogin("sess-1", "user-1")
	assert.NoError(t, err)

	// Dropping the marker must not reopen the door to double-counting: the
	// guest lines were consumed by the first merge.
	merger.PurgeMerged()
	second, err := merger.MergeOnLogin("sess-1", "user-1")
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMergeOnLogin_EmptyGuestCart(t *testing.T) {
	carts, products, merger := mergeFixture(t)

	p, err := products.GetByID("prod-y")
	assert.NoError(t, err)
	_, err = carts.ForUser("user-1").Add(p, 1)
	assert.NoError(t, err)

	merged, err := merger.MergeOnLogin("sess-vacant", "user-1")
	assert.NoError(t, err)
	assert.Len(t, merged, 1)
	assert.Equal(t, "prod-y", merged[0].ProductID)
}

func TestMergeOnLogin_NoSessionReturnsServerCart(t *testing.T) {
	carts, products, merger := mergeFixture(t)

	p, err := products.GetByID("prod-y")
	assert.NoError(t, err)
	_, err = carts.ForUser("user-1").Add(p, 4)
	assert.NoError(t, err)

	merged, err := merger.MergeOnLogin("", "user-1")
	assert.NoError(t, err)
	assert.Len(t, merged, 1)
	assert.Equal(t, 4, merged[0].Quantity)
}

// faultyCartRepo fails CreateItem for one product, simulating a storage
// fault partway through a multi-line merge.
type faultyCartRepo struct {
	*repositories.MockCartRepository
	failProduct string
}

func (r *faultyCartRepo) CreateItem(item *models.CartItem) error {
	if item.ProductID == r.failProduct {
		return errors.New("write timeout")
	}
	return r.MockCartRepository.CreateItem(item)
}

func TestMergeOnLogin_RetryAfterPartialFailure(t *testing.T) {
	products := repositories.NewMockProductRepository()
	assert.NoError(t, products.Create(product("prod-x", 1000)))
	assert.NoError(t, products.Create(product("prod-y", 2500)))
	repo := &faultyCartRepo{
		MockCartRepository: repositories.NewMockCartRepository(),
		failProduct:        "prod-y",
	}
	carts := services.NewCartService(repo, repositories.NewGuestCartStorage())
	merger := services.NewMergeCoordinator(carts, products)

	px, err := products.GetByID("prod-x")
	assert.NoError(t, err)
	py, err := products.GetByID("prod-y")
	assert.NoError(t, err)
	guest := carts.ForSession("sess-1")
	_, err = guest.Add(px, 2)
	assert.NoError(t, err)
	_, err = guest.Add(py, 3)
	assert.NoError(t, err)

	// First pass lands prod-x, then dies on prod-y.
	_, err = merger.MergeOnLogin("sess-1", "user-1")
	assert.Error(t, err)

	// The merged line was consumed from the guest cart; only the failed
	// line is left for the retry.
	guestItems, err := guest.Get()
	assert.NoError(t, err)
	assert.Len(t, guestItems, 1)
	assert.Equal(t, "prod-y", guestItems[0].ProductID)

	// Storage recovers; the retry must only process the remainder.
	repo.failProduct = ""
	merged, err := merger.MergeOnLogin("sess-1", "user-1")
	assert.NoError(t, err)

	quantities := make(map[string]int)
	for _, item := range merged {
		quantities[item.ProductID] = item.Quantity
	}
	assert.Equal(t, map[string]int{"prod-x": 2, "prod-y": 3}, quantities)

	guestItems, err = guest.Get()
	assert.NoError(t, err)
	assert.Empty(t, guestItems)
}

func TestMergeOnLogin_SkipsDelistedProducts(t *testing.T) {
	carts, products, merger := mergeFixture(t)

	px, err := products.GetByID("prod-x")
	assert.NoError(t, err)
	py, err := products.GetByID("prod-y")
	assert.NoError(t, err)

	guest := carts.ForSession("sess-1")
	_, err = guest.Add(px, 1)
	assert.NoError(t, err)
	_, err = guest.Add(py, 1)
	assert.NoError(t, err)

	// prod-y disappears from the catalog before login.
	assert.NoError(t, products.Delete("prod-y"))

	merged, err := merger.MergeOnLogin("sess-1", "user-1")
	assert.NoError(t, err)
	assert.Len(t, merged, 1)
	assert.Equal(t, "prod-x", merged[0].ProductID)
}
