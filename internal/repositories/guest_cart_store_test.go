package repositories_test

import (
	"testing"
	"time"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"
	"github.com/Atwoto/solara-mvp-sub000/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func TestGuestCartStorage_SetGetClear(t *testing.T) {
	storage := repositories.NewGuestCartStorage()

	assert.Empty(t, storage.Get("sess-1"))

	storage.Set("sess-1", []models.CartItem{{ProductID: "prod-x", Quantity: 2}})
	items := storage.Get("sess-1")
	assert.Len(t, items, 1)
	assert.Equal(t, "prod-x", items[0].ProductID)

	// Mutating the returned slice must not leak into storage.
	items[0].Quantity = 99
	assert.Equal(t, 2, storage.Get("sess-1")[0].Quantity)

	// Setting empty drops the session entirely.
	storage.Set("sess-1", nil)
	assert.Empty(t, storage.Get("sess-1"))

	storage.Set("sess-2", []models.CartItem{{ProductID: "prod-y", Quantity: 1}})
	storage.Clear("sess-2")
	assert.Empty(t, storage.Get("sess-2"))
}

func TestGuestCartStorage_PurgeIdle(t *testing.T) {
	storage := repositories.NewGuestCartStorage()
	storage.Set("sess-1", []models.CartItem{{ProductID: "prod-x", Quantity: 1}})
	storage.Set("sess-2", []models.CartItem{{ProductID: "prod-y", Quantity: 1}})

	// A generous idle window keeps everything.
	assert.Equal(t, 0, storage.PurgeIdle(time.Hour))
	assert.Len(t, storage.Get("sess-1"), 1)

	// A zero window treats every session as idle.
	assert.Equal(t, 2, storage.PurgeIdle(0))
	assert.Empty(t, storage.Get("sess-1"))
	assert.Empty(t, storage.Get("sess-2"))
}
