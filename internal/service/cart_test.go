package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mummysfood/backend/internal/cart"
	"github.com/mummysfood/backend/internal/models"
	"github.com/mummysfood/backend/internal/service"
	"github.com/mummysfood/backend/internal/testhelpers"
)

func TestCartService(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewCartService(db, cart.NewMemoryStore(time.Hour))
	ctx := context.Background()

	chef := testhelpers.CreateTestUser(t, db, true)
	buyer := testhelpers.CreateTestUser(t, db, false)
	addr := testhelpers.CreateTestAddress(t, db, chef.ID, 1, 1)
	curry := testhelpers.CreateTestMeal(t, db, chef.ID, addr.ID, func(m *models.Meal) { m.Name = "Curry"; m.Price = 9.5 })
	naan := testhelpers.CreateTestMeal(t, db, chef.ID, addr.ID, func(m *models.Meal) { m.Name = "Naan"; m.Price = 2 })

	c, err := svc.AddItem(ctx, buyer.ID, curry.ID, 1)
	require.NoError(t, err)
	c, err = svc.AddItem(ctx, buyer.ID, curry.ID, 1)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, "Curry", c.Items[0].Name)

	c, err = svc.AddItem(ctx, buyer.ID, naan.ID, 3)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, c.Total(), 1e-9)

	// the price seen at add time sticks
	require.NoError(t, db.Model(curry).Update("price", 100).Error)
	c, err = svc.Get(ctx, buyer.ID)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, c.Total(), 1e-9)

	c, err = svc.SetQuantity(ctx, buyer.ID, naan.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = svc.RemoveItem(ctx, buyer.ID, naan.ID)
	assert.True(t, service.IsNotFound(err))

	require.NoError(t, svc.Clear(ctx, buyer.ID))
	c, err = svc.Get(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())

	// carts are per user
	other, err := svc.Get(ctx, chef.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, other.Len())
}

func TestCartServiceValidation(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewCartService(db, cart.NewMemoryStore(time.Hour))
	ctx := context.Background()
	buyer := testhelpers.CreateTestUser(t, db, false)

	_, err := svc.AddItem(ctx, buyer.ID, uuid.New(), 1)
	assert.True(t, service.IsNotFound(err))

	_, err = svc.AddItem(ctx, buyer.ID, uuid.New(), 0)
	assert.True(t, service.IsValidation(err))

	_, err = svc.SetQuantity(ctx, buyer.ID, uuid.New(), 2)
	assert.True(t, service.IsNotFound(err))
}

func TestCartServiceLeavesInventory(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewCartService(db, cart.NewMemoryStore(time.Hour))
	chef := testhelpers.CreateTestUser(t, db, true)
	buyer := testhelpers.CreateTestUser(t, db, false)
	addr := testhelpers.CreateTestAddress(t, db, chef.ID, 1, 1)
	meal := testhelpers.CreateTestMeal(t, db, chef.ID, addr.ID, func(m *models.Meal) { m.QuantityAvailable = 2 })

	_, err := svc.AddItem(context.Background(), buyer.ID, meal.ID, 5)
	require.NoError(t, err)

	var reloaded models.Meal
	require.NoError(t, db.First(&reloaded, "id = ?", meal.ID).Error)
	assert.Equal(t, 2, reloaded.QuantityAvailable)
}
