package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markstore/backend/internal/entity"
	"github.com/markstore/backend/internal/repository/memory"
)

func TestCartService_AddItemMergesLines(t *testing.T) {
	catalog := seedCatalog(entity.Product{Name: "AirPods Pro", Price: 4990, Stock: 10})
	svc := NewCartService(memory.NewCarts(), catalog)
	actor := shopperActor(1)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, actor, 1, 2))
	require.NoError(t, svc.AddItem(ctx, actor, 1, 3))

	cart, err := svc.Cart(ctx, actor)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1, "adding the same product twice must merge, not duplicate")
	assert.Equal(t, 5, cart.Lines[0].Quantity)
}

func TestCartService_AddItemRules(t *testing.T) {
	tests := []struct {
		name      string
		productID int64
		first     int
		quantity  int
		wantErr   error
	}{
		{name: "zero quantity", productID: 1, quantity: 0, wantErr: entity.ErrInvalidQuantity},
		{name: "negative quantity", productID: 1, quantity: -2, wantErr: entity.ErrInvalidQuantity},
		{name: "unknown product", productID: 9, quantity: 1, wantErr: entity.ErrProductNotFound},
		{name: "exceeds stock", productID: 1, quantity: 11, wantErr: entity.ErrInsufficientStock},
		{name: "merged quantity exceeds stock", productID: 1, first: 6, quantity: 5, wantErr: entity.ErrInsufficientStock},
		{name: "exactly the stock", productID: 1, quantity: 10},
		{name: "merged exactly the stock", productID: 1, first: 6, quantity: 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			catalog := seedCatalog(entity.Product{Name: "AirPods Pro", Price: 4990, Stock: 10})
			svc := NewCartService(memory.NewCarts(), catalog)
			actor := shopperActor(1)
			ctx := context.Background()

			if tc.first > 0 {
				require.NoError(t, svc.AddItem(ctx, actor, tc.productID, tc.first))
			}

			err := svc.AddItem(ctx, actor, tc.productID, tc.quantity)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				cart, _ := svc.Cart(ctx, actor)
				assert.Equal(t, tc.first, cart.Quantity(tc.productID), "failed add must not change the cart")
				return
			}
			require.NoError(t, err)
			cart, _ := svc.Cart(ctx, actor)
			assert.Equal(t, tc.first+tc.quantity, cart.Quantity(tc.productID))
		})
	}
}

func TestCartService_GuestsCannotTouchCarts(t *testing.T) {
	catalog := seedCatalog(entity.Product{Name: "AirPods Pro", Price: 4990, Stock: 10})
	svc := NewCartService(memory.NewCarts(), catalog)
	ctx := context.Background()

	assert.ErrorIs(t, svc.AddItem(ctx, nil, 1, 1), entity.ErrUnauthorized)
	assert.ErrorIs(t, svc.RemoveItem(ctx, nil, 1), entity.ErrUnauthorized)
	assert.ErrorIs(t, svc.Clear(ctx, nil), entity.ErrUnauthorized)
	_, err := svc.Cart(ctx, nil)
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}

func TestCartService_CartsAreIsolatedPerUser(t *testing.T) {
	catalog := seedCatalog(entity.Product{Name: "AirPods Pro", Price: 4990, Stock: 10})
	svc := NewCartService(memory.NewCarts(), catalog)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, shopperActor(1), 1, 2))
	require.NoError(t, svc.AddItem(ctx, shopperActor(2), 1, 7))

	first, _ := svc.Cart(ctx, shopperActor(1))
	second, _ := svc.Cart(ctx, shopperActor(2))
	assert.Equal(t, 2, first.Quantity(1))
	assert.Equal(t, 7, second.Quantity(1))
}

func TestCartService_RemoveAndClear(t *testing.T) {
	catalog := seedCatalog(
		entity.Product{Name: "AirPods Pro", Price: 4990, Stock: 10},
		entity.Product{Name: "iPhone 14", Price: 399990, Stock: 7},
	)
	svc := NewCartService(memory.NewCarts(), catalog)
	actor := shopperActor(1)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, actor, 1, 2))
	require.NoError(t, svc.AddItem(ctx, actor, 2, 1))

	require.NoError(t, svc.RemoveItem(ctx, actor, 1))
	cart, _ := svc.Cart(ctx, actor)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int64(2), cart.Lines[0].ProductID)

	// Removing a line that is not there is fine.
	require.NoError(t, svc.RemoveItem(ctx, actor, 99))

	require.NoError(t, svc.Clear(ctx, actor))
	cart, _ = svc.Cart(ctx, actor)
	assert.Empty(t, cart.Lines)
}

func TestCartService_Total(t *testing.T) {
	catalog := seedCatalog(
		entity.Product{Name: "AirPods Pro", Price: 4990, Stock: 10},
		entity.Product{Name: "iPhone 14", Price: 399990, Stock: 7},
	)
	svc := NewCartService(memory.NewCarts(), catalog)
	actor := shopperActor(1)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, actor, 1, 2))
	require.NoError(t, svc.AddItem(ctx, actor, 2, 1))

	total, err := svc.Total(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, int64(2*4990+399990), total)
}

func TestCartService_TotalShortCircuitsOnMissingProduct(t *testing.T) {
	catalog := seedCatalog(
		entity.Product{Name: "AirPods Pro", Price: 4990, Stock: 10},
		entity.Product{Name: "iPhone 14", Price: 399990, Stock: 7},
	)
	svc := NewCartService(memory.NewCarts(), catalog)
	actor := shopperActor(1)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, actor, 1, 2))
	require.NoError(t, svc.AddItem(ctx, actor, 2, 1))

	// The first line's product disappears; no partial sum may leak out.
	catalog.Delete(1)

	total, err := svc.Total(ctx, actor)
	require.ErrorIs(t, err, entity.ErrProductNotFound)
	assert.Contains(t, err.Error(), "product 1", "error must name the missing id")
	assert.Zero(t, total)
}
