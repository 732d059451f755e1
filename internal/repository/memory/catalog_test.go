package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markstore/backend/internal/entity"
)

func TestCatalog_UpsertAllocatesSequentialIDs(t *testing.T) {
	c := NewCatalog()

	first := c.Upsert(entity.Product{Name: "Keyboard", Price: 100, Stock: 5})
	second := c.Upsert(entity.Product{Name: "Mouse", Price: 50, Stock: 3})

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}

func TestCatalog_UpsertReplacesByID(t *testing.T) {
	c := NewCatalog()
	p := c.Upsert(entity.Product{Name: "Keyboard", Price: 100, Stock: 5})

	p.Price = 120
	c.Upsert(p)

	got, ok := c.Get(p.ID)
	require.True(t, ok)
	assert.Equal(t, int64(120), got.Price)
	assert.Len(t, c.List(), 1)
}

func TestCatalog_IDsNeverReusedAfterDelete(t *testing.T) {
	c := NewCatalog()
	c.Upsert(entity.Product{Name: "Keyboard"})
	highest := c.Upsert(entity.Product{Name: "Mouse"})

	c.Delete(highest.ID)
	replacement := c.Upsert(entity.Product{Name: "Monitor"})

	assert.Greater(t, replacement.ID, highest.ID)
}

func TestCatalog_ListKeepsInsertionOrder(t *testing.T) {
	c := NewCatalog()
	names := []string{"Keyboard", "Mouse", "Monitor", "Desk"}
	for _, n := range names {
		c.Upsert(entity.Product{Name: n})
	}

	// Deleting from the middle must not disturb the order of the rest.
	c.Delete(2)

	got := c.List()
	require.Len(t, got, 3)
	assert.Equal(t, "Keyboard", got[0].Name)
	assert.Equal(t, "Monitor", got[1].Name)
	assert.Equal(t, "Desk", got[2].Name)
}

func TestCatalog_DeleteAbsentIsNoop(t *testing.T) {
	c := NewCatalog()
	c.Upsert(entity.Product{Name: "Keyboard"})

	c.Delete(42)

	assert.Len(t, c.List(), 1)
}

func TestCatalog_AdjustStock(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		delta     int
		wantStock int
		wantErr   error
	}{
		{name: "decrement within stock", start: 5, delta: -3, wantStock: 2},
		{name: "decrement to zero", start: 5, delta: -5, wantStock: 0},
		{name: "increment", start: 5, delta: 4, wantStock: 9},
		{name: "decrement below zero rejected", start: 5, delta: -6, wantErr: entity.ErrInsufficientStock},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCatalog()
			p := c.Upsert(entity.Product{Name: "Keyboard", Stock: tc.start})

			got, err := c.AdjustStock(p.ID, tc.delta)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				current, _ := c.Get(p.ID)
				assert.Equal(t, tc.start, current.Stock, "failed adjust must not change stock")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantStock, got)
			current, _ := c.Get(p.ID)
			assert.Equal(t, tc.wantStock, current.Stock)
		})
	}
}

func TestCatalog_AdjustStockUnknownProduct(t *testing.T) {
	c := NewCatalog()

	_, err := c.AdjustStock(7, -1)

	assert.ErrorIs(t, err, entity.ErrProductNotFound)
}

func TestCatalog_VersionBumpsOnEveryMutation(t *testing.T) {
	c := NewCatalog()
	assert.Equal(t, uint64(0), c.Version())

	p := c.Upsert(entity.Product{Name: "Keyboard", Stock: 5})
	v1 := c.Version()
	assert.Equal(t, uint64(1), v1)

	c.AdjustStock(p.ID, -1)
	v2 := c.Version()
	assert.Greater(t, v2, v1)

	c.Delete(p.ID)
	assert.Greater(t, c.Version(), v2)

	// Reads leave the version alone.
	c.List()
	c.Get(p.ID)
	assert.Equal(t, uint64(3), c.Version())
}
