package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCart(t *testing.T) {
	cart := NewCart(42)

	assert.Empty(t, cart.ID)
	assert.Equal(t, int64(42), cart.UserID)
	assert.NotNil(t, cart.Lines)
	assert.Empty(t, cart.Lines)
	assert.True(t, cart.IsEmpty())
	assert.Zero(t, cart.TotalQuantity)
	assert.True(t, cart.TotalPrice.IsZero())
	assert.False(t, cart.CreatedAt.IsZero())
}

func TestCart_FindLine(t *testing.T) {
	cart := NewCart(1)
	cart.Lines = []CartLine{
		{BookID: 10, Quantity: 1},
		{BookID: 20, Quantity: 2},
	}

	assert.Equal(t, 0, cart.FindLine(10))
	assert.Equal(t, 1, cart.FindLine(20))
	assert.Equal(t, -1, cart.FindLine(30))
}

func TestCart_RemoveLine(t *testing.T) {
	cart := NewCart(1)
	cart.Lines = []CartLine{
		{BookID: 10, Quantity: 1},
		{BookID: 20, Quantity: 2},
		{BookID: 30, Quantity: 3},
	}

	cart.RemoveLine(1)

	require.Len(t, cart.Lines, 2)
	assert.Equal(t, int64(10), cart.Lines[0].BookID)
	assert.Equal(t, int64(30), cart.Lines[1].BookID)
}

func TestCart_SumQuantities(t *testing.T) {
	cart := NewCart(1)
	assert.Zero(t, cart.SumQuantities())

	cart.Lines = []CartLine{
		{BookID: 10, Quantity: 2},
		{BookID: 20, Quantity: 3},
	}
	assert.Equal(t, 5, cart.SumQuantities())
}

func TestWishlist_FindAndRemove(t *testing.T) {
	list := NewWishlist(1)
	assert.True(t, list.IsEmpty())

	list.Lines = []WishlistLine{{BookID: 10}, {BookID: 20}}
	assert.Equal(t, 1, list.FindLine(20))
	assert.Equal(t, -1, list.FindLine(99))

	list.RemoveLine(0)
	require.Len(t, list.Lines, 1)
	assert.Equal(t, int64(20), list.Lines[0].BookID)
}
