package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartLine_LineTotal(t *testing.T) {
	line := CartLine{
		UnitPrice: 3000,
		Quantity:  2,
		Options: []CartOption{
			{ID: 1, Name: "Large", Price: 500},
			{ID: 2, Name: "Extra shot", Price: 300},
		},
	}

	assert.Equal(t, int64(3800), line.LineUnitPrice())
	assert.Equal(t, int64(7600), line.LineTotal())
}

func TestCartLine_MatchesOptions(t *testing.T) {
	line := CartLine{
		Options: []CartOption{
			{ID: 1}, {ID: 3},
		},
	}

	assert.True(t, line.MatchesOptions([]uint{1, 3}))
	assert.True(t, line.MatchesOptions([]uint{3, 1}))
	assert.False(t, line.MatchesOptions([]uint{1}))
	assert.False(t, line.MatchesOptions([]uint{1, 2}))
	assert.False(t, line.MatchesOptions(nil))

	bare := CartLine{}
	assert.True(t, bare.MatchesOptions(nil))
	assert.False(t, bare.MatchesOptions([]uint{1}))
}

func TestCart_Total(t *testing.T) {
	cart := Cart{
		Lines: []CartLine{
			{UnitPrice: 3000, Quantity: 2},
			{UnitPrice: 5500, Quantity: 1, Options: []CartOption{{ID: 1, Price: 500}}},
		},
	}

	assert.Equal(t, int64(12000), cart.Total())
	assert.False(t, cart.IsEmpty())
}

func TestCart_FindLine(t *testing.T) {
	cart := Cart{
		Lines: []CartLine{
			{ProductID: 1},
			{ProductID: 1, Options: []CartOption{{ID: 7}}},
			{ProductID: 2},
		},
	}

	assert.Equal(t, 0, cart.FindLine(1, nil))
	assert.Equal(t, 1, cart.FindLine(1, []uint{7}))
	assert.Equal(t, 2, cart.FindLine(2, nil))
	assert.Equal(t, -1, cart.FindLine(3, nil))
	assert.Equal(t, -1, cart.FindLine(2, []uint{7}))
}
