package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupEntries_Empty(t *testing.T) {
	assert.Empty(t, GroupEntries(nil))
}

func TestGroupEntries_NoDuplicates(t *testing.T) {
	entries := []BasketEntry{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 2},
	}

	assert.Equal(t, entries, GroupEntries(entries))
}

func TestGroupEntries_SumsDuplicates(t *testing.T) {
	entries := []BasketEntry{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 2},
		{ProductID: "p1", Quantity: 3},
		{ProductID: "p2", Quantity: 1},
	}

	grouped := GroupEntries(entries)

	assert.Equal(t, []BasketEntry{
		{ProductID: "p1", Quantity: 4},
		{ProductID: "p2", Quantity: 3},
	}, grouped)
}

func TestGroupEntries_PreservesFirstAppearanceOrder(t *testing.T) {
	entries := []BasketEntry{
		{ProductID: "b", Quantity: 1},
		{ProductID: "a", Quantity: 1},
		{ProductID: "b", Quantity: 1},
	}

	grouped := GroupEntries(entries)

	assert.Equal(t, "b", grouped[0].ProductID)
	assert.Equal(t, "a", grouped[1].ProductID)
}
