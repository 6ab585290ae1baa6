package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTotals(t *testing.T) {
	o := Order{
		Items: []LineItem{
			{ID: "A", UnitPrice: 10, Quantity: 2},
			{ID: "B", UnitPrice: 3.5, Quantity: 4},
		},
		AdditionalCharges: 5,
		Discount:          9,
	}

	assert.InDelta(t, 34, o.Subtotal(), 1e-9)
	assert.InDelta(t, o.Subtotal()+o.AdditionalCharges-o.Discount, o.Total(), 1e-9)

	// replacing the snapshot recomputes, nothing is cached
	o.Items = []LineItem{{ID: "C", UnitPrice: 100, Quantity: 1}}
	assert.InDelta(t, 100, o.Subtotal(), 1e-9)
	assert.InDelta(t, 96, o.Total(), 1e-9)
}

func TestOrderTotalsEmpty(t *testing.T) {
	o := Order{Discount: 2, AdditionalCharges: 7}
	assert.InDelta(t, 0, o.Subtotal(), 1e-9)
	assert.InDelta(t, 5, o.Total(), 1e-9)
}

func TestLineItemSnapshotRoundTrip(t *testing.T) {
	items := []LineItem{{ID: "A", Description: "Parafuso M4", UnitPrice: 10, Quantity: 2}}

	encoded, err := json.Marshal(items)
	require.NoError(t, err)

	var decoded []LineItem
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, items, decoded)
}

func TestCustomerPatchApply(t *testing.T) {
	c := Customer{Name: "Maria", City: "Curitiba", Phone: "41 99999-0000"}

	city := "Londrina"
	empty := ""
	patch := CustomerPatch{City: &city, Phone: &empty}
	patch.Apply(&c)

	assert.Equal(t, "Maria", c.Name)
	assert.Equal(t, "Londrina", c.City)
	assert.Equal(t, "", c.Phone)

	var nilPatch *CustomerPatch
	nilPatch.Apply(&c)
	assert.Equal(t, "Maria", c.Name)
}
