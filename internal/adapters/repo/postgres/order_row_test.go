package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/procar/internal/domain"
)

func TestRowRoundTrip(t *testing.T) {
	validity := int64(1702857600000)
	o := &domain.Order{
		ID:                uuid.New(),
		Number:            "12",
		OrderDate:         1700000000000,
		Validity:          &validity,
		Discount:          10.5,
		AdditionalCharges: 3,
		Notes:             "entrega urgente",
		PaymentTerms:      "30 días",
		Items: []domain.LineItem{
			{ID: "A", Description: "Parafuso", UnitPrice: 10, Quantity: 2},
			{ID: "B", Description: "Porca", UnitPrice: 0.5, Quantity: 8},
		},
		Attachments: []domain.Attachment{
			{ID: "a1", Filename: "frente.png", URL: "/uploads/orders/x/frente.png", Width: 800, Height: 600},
		},
		CustomerID: uuid.New(),
	}

	row, err := toRow(o)
	require.NoError(t, err)
	assert.Equal(t, "1700000000000", row.OrderDate)
	require.NotNil(t, row.Validity)
	assert.Equal(t, "1702857600000", *row.Validity)

	back, err := fromRow(row)
	require.NoError(t, err)
	assert.Equal(t, o.OrderDate, back.OrderDate)
	require.NotNil(t, back.Validity)
	assert.Equal(t, *o.Validity, *back.Validity)
	assert.Equal(t, o.Items, back.Items)
	assert.Equal(t, o.Attachments, back.Attachments)
	assert.Equal(t, o.Number, back.Number)
	assert.InDelta(t, o.Discount, back.Discount, 1e-9)
}

func TestRowRoundTripEmpty(t *testing.T) {
	o := &domain.Order{ID: uuid.New(), Number: "1", OrderDate: 1, CustomerID: uuid.New()}

	row, err := toRow(o)
	require.NoError(t, err)
	assert.Nil(t, row.Validity)
	assert.Equal(t, "null", row.Items)

	back, err := fromRow(row)
	require.NoError(t, err)
	assert.Nil(t, back.Validity)
	assert.NotNil(t, back.Items)
	assert.Empty(t, back.Items)
	assert.NotNil(t, back.Attachments)
}

func TestFromRowLegacyBlankFields(t *testing.T) {
	row := orderRow{ID: uuid.New(), Number: "1"}

	back, err := fromRow(row)
	require.NoError(t, err)
	assert.Zero(t, back.OrderDate)
	assert.Empty(t, back.Items)
	assert.Empty(t, back.Attachments)
}
