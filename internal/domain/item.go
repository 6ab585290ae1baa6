package domain

// Item is a reusable catalog entry. Quantity has no meaning at this level;
// reads annotate a default of 1 so catalog rows and order line items share
// one wire shape.
type Item struct {
	ID          string  `gorm:"primaryKey;size:64" json:"id"`
	Description string  `gorm:"size:255;not null" json:"description"`
	UnitPrice   float64 `gorm:"type:decimal(12,2)" json:"unit_price"`
}

type ItemForm struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
}

// LineItem is the order-embedded snapshot of a catalog item: a value copy
// taken when the item is added to an order. Description and price stay frozen
// even if the catalog record is later edited or deleted; edits go through the
// order, never through the catalog.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    float64 `json:"quantity"`
}

// Snapshot returns the line item view of a catalog entry.
func (i Item) Snapshot(quantity float64) LineItem {
	return LineItem{
		ID:          i.ID,
		Description: i.Description,
		UnitPrice:   i.UnitPrice,
		Quantity:    quantity,
	}
}
