package domain

import (
	"github.com/google/uuid"
)

// Attachment is a file bound to one order. It has no lifecycle of its own;
// the order's attachment collection is always replaced as a whole.
type Attachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Order is the central aggregate: a customer reference, a frozen line item
// snapshot, attachments and the scalar fields of the printable order form.
// Subtotal and Total are derived, never stored.
type Order struct {
	ID                uuid.UUID    `json:"id"`
	Number            string       `json:"number"`
	OrderDate         int64        `json:"order_date"`
	Validity          *int64       `json:"validity,omitempty"`
	Discount          float64      `json:"discount"`
	AdditionalCharges float64      `json:"additional_charges"`
	Notes             string       `json:"notes,omitempty"`
	PaymentTerms      string       `json:"payment_terms,omitempty"`
	Items             []LineItem   `json:"items"`
	Attachments       []Attachment `json:"attachments"`
	CustomerID        uuid.UUID    `json:"customer_id"`
	Customer          Customer     `json:"customer"`
}

// Subtotal recomputes the item sum on every call so it can never drift from
// the snapshot after an items replacement.
func (o *Order) Subtotal() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.UnitPrice * it.Quantity
	}
	return total
}

func (o *Order) Total() float64 {
	return o.Subtotal() + o.AdditionalCharges - o.Discount
}

// OrderForm is the creation payload.
type OrderForm struct {
	Customer          CustomerForm `json:"customer"`
	Items             []LineItem   `json:"items"`
	Number            string       `json:"number,omitempty"`
	OrderDate         int64        `json:"order_date"`
	Validity          *int64       `json:"validity,omitempty"`
	Discount          float64      `json:"discount"`
	AdditionalCharges float64      `json:"additional_charges"`
	Notes             string       `json:"notes,omitempty"`
	PaymentTerms      string       `json:"payment_terms,omitempty"`
}

// OrderPatch is a partial update. Nil fields are untouched; Items and
// Attachments replace the stored collections wholesale, Customer merges into
// the existing customer record.
type OrderPatch struct {
	Notes             *string        `json:"notes,omitempty"`
	PaymentTerms      *string        `json:"payment_terms,omitempty"`
	Items             *[]LineItem    `json:"items,omitempty"`
	Attachments       *[]Attachment  `json:"attachments,omitempty"`
	AdditionalCharges *float64       `json:"additional_charges,omitempty"`
	Discount          *float64       `json:"discount,omitempty"`
	Validity          *int64         `json:"validity,omitempty"`
	Number            *string        `json:"number,omitempty"`
	Customer          *CustomerPatch `json:"customer,omitempty"`
}

// FileUpload is a raw uploaded payload paired positionally with its
// attachment metadata.
type FileUpload struct {
	Name string
	Data []byte
}
