package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/phenrril/procar/internal/domain"
)

// orderRow is the storage shape of the aggregate. Items and attachments are
// serialized JSON, dates are string-encoded epoch millis; numeric equality
// must survive the round trip.
type orderRow struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number            string          `gorm:"size:30"`
	OrderDate         string          `gorm:"size:30"`
	Validity          *string         `gorm:"size:30"`
	Discount          float64         `gorm:"type:decimal(12,2)"`
	AdditionalCharges float64         `gorm:"type:decimal(12,2)"`
	Notes             string          `gorm:"type:text"`
	PaymentTerms      string          `gorm:"type:text"`
	Items             string          `gorm:"type:text"`
	Attachments       string          `gorm:"type:text"`
	CustomerID        uuid.UUID       `gorm:"type:uuid;index"`
	Customer          domain.Customer `gorm:"foreignKey:CustomerID"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (orderRow) TableName() string { return "orders" }

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	var rows []orderRow
	if err := r.db.WithContext(ctx).Preload("Customer").Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		o, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, nil
}

func (r *OrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var row orderRow
	if err := r.db.WithContext(ctx).Preload("Customer").First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return fromRow(row)
}

func (r *OrderRepo) FindByNumber(ctx context.Context, number string) (*domain.Order, error) {
	var row orderRow
	if err := r.db.WithContext(ctx).Preload("Customer").First(&row, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return fromRow(row)
}

// Create persists the order together with its customer: an id matching an
// existing customer connects to that record as-is, anything else creates one.
// The order is refreshed in place with the persisted state.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cust := o.Customer
		connected := false
		if cust.ID != uuid.Nil {
			var existing domain.Customer
			err := tx.First(&existing, "id = ?", cust.ID).Error
			switch {
			case err == nil:
				cust = existing
				connected = true
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return err
			}
		}
		if !connected {
			if cust.ID == uuid.Nil {
				cust.ID = uuid.New()
			}
			if err := tx.Create(&cust).Error; err != nil {
				return err
			}
		}
		o.Customer = cust
		o.CustomerID = cust.ID

		row, err := toRow(o)
		if err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(&row).Error
	})
}

// Update applies the patch, merges nested customer fields into the existing
// customer record and returns the reloaded aggregate.
func (r *OrderRepo) Update(ctx context.Context, id uuid.UUID, patch domain.OrderPatch) (*domain.Order, error) {
	var out *domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row orderRow
		if err := tx.Preload("Customer").First(&row, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		updates := map[string]any{}
		if patch.Notes != nil {
			updates["notes"] = *patch.Notes
		}
		if patch.PaymentTerms != nil {
			updates["payment_terms"] = *patch.PaymentTerms
		}
		if patch.Items != nil {
			encoded, err := encodeJSON(*patch.Items)
			if err != nil {
				return err
			}
			updates["items"] = encoded
		}
		if patch.Attachments != nil {
			encoded, err := encodeJSON(*patch.Attachments)
			if err != nil {
				return err
			}
			updates["attachments"] = encoded
		}
		if patch.AdditionalCharges != nil {
			updates["additional_charges"] = *patch.AdditionalCharges
		}
		if patch.Discount != nil {
			updates["discount"] = *patch.Discount
		}
		if patch.Validity != nil {
			updates["validity"] = strconv.FormatInt(*patch.Validity, 10)
		}
		if patch.Number != nil {
			updates["number"] = *patch.Number
		}
		if len(updates) > 0 {
			if err := tx.Model(&orderRow{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}

		if patch.Customer != nil {
			cust := row.Customer
			patch.Customer.Apply(&cust)
			if err := tx.Save(&cust).Error; err != nil {
				return err
			}
		}

		var fresh orderRow
		if err := tx.Preload("Customer").First(&fresh, "id = ?", id).Error; err != nil {
			return err
		}
		o, err := fromRow(fresh)
		if err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&orderRow{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func toRow(o *domain.Order) (orderRow, error) {
	items, err := encodeJSON(o.Items)
	if err != nil {
		return orderRow{}, err
	}
	attachments, err := encodeJSON(o.Attachments)
	if err != nil {
		return orderRow{}, err
	}
	var validity *string
	if o.Validity != nil {
		v := strconv.FormatInt(*o.Validity, 10)
		validity = &v
	}
	return orderRow{
		ID:                o.ID,
		Number:            o.Number,
		OrderDate:         strconv.FormatInt(o.OrderDate, 10),
		Validity:          validity,
		Discount:          o.Discount,
		AdditionalCharges: o.AdditionalCharges,
		Notes:             o.Notes,
		PaymentTerms:      o.PaymentTerms,
		Items:             items,
		Attachments:       attachments,
		CustomerID:        o.CustomerID,
	}, nil
}

func fromRow(row orderRow) (*domain.Order, error) {
	o := domain.Order{
		ID:                row.ID,
		Number:            row.Number,
		Discount:          row.Discount,
		AdditionalCharges: row.AdditionalCharges,
		Notes:             row.Notes,
		PaymentTerms:      row.PaymentTerms,
		Items:             []domain.LineItem{},
		Attachments:       []domain.Attachment{},
		CustomerID:        row.CustomerID,
		Customer:          row.Customer,
	}
	if row.OrderDate != "" {
		n, err := strconv.ParseInt(row.OrderDate, 10, 64)
		if err != nil {
			return nil, err
		}
		o.OrderDate = n
	}
	if row.Validity != nil && *row.Validity != "" {
		n, err := strconv.ParseInt(*row.Validity, 10, 64)
		if err != nil {
			return nil, err
		}
		o.Validity = &n
	}
	if row.Items != "" {
		if err := json.Unmarshal([]byte(row.Items), &o.Items); err != nil {
			return nil, err
		}
	}
	if row.Attachments != "" {
		if err := json.Unmarshal([]byte(row.Attachments), &o.Attachments); err != nil {
			return nil, err
		}
	}
	if o.Items == nil {
		o.Items = []domain.LineItem{}
	}
	if o.Attachments == nil {
		o.Attachments = []domain.Attachment{}
	}
	return &o, nil
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
