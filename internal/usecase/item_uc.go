package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/phenrril/procar/internal/domain"
	"github.com/phenrril/procar/internal/fuzzy"
)

type ItemUC struct {
	Items domain.ItemRepo
}

// List returns the whole catalog annotated with a default quantity of 1, so
// catalog rows and order line items share one shape.
func (uc *ItemUC) List(ctx context.Context) ([]domain.LineItem, error) {
	items, err := uc.Items.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, it.Snapshot(1))
	}
	return out, nil
}

func (uc *ItemUC) Query(ctx context.Context, value string) ([]domain.LineItem, error) {
	list, err := uc.List(ctx)
	if err != nil {
		return nil, err
	}
	return fuzzy.Filter(value, list, func(li domain.LineItem) string { return li.Description }), nil
}

func (uc *ItemUC) Create(ctx context.Context, form domain.ItemForm) (*domain.LineItem, error) {
	if strings.TrimSpace(form.Description) == "" {
		return nil, errors.New("descripción vacía")
	}
	if form.UnitPrice < 0 {
		return nil, domain.ErrInvalidPrice
	}
	item := domain.Item{ID: form.ID, Description: form.Description, UnitPrice: form.UnitPrice}
	if err := uc.Items.Create(ctx, &item); err != nil {
		return nil, err
	}
	li := item.Snapshot(1)
	return &li, nil
}

func (uc *ItemUC) Update(ctx context.Context, form domain.ItemForm) (*domain.LineItem, error) {
	if form.ID == "" {
		return nil, errors.New("id vacío")
	}
	if form.UnitPrice < 0 {
		return nil, domain.ErrInvalidPrice
	}
	item := domain.Item{ID: form.ID, Description: form.Description, UnitPrice: form.UnitPrice}
	if err := uc.Items.Update(ctx, &item); err != nil {
		return nil, err
	}
	li := item.Snapshot(1)
	return &li, nil
}

// Upsert inserts or replaces by id and preserves the caller-supplied quantity.
func (uc *ItemUC) Upsert(ctx context.Context, li domain.LineItem) (*domain.LineItem, error) {
	if li.ID == "" {
		return nil, errors.New("id vacío")
	}
	if li.UnitPrice < 0 {
		return nil, domain.ErrInvalidPrice
	}
	item := domain.Item{ID: li.ID, Description: li.Description, UnitPrice: li.UnitPrice}
	if err := uc.Items.Upsert(ctx, &item); err != nil {
		return nil, err
	}
	out := item.Snapshot(li.Quantity)
	return &out, nil
}

func (uc *ItemUC) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("id vacío")
	}
	return uc.Items.Delete(ctx, id)
}
