package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/procar/internal/domain"
)

type memItemRepo struct {
	items []domain.Item
}

func (r *memItemRepo) List(ctx context.Context) ([]domain.Item, error) {
	out := make([]domain.Item, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *memItemRepo) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	for _, it := range r.items {
		if it.ID == id {
			out := it
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memItemRepo) Create(ctx context.Context, it *domain.Item) error {
	r.items = append(r.items, *it)
	return nil
}

func (r *memItemRepo) Update(ctx context.Context, it *domain.Item) error {
	for i := range r.items {
		if r.items[i].ID == it.ID {
			r.items[i] = *it
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memItemRepo) Upsert(ctx context.Context, it *domain.Item) error {
	for i := range r.items {
		if r.items[i].ID == it.ID {
			r.items[i] = *it
			return nil
		}
	}
	r.items = append(r.items, *it)
	return nil
}

func (r *memItemRepo) Delete(ctx context.Context, id string) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func newItemUC(seed ...domain.Item) *ItemUC {
	return &ItemUC{Items: &memItemRepo{items: seed}}
}

func TestItemListDefaultsQuantity(t *testing.T) {
	uc := newItemUC(domain.Item{ID: "A", Description: "Parafuso", UnitPrice: 10})

	list, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.LineItem{ID: "A", Description: "Parafuso", UnitPrice: 10, Quantity: 1}, list[0])
}

func TestItemQueryTypoTolerant(t *testing.T) {
	uc := newItemUC(
		domain.Item{ID: "A", Description: "Screw M4", UnitPrice: 1},
		domain.Item{ID: "B", Description: "Bolt", UnitPrice: 2},
	)

	got, err := uc.Query(context.Background(), "scrwe")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].ID)
}

func TestItemCreateValidation(t *testing.T) {
	ctx := context.Background()
	uc := newItemUC()

	_, err := uc.Create(ctx, domain.ItemForm{ID: "A", Description: "  ", UnitPrice: 1})
	assert.Error(t, err)

	_, err = uc.Create(ctx, domain.ItemForm{ID: "A", Description: "Parafuso", UnitPrice: -0.01})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	created, err := uc.Create(ctx, domain.ItemForm{ID: "A", Description: "Parafuso", UnitPrice: 0})
	require.NoError(t, err)
	assert.InDelta(t, 0, created.UnitPrice, 1e-9)
	assert.InDelta(t, 1, created.Quantity, 1e-9)
}

func TestItemUpsertPreservesQuantity(t *testing.T) {
	ctx := context.Background()
	uc := newItemUC(domain.Item{ID: "A", Description: "Parafuso", UnitPrice: 10})

	out, err := uc.Upsert(ctx, domain.LineItem{ID: "A", Description: "Parafuso M5", UnitPrice: 12, Quantity: 7})
	require.NoError(t, err)
	assert.InDelta(t, 7, out.Quantity, 1e-9)
	assert.Equal(t, "Parafuso M5", out.Description)

	// id not present inserts instead of failing
	out, err = uc.Upsert(ctx, domain.LineItem{ID: "B", Description: "Porca", UnitPrice: 1, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "B", out.ID)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestItemDelete(t *testing.T) {
	ctx := context.Background()
	uc := newItemUC(domain.Item{ID: "A", Description: "Parafuso", UnitPrice: 10})

	require.NoError(t, uc.Delete(ctx, "A"))
	assert.ErrorIs(t, uc.Delete(ctx, "A"), domain.ErrNotFound)
	assert.Error(t, uc.Delete(ctx, ""))
}
