package domain

import (
	"context"

	"github.com/google/uuid"
)

type ItemRepo interface {
	List(ctx context.Context) ([]Item, error)
	FindByID(ctx context.Context, id string) (*Item, error)
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Upsert(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error
}

type CustomerRepo interface {
	List(ctx context.Context) ([]Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	Save(ctx context.Context, c *Customer) error
}

// OrderRepo persists the aggregate. Create applies connect-or-create to the
// customer carried on the order: an existing customer id connects, anything
// else creates. Update applies a partial patch and returns the reloaded
// post-update aggregate.
type OrderRepo interface {
	List(ctx context.Context) ([]Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByNumber(ctx context.Context, number string) (*Order, error)
	Create(ctx context.Context, o *Order) error
	Update(ctx context.Context, id uuid.UUID, patch OrderPatch) (*Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// FileStorage persists raw bytes under a namespace and returns a stable
// retrieval URL.
type FileStorage interface {
	Save(ctx context.Context, namespace, name string, data []byte) (string, error)
}

type FormField struct {
	Name  string
	Value string
}

// FormFiller paints named field values onto a fixed document template and
// returns the path of the rendered file.
type FormFiller interface {
	Fill(ctx context.Context, templatePath string, fields []FormField, outputPath string) (string, error)
}
