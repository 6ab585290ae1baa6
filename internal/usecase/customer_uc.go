package usecase

import (
	"context"

	"github.com/phenrril/procar/internal/domain"
	"github.com/phenrril/procar/internal/fuzzy"
)

// CustomerUC only reads. Customer mutation happens transitively through order
// creation and update.
type CustomerUC struct {
	Customers domain.CustomerRepo
}

func (uc *CustomerUC) List(ctx context.Context) ([]domain.Customer, error) {
	return uc.Customers.List(ctx)
}

func (uc *CustomerUC) Query(ctx context.Context, value string) ([]domain.Customer, error) {
	list, err := uc.Customers.List(ctx)
	if err != nil {
		return nil, err
	}
	return fuzzy.Filter(value, list, func(c domain.Customer) string { return c.Name }), nil
}
