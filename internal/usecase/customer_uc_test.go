package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/procar/internal/domain"
)

func TestCustomerQueryByName(t *testing.T) {
	repo := &memCustomerRepo{customers: []domain.Customer{
		{Name: "Maria Souza"},
		{Name: "Mario Santos"},
		{Name: "Pedro Lima"},
	}}
	uc := &CustomerUC{Customers: repo}

	got, err := uc.Query(context.Background(), "maria")
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "Maria Souza", got[0].Name)

	got, err = uc.Query(context.Background(), "zzzzzz")
	require.NoError(t, err)
	assert.Empty(t, got)
}
