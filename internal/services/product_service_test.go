package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pedefood/internal/errs"
	"pedefood/internal/models"
	"pedefood/internal/repositories"
	"pedefood/internal/services"
)

func TestProductService_Catalog(t *testing.T) {
	repo := repositories.NewMemoryProductRepository()
	svc := services.NewProductService(repo)

	product := &models.Product{
		Name:  "Refrigerante 2L",
		Price: decimal.NewFromFloat(9.99),
		Store: "Bebidas",
	}
	require.NoError(t, svc.CreateProduct(product))
	require.NotEmpty(t, product.ID)

	all, err := svc.GetAllProducts()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	got, err := svc.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Refrigerante 2L", got.Name)

	_, err = svc.GetProductByID("missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestProduct_LineItem(t *testing.T) {
	product := models.Product{
		ID:    "prod-1",
		Name:  "Pizza",
		Price: decimal.NewFromInt(50),
		Store: "Fast Food",
	}

	item := product.LineItem()
	assert.Equal(t, "prod-1", item.ProductID)
	assert.Equal(t, "Fast Food", item.Store)
	assert.Equal(t, 1, item.Quantity)
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromInt(50)))
}
