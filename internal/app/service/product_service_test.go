package service

import (
	"testing"

	"github.com/haruyama/pos-backend/internal/app/model"
	"github.com/haruyama/pos-backend/internal/app/repository"
	"github.com/haruyama/pos-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (ProductService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	optionRepo := repository.NewProductOptionRepository(testDB)
	return NewProductService(productRepo, optionRepo), testDB
}

func TestProductService_CreateProduct(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product, err := productService.CreateProduct(CreateProductInput{
		Name:  "Americano",
		Price: 3000,
		Stock: 10,
		Options: []OptionInput{
			{Name: "Large", Price: 500},
		},
	})
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.NotEmpty(t, product.Slug)
	require.Len(t, product.Options, 1)
	assert.Equal(t, int64(500), product.Options[0].Price)
}

func TestProductService_CreateProduct_NegativePrice(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	_, err := productService.CreateProduct(CreateProductInput{Name: "Bad", Price: -1})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = productService.CreateProduct(CreateProductInput{
		Name:    "Bad option",
		Price:   100,
		Options: []OptionInput{{Name: "Broken", Price: -50}},
	})
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestProductService_ListProducts_SortedByName(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	_, err := productService.CreateProduct(CreateProductInput{Name: "Latte", Price: 4000, Stock: 5})
	require.NoError(t, err)
	_, err = productService.CreateProduct(CreateProductInput{Name: "Americano", Price: 3000, Stock: 5})
	require.NoError(t, err)

	products, err := productService.ListProducts()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Americano", products[0].Name)
	assert.Equal(t, "Latte", products[1].Name)
}

func TestProductService_UpdateProduct_PartialFields(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product, err := productService.CreateProduct(CreateProductInput{Name: "Americano", Price: 3000, Stock: 10})
	require.NoError(t, err)

	newPrice := int64(3500)
	updated, err := productService.UpdateProduct(product.ID, UpdateProductInput{Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, int64(3500), updated.Price)
	assert.Equal(t, "Americano", updated.Name)
	assert.Equal(t, 10, updated.Stock)
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	name := "Ghost"
	_, err := productService.UpdateProduct(9999, UpdateProductInput{Name: &name})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_AdjustStock(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product, err := productService.CreateProduct(CreateProductInput{Name: "Americano", Price: 3000, Stock: 10})
	require.NoError(t, err)

	updated, err := productService.AdjustStock(product.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, updated.Stock)

	updated, err = productService.AdjustStock(product.ID, -15)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)

	_, err = productService.AdjustStock(product.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidStock)
}

func TestProductService_DeleteProduct(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product, err := productService.CreateProduct(CreateProductInput{Name: "Americano", Price: 3000, Stock: 10})
	require.NoError(t, err)

	require.NoError(t, productService.DeleteProduct(product.ID))

	_, err = productService.GetProduct(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_OptionLifecycle(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product, err := productService.CreateProduct(CreateProductInput{Name: "Latte", Price: 4000, Stock: 10})
	require.NoError(t, err)

	option, err := productService.AddOption(product.ID, OptionInput{Name: "Oat milk", Price: 700})
	require.NoError(t, err)
	assert.Equal(t, product.ID, option.ProductID)

	updated, err := productService.UpdateOption(product.ID, option.ID, OptionInput{Name: "Oat milk", Price: 800})
	require.NoError(t, err)
	assert.Equal(t, int64(800), updated.Price)

	require.NoError(t, productService.DeleteOption(product.ID, option.ID))

	_, err = productService.UpdateOption(product.ID, option.ID, OptionInput{Name: "x", Price: 0})
	assert.ErrorIs(t, err, ErrOptionNotFound)
}

func TestProductService_OptionOwnershipEnforced(t *testing.T) {
	productService, testDB := setupProductServiceTest(t)

	latte, err := productService.CreateProduct(CreateProductInput{Name: "Latte", Price: 4000, Stock: 10})
	require.NoError(t, err)
	mocha := &model.Product{Name: "Mocha", Price: 4500, Stock: 10}
	require.NoError(t, testDB.Create(mocha).Error)

	option, err := productService.AddOption(latte.ID, OptionInput{Name: "Large", Price: 500})
	require.NoError(t, err)

	// Another product cannot edit or delete it
	_, err = productService.UpdateOption(mocha.ID, option.ID, OptionInput{Name: "Large", Price: 600})
	assert.ErrorIs(t, err, ErrOptionNotFound)
	assert.ErrorIs(t, productService.DeleteOption(mocha.ID, option.ID), ErrOptionNotFound)
}
