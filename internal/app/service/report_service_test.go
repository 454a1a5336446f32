package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/haruyama/pos-backend/internal/app/model"
	"github.com/haruyama/pos-backend/internal/app/repository"
	"github.com/haruyama/pos-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReportService_ExportOrderHistory(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	product := &model.Product{Name: "Latte", Price: 4000, Stock: 10}
	require.NoError(t, testDB.Create(product).Error)

	order := &model.Order{
		UUID:       "11111111-2222-3333-4444-555555555555",
		ProductID:  product.ID,
		Quantity:   2,
		TotalPrice: 9000,
		Options:    `[{"id":1,"name":"Large","price":500}]`,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, testDB.Create(order).Error)

	reportService := NewReportService(repository.NewOrderRepository(testDB))

	data, filename, err := reportService.ExportOrderHistory(OrderHistoryQuery{})
	require.NoError(t, err)
	assert.Contains(t, filename, ".xlsx")
	require.NotEmpty(t, data)

	// The payload must be a readable workbook with the order on it
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Order ID", rows[0][0])
	assert.Equal(t, order.UUID, rows[1][0])
	assert.Equal(t, "Latte", rows[1][2])
	assert.Contains(t, rows[1][3], "Large")
}

func TestOptionSummary(t *testing.T) {
	assert.Equal(t, "", optionSummary(""))
	assert.Equal(t, "", optionSummary("null"))
	assert.Equal(t, "Large (+500)", optionSummary(`[{"id":1,"name":"Large","price":500}]`))
	assert.Equal(t, "Decaf", optionSummary(`[{"id":2,"name":"Decaf","price":0}]`))
	assert.Equal(t,
		"Large (+500), Extra shot (+300)",
		optionSummary(`[{"id":1,"name":"Large","price":500},{"id":3,"name":"Extra shot","price":300}]`),
	)
}
