package repository

import (
	"time"

	"github.com/haruyama/pos-backend/internal/app/model"
	"github.com/haruyama/pos-backend/pkg/logger"
	"gorm.io/gorm"
)

// OrderFilter narrows order-history queries. Zero values mean "no bound".
type OrderFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// ProductSalesRow aggregates committed orders per product.
type ProductSalesRow struct {
	ProductName string `json:"product_name"`
	UnitsSold   int64  `json:"units_sold"`
	OrderCount  int64  `json:"order_count"`
}

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindWithFilter(filter OrderFilter) ([]model.Order, error)
	Count(filter OrderFilter) (int64, error)
	Delete(id uint) error
	SumTotalBetween(from, to time.Time) (int64, error)
	SumTotalAll() (int64, error)
	ProductSales() ([]ProductSalesRow, error)
	CreatedAtBetween(from, to time.Time) ([]time.Time, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"product_id":  order.ProductID,
		"quantity":    order.Quantity,
		"total_price": order.TotalPrice,
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"product_id": order.ProductID,
		})
		return err
	}
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("Product").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) applyFilter(query *gorm.DB, filter OrderFilter) *gorm.DB {
	if filter.From != nil {
		query = query.Where("orders.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("orders.created_at < ?", *filter.To)
	}
	return query
}

func (r *orderRepository) FindWithFilter(filter OrderFilter) ([]model.Order, error) {
	query := r.applyFilter(r.db.Model(&model.Order{}), filter).
		Preload("Product").
		Order("orders.created_at DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var orders []model.Order
	if err := query.Find(&orders).Error; err != nil {
		logger.Error("Failed to list orders from database", err, nil)
		return nil, err
	}

	logger.Debug("Orders listed from database", map[string]interface{}{
		"count": len(orders),
	})
	return orders, nil
}

func (r *orderRepository) Count(filter OrderFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.Model(&model.Order{}), filter).Count(&count).Error; err != nil {
		logger.Error("Failed to count orders in database", err, nil)
		return 0, err
	}
	return count, nil
}

func (r *orderRepository) Delete(id uint) error {
	logger.Debug("Deleting order from database", map[string]interface{}{
		"order_id": id,
	})

	if err := r.db.Delete(&model.Order{}, id).Error; err != nil {
		logger.Error("Failed to delete order from database", err, map[string]interface{}{
			"order_id": id,
		})
		return err
	}
	return nil
}

// SumTotalBetween sums order totals in the half-open interval [from, to).
func (r *orderRepository) SumTotalBetween(from, to time.Time) (int64, error) {
	var total int64
	err := r.db.Model(&model.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	if err != nil {
		logger.Error("Failed to sum order totals in database", err, map[string]interface{}{
			"from": from,
			"to":   to,
		})
		return 0, err
	}
	return total, nil
}

func (r *orderRepository) SumTotalAll() (int64, error) {
	var total int64
	err := r.db.Model(&model.Order{}).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	if err != nil {
		logger.Error("Failed to sum all order totals in database", err, nil)
		return 0, err
	}
	return total, nil
}

func (r *orderRepository) ProductSales() ([]ProductSalesRow, error) {
	var rows []ProductSalesRow
	err := r.db.Model(&model.Order{}).
		Joins("JOIN products ON products.id = orders.product_id").
		Select("products.name AS product_name, SUM(orders.quantity) AS units_sold, COUNT(orders.id) AS order_count").
		Where("orders.deleted_at IS NULL").
		Group("products.name").
		Order("units_sold DESC").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to aggregate product sales in database", err, nil)
		return nil, err
	}
	return rows, nil
}

// CreatedAtBetween returns raw order timestamps in [from, to); callers
// bucket them. Keeps the SQL portable across postgres and the sqlite
// test database.
func (r *orderRepository) CreatedAtBetween(from, to time.Time) ([]time.Time, error) {
	var stamps []time.Time
	err := r.db.Model(&model.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Pluck("created_at", &stamps).Error
	if err != nil {
		logger.Error("Failed to read order timestamps from database", err, nil)
		return nil, err
	}
	return stamps, nil
}
