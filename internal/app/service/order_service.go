package service

import (
	"errors"
	"time"

	"github.com/haruyama/pos-backend/internal/app/model"
	"github.com/haruyama/pos-backend/internal/app/repository"
	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("order not found")

const defaultOrderPageSize = 50

// OrderHistoryQuery narrows the order history listing.
type OrderHistoryQuery struct {
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// OrderHistoryPage is one page of order history plus the totals the
// history screen shows.
type OrderHistoryPage struct {
	Orders     []model.Order `json:"orders"`
	TotalCount int64         `json:"total_count"`
	TotalSales int64         `json:"total_sales"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
}

type OrderService interface {
	History(query OrderHistoryQuery) (*OrderHistoryPage, error)
	GetOrder(id uint) (*model.Order, error)
	DeleteOrder(id uint) error
}

type orderService struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

func (s *orderService) History(query OrderHistoryQuery) (*OrderHistoryPage, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 {
		query.PageSize = defaultOrderPageSize
	}

	filter := repository.OrderFilter{
		From:   query.From,
		To:     query.To,
		Limit:  query.PageSize,
		Offset: (query.Page - 1) * query.PageSize,
	}

	orders, err := s.orderRepo.FindWithFilter(filter)
	if err != nil {
		return nil, err
	}

	count, err := s.orderRepo.Count(repository.OrderFilter{From: query.From, To: query.To})
	if err != nil {
		return nil, err
	}

	var totalSales int64
	switch {
	case query.From != nil && query.To != nil:
		totalSales, err = s.orderRepo.SumTotalBetween(*query.From, *query.To)
	case query.From == nil && query.To == nil:
		totalSales, err = s.orderRepo.SumTotalAll()
	default:
		from := time.Time{}
		if query.From != nil {
			from = *query.From
		}
		to := time.Now().Add(time.Hour)
		if query.To != nil {
			to = *query.To
		}
		totalSales, err = s.orderRepo.SumTotalBetween(from, to)
	}
	if err != nil {
		return nil, err
	}

	return &OrderHistoryPage{
		Orders:     orders,
		TotalCount: count,
		TotalSales: totalSales,
		Page:       query.Page,
		PageSize:   query.PageSize,
	}, nil
}

func (s *orderService) GetOrder(id uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) DeleteOrder(id uint) error {
	if _, err := s.GetOrder(id); err != nil {
		return err
	}
	return s.orderRepo.Delete(id)
}
