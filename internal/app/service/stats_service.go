package service

import (
	"time"

	"github.com/haruyama/pos-backend/internal/app/repository"
)

const trendDays = 7

// DailySales is one day of the sales trend, dated YYYY-MM-DD.
type DailySales struct {
	Date  string `json:"date"`
	Total int64  `json:"total"`
}

// SalesOverview is the dashboard headline: today, yesterday, all time,
// plus a short daily trend ending today.
type SalesOverview struct {
	TodaySales     int64        `json:"today_sales"`
	YesterdaySales int64        `json:"yesterday_sales"`
	ChangePercent  float64      `json:"change_percent"`
	TotalSales     int64        `json:"total_sales"`
	Trend          []DailySales `json:"trend"`
}

// DailyOrderCount is one day of the orders-over-time chart.
type DailyOrderCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type StatsService interface {
	Overview() (*SalesOverview, error)
	ProductSales() ([]repository.ProductSalesRow, error)
	OrdersOverTime(days int) ([]DailyOrderCount, error)
}

type statsService struct {
	orderRepo repository.OrderRepository
	now       func() time.Time
}

func NewStatsService(orderRepo repository.OrderRepository) StatsService {
	return &statsService{
		orderRepo: orderRepo,
		now:       time.Now,
	}
}

func (s *statsService) Overview() (*SalesOverview, error) {
	today := startOfDay(s.now())

	totalSales, err := s.orderRepo.SumTotalAll()
	if err != nil {
		return nil, err
	}

	overview := &SalesOverview{TotalSales: totalSales}

	// Walk the trend window oldest first; the last two entries double as
	// the yesterday and today headline figures.
	for i := trendDays - 1; i >= 0; i-- {
		from := today.AddDate(0, 0, -i)
		to := from.AddDate(0, 0, 1)

		total, err := s.orderRepo.SumTotalBetween(from, to)
		if err != nil {
			return nil, err
		}
		overview.Trend = append(overview.Trend, DailySales{
			Date:  from.Format("2006-01-02"),
			Total: total,
		})

		switch i {
		case 0:
			overview.TodaySales = total
		case 1:
			overview.YesterdaySales = total
		}
	}

	overview.ChangePercent = changePercent(overview.TodaySales, overview.YesterdaySales)

	return overview, nil
}

// changePercent reports today's sales relative to yesterday's. A zero
// yesterday counts as +100% when anything sold today, 0% otherwise.
func changePercent(today, yesterday int64) float64 {
	if yesterday == 0 {
		if today == 0 {
			return 0
		}
		return 100
	}
	return float64(today-yesterday) / float64(yesterday) * 100
}

func (s *statsService) ProductSales() ([]repository.ProductSalesRow, error) {
	return s.orderRepo.ProductSales()
}

// OrdersOverTime counts orders per day over the trailing window,
// including days with no orders.
func (s *statsService) OrdersOverTime(days int) ([]DailyOrderCount, error) {
	if days < 1 {
		days = trendDays
	}

	today := startOfDay(s.now())
	from := today.AddDate(0, 0, -(days - 1))
	to := today.AddDate(0, 0, 1)

	stamps, err := s.orderRepo.CreatedAtBetween(from, to)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, days)
	for _, stamp := range stamps {
		counts[startOfDay(stamp.Local()).Format("2006-01-02")]++
	}

	buckets := make([]DailyOrderCount, 0, days)
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i).Format("2006-01-02")
		buckets = append(buckets, DailyOrderCount{
			Date:  date,
			Count: counts[date],
		})
	}
	return buckets, nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
