package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/haruyama/pos-backend/internal/app/model"
	"github.com/haruyama/pos-backend/internal/app/repository"
	"github.com/haruyama/pos-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const orderSheetName = "Orders"

type ReportService interface {
	// ExportOrderHistory renders the matching orders as an XLSX
	// workbook and returns the file bytes plus a suggested filename.
	ExportOrderHistory(query OrderHistoryQuery) ([]byte, string, error)
}

type reportService struct {
	orderRepo repository.OrderRepository
}

func NewReportService(orderRepo repository.OrderRepository) ReportService {
	return &reportService{orderRepo: orderRepo}
}

func (s *reportService) ExportOrderHistory(query OrderHistoryQuery) ([]byte, string, error) {
	filter := repository.OrderFilter{From: query.From, To: query.To}
	orders, err := s.orderRepo.FindWithFilter(filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("Failed to close workbook", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	index, err := f.NewSheet(orderSheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", err
	}

	headers := []string{"Order ID", "Date", "Product", "Options", "Quantity", "Total"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(orderSheetName, cell, header); err != nil {
			return nil, "", err
		}
	}

	for row, order := range orders {
		values := []interface{}{
			order.UUID,
			order.CreatedAt.Format("2006-01-02 15:04:05"),
			order.Product.Name,
			optionSummary(order.Options),
			order.Quantity,
			order.TotalPrice,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(orderSheetName, cell, value); err != nil {
				return nil, "", err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to write order history workbook", err, nil)
		return nil, "", err
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102-150405"))
	logger.Info("Order history exported", map[string]interface{}{
		"orders":   len(orders),
		"filename": filename,
	})
	return buf.Bytes(), filename, nil
}

// optionSummary flattens the stored option snapshot JSON into a short
// display string, e.g. "Large (+500), Extra shot (+300)".
func optionSummary(raw string) string {
	if raw == "" || raw == "null" {
		return ""
	}

	var options []model.CartOption
	if err := json.Unmarshal([]byte(raw), &options); err != nil {
		return raw
	}

	parts := make([]string, 0, len(options))
	for _, opt := range options {
		if opt.Price > 0 {
			parts = append(parts, fmt.Sprintf("%s (+%d)", opt.Name, opt.Price))
		} else {
			parts = append(parts, opt.Name)
		}
	}
	return strings.Join(parts, ", ")
}
