package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/haruyama/pos-backend/internal/app/service"
	apperrors "github.com/haruyama/pos-backend/internal/errors"
	"github.com/haruyama/pos-backend/internal/middleware"
)

type StatsController struct {
	statsService service.StatsService
}

func NewStatsController(statsService service.StatsService) *StatsController {
	return &StatsController{
		statsService: statsService,
	}
}

// Overview returns the sales dashboard headline figures
// GET /api/v1/admin/stats/overview
func (ctrl *StatsController) Overview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	overview, err := ctrl.statsService.Overview()
	if err != nil {
		log.Error("Failed to compute sales overview", err, nil)
		apperrors.InternalError(c, "Failed to compute sales overview")
		return
	}

	c.JSON(http.StatusOK, overview)
}

// ProductSales returns per-product units sold and order counts
// GET /api/v1/admin/stats/products
func (ctrl *StatsController) ProductSales(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	rows, err := ctrl.statsService.ProductSales()
	if err != nil {
		log.Error("Failed to compute product sales", err, nil)
		apperrors.InternalError(c, "Failed to compute product sales")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": rows,
		"count":    len(rows),
	})
}

// OrdersOverTime returns daily order counts for the trailing window
// GET /api/v1/admin/stats/orders-over-time
func (ctrl *StatsController) OrdersOverTime(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 || days > 366 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "days must be between 1 and 366")
		return
	}

	buckets, err := ctrl.statsService.OrdersOverTime(days)
	if err != nil {
		log.Error("Failed to compute orders over time", err, nil)
		apperrors.InternalError(c, "Failed to compute orders over time")
		return
	}

	c.JSON(http.StatusOK, gin.H{"buckets": buckets})
}
