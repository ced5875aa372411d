// internal/handlers/analytics.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/storesight/analytics-backend/internal/dataset"
	"github.com/storesight/analytics-backend/internal/services"
	"github.com/storesight/analytics-backend/internal/utils"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

type DateRangeQuery struct {
	StartDate string `form:"start_date" validate:"omitempty,dateformat"`
	EndDate   string `form:"end_date" validate:"omitempty,dateformat"`
}

type PeriodQuery struct {
	DateRangeQuery
	Period string `form:"period" validate:"omitempty,oneof=day week month quarter year"`
}

type YoYQuery struct {
	CurrentYear  int    `form:"current_year" validate:"required"`
	PreviousYear int    `form:"previous_year" validate:"required"`
	Metric       string `form:"metric" validate:"omitempty,oneof=revenue orders avg_order_value"`
}

type MoMQuery struct {
	Year      int  `form:"year" validate:"required"`
	Smoothing bool `form:"smoothing"`
}

type ProductsQuery struct {
	DateRangeQuery
	TopN int `form:"top_n" validate:"omitempty,min=1,max=100"`
}

type SummaryQuery struct {
	StartDate string `form:"start_date" validate:"required,dateformat"`
	EndDate   string `form:"end_date" validate:"required,dateformat"`
}

func bindQuery(c *gin.Context, q interface{}) bool {
	if err := c.ShouldBindQuery(q); err != nil {
		utils.BadRequestResponse(c, "Malformed query parameters", err.Error())
		return false
	}
	if err := utils.ValidateStruct(q); err != nil {
		utils.ValidationErrorResponse(c, err.Error())
		return false
	}
	return true
}

// respondError maps domain errors onto the API envelope. Anything untyped is
// an internal failure.
func (h *AnalyticsHandler) respondError(c *gin.Context, err error) {
	var missingDim *services.MissingDimensionError
	var unavailable *dataset.DataUnavailableError

	switch {
	case errors.As(err, &missingDim):
		utils.MissingDimensionResponse(c, missingDim.Error())
	case errors.As(err, &unavailable):
		utils.DataUnavailableResponse(c, unavailable.Error())
	default:
		logrus.WithError(err).Error("Analytics request failed")
		utils.InternalErrorResponse(c, "")
	}
}

// GET /v1/analytics/revenue
func (h *AnalyticsHandler) GetTotalRevenue(c *gin.Context) {
	var q DateRangeQuery
	if !bindQuery(c, &q) {
		return
	}

	m, err := h.analytics.SalesMetrics()
	if err != nil {
		h.respondError(c, err)
		return
	}

	total, err := m.TotalRevenue(q.StartDate, q.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"total_revenue": total,
		"start_date":    q.StartDate,
		"end_date":      q.EndDate,
	})
}

// GET /v1/analytics/revenue/periods
func (h *AnalyticsHandler) GetRevenueByPeriod(c *gin.Context) {
	var q PeriodQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.Period == "" {
		q.Period = string(services.PeriodMonth)
	}

	m, err := h.analytics.SalesMetrics()
	if err != nil {
		h.respondError(c, err)
		return
	}

	periods, err := m.RevenueByPeriod(services.PeriodUnit(q.Period), q.StartDate, q.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, periods, gin.H{"period": q.Period, "buckets": len(periods)})
}

// GET /v1/analytics/growth/yoy
func (h *AnalyticsHandler) GetYoYGrowth(c *gin.Context) {
	var q YoYQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.Metric == "" {
		q.Metric = string(services.GrowthMetricRevenue)
	}

	m, err := h.analytics.SalesMetrics()
	if err != nil {
		h.respondError(c, err)
		return
	}

	growth, err := m.YoYGrowth(q.CurrentYear, q.PreviousYear, services.GrowthMetric(q.Metric))
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, growth)
}

// GET /v1/analytics/growth/mom
func (h *AnalyticsHandler) GetMoMGrowth(c *gin.Context) {
	var q MoMQuery
	if !bindQuery(c, &q) {
		return
	}

	m, err := h.analytics.SalesMetrics()
	if err != nil {
		h.respondError(c, err)
		return
	}

	months, err := m.MoMGrowth(q.Year, q.Smoothing)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, months, gin.H{"year": q.Year, "smoothing": q.Smoothing})
}

// GET /v1/analytics/products
func (h *AnalyticsHandler) GetProductPerformance(c *gin.Context) {
	var q ProductsQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.TopN == 0 {
		q.TopN = 10
	}

	m, err := h.analytics.ProductMetrics()
	if err != nil {
		h.respondError(c, err)
		return
	}

	categories, err := m.ProductPerformance(q.TopN, q.StartDate, q.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, categories, gin.H{"top_n": q.TopN})
}

// GET /v1/analytics/geography
func (h *AnalyticsHandler) GetGeographicPerformance(c *gin.Context) {
	var q DateRangeQuery
	if !bindQuery(c, &q) {
		return
	}

	m, err := h.analytics.GeographyMetrics()
	if err != nil {
		h.respondError(c, err)
		return
	}

	states, err := m.GeographicPerformance(q.StartDate, q.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, states)
}

// GET /v1/analytics/delivery
func (h *AnalyticsHandler) GetDeliveryPerformance(c *gin.Context) {
	var q DateRangeQuery
	if !bindQuery(c, &q) {
		return
	}

	m, err := h.analytics.SalesMetrics()
	if err != nil {
		h.respondError(c, err)
		return
	}

	perf, err := m.DeliveryPerformance(q.StartDate, q.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"available": perf.Available(),
		"stats":     perf.Stats,
		"reason":    perf.Reason,
	})
}

// GET /v1/analytics/reviews
func (h *AnalyticsHandler) GetReviewMetrics(c *gin.Context) {
	var q DateRangeQuery
	if !bindQuery(c, &q) {
		return
	}

	m, err := h.analytics.SalesMetrics()
	if err != nil {
		h.respondError(c, err)
		return
	}

	metrics, err := m.ReviewMetrics(q.StartDate, q.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"available": metrics.Available(),
		"stats":     metrics.Stats,
		"reason":    metrics.Reason,
	})
}

// GET /v1/analytics/orders
func (h *AnalyticsHandler) GetOrderMetrics(c *gin.Context) {
	var q DateRangeQuery
	if !bindQuery(c, &q) {
		return
	}

	m, err := h.analytics.SalesMetrics()
	if err != nil {
		h.respondError(c, err)
		return
	}

	metrics, err := m.OrderMetrics(q.StartDate, q.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, metrics)
}

// GET /v1/analytics/summary
func (h *AnalyticsHandler) GetDashboardSummary(c *gin.Context) {
	var q SummaryQuery
	if !bindQuery(c, &q) {
		return
	}

	summary, err := h.analytics.DashboardSummary(q.StartDate, q.EndDate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, summary)
}

// GET /v1/analytics/datasets/range
func (h *AnalyticsHandler) GetDatasetRange(c *gin.Context) {
	info, err := h.analytics.DatasetRange()
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, info)
}
