package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/impulsa/impulsa-backend/internal/service"
)

// ReportHandler handles the sales report endpoint
type ReportHandler struct {
	reportService *service.ReportService
	userService   *service.UserService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService, userService *service.UserService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		userService:   userService,
	}
}

// StatisticsResponse represents the computed statistics block. Monetary
// and rate figures are fixed to 2 decimal places as strings.
type StatisticsResponse struct {
	DaysElapsed   int `json:"daysElapsed"`
	DaysRemaining int `json:"daysRemaining"`
	DaysWithSales int `json:"daysWithSales"`

	TotalUnits         int    `json:"totalUnits"`
	TotalRevenue       string `json:"totalRevenue"`
	TotalVariableCosts string `json:"totalVariableCosts"`
	TotalGrossProfit   string `json:"totalGrossProfit"`

	AccumulatedFixedCosts         string `json:"accumulatedFixedCosts"`
	AccumulatedNetProfit          string `json:"accumulatedNetProfit"`
	AccumulatedNetProfitAfterLoan string `json:"accumulatedNetProfitAfterLoan"`

	DailyTargetUnits  int    `json:"dailyTargetUnits"`
	AvgUnitsPerDay    string `json:"avgUnitsPerDay"`
	UnitsPerDayNeeded string `json:"unitsPerDayNeeded"`
	NetProfitDailyAvg string `json:"netProfitDailyAvg"`

	ProjectedUnitsMonthEnd       string `json:"projectedUnitsMonthEnd"`
	ProjectedRevenueMonthEnd     string `json:"projectedRevenueMonthEnd"`
	ProjectedGrossProfitMonthEnd string `json:"projectedGrossProfitMonthEnd"`
	ProjectedNetProfitMonthEnd   string `json:"projectedNetProfitMonthEnd"`
	ProjectedNetProfitAfterLoan  string `json:"projectedNetProfitAfterLoan"`

	UnitsToTarget    string `json:"unitsToTarget"`
	UnitsNeededDaily string `json:"unitsNeededDaily"`

	ProfitMarginDaily       string `json:"profitMarginDaily"`
	ProfitMarginAccumulated string `json:"profitMarginAccumulated"`

	IsOnTarget bool `json:"isOnTarget"`
	IsAtRisk   bool `json:"isAtRisk"`
}

// ReportResponse represents the full sales report
type ReportResponse struct {
	MonthYear  string             `json:"monthYear"`
	Parameters ParameterResponse  `json:"parameters"`
	Sales      []SaleResponse     `json:"sales"`
	Statistics StatisticsResponse `json:"statistics"`
}

// authorize checks that the caller may read the target user's report
func (h *ReportHandler) authorize(c echo.Context, userID int32) error {
	user, err := h.userService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to load user")
		return NewInternalError(c, "Failed to load user")
	}
	if !canAccessUser(c, user) {
		return NewForbiddenError(c, "You cannot view this user's report")
	}
	return nil
}

// GetReport handles GET /api/v1/sales/report/:userId?month_year=YYYY-MM
func (h *ReportHandler) GetReport(c echo.Context) error {
	userID, ok := pathUserID(c, "userId")
	if !ok {
		return NewValidationError(c, "Invalid user ID", nil)
	}
	if err := h.authorize(c, userID); err != nil {
		return err
	}

	report, err := h.reportService.BuildReport(userID, c.QueryParam("month_year"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to build report")
		return NewInternalError(c, "Failed to build report")
	}

	return c.JSON(http.StatusOK, toReportResponse(report))
}

func toReportResponse(report *domain.SalesReport) ReportResponse {
	sales := make([]SaleResponse, len(report.Sales))
	for i, sale := range report.Sales {
		sales[i] = toSaleResponse(sale)
	}
	return ReportResponse{
		MonthYear:  report.MonthYear,
		Parameters: toParameterResponse(report.Parameters),
		Sales:      sales,
		Statistics: toStatisticsResponse(report.Statistics),
	}
}

func toStatisticsResponse(s *domain.SalesStatistics) StatisticsResponse {
	return StatisticsResponse{
		DaysElapsed:   s.DaysElapsed,
		DaysRemaining: s.DaysRemaining,
		DaysWithSales: s.DaysWithSales,

		TotalUnits:         s.TotalUnits,
		TotalRevenue:       s.TotalRevenue.StringFixed(2),
		TotalVariableCosts: s.TotalVariableCosts.StringFixed(2),
		TotalGrossProfit:   s.TotalGrossProfit.StringFixed(2),

		AccumulatedFixedCosts:         s.AccumulatedFixedCosts.StringFixed(2),
		AccumulatedNetProfit:          s.AccumulatedNetProfit.StringFixed(2),
		AccumulatedNetProfitAfterLoan: s.AccumulatedNetProfitAfterLoan.StringFixed(2),

		DailyTargetUnits:  s.DailyTargetUnits,
		AvgUnitsPerDay:    s.AvgUnitsPerDay.StringFixed(2),
		UnitsPerDayNeeded: s.UnitsPerDayNeeded.StringFixed(2),
		NetProfitDailyAvg: s.NetProfitDailyAvg.StringFixed(2),

		ProjectedUnitsMonthEnd:       s.ProjectedUnitsMonthEnd.StringFixed(2),
		ProjectedRevenueMonthEnd:     s.ProjectedRevenueMonthEnd.StringFixed(2),
		ProjectedGrossProfitMonthEnd: s.ProjectedGrossProfitMonthEnd.StringFixed(2),
		ProjectedNetProfitMonthEnd:   s.ProjectedNetProfitMonthEnd.StringFixed(2),
		ProjectedNetProfitAfterLoan:  s.ProjectedNetProfitAfterLoan.StringFixed(2),

		UnitsToTarget:    s.UnitsToTarget.StringFixed(2),
		UnitsNeededDaily: s.UnitsNeededDaily.StringFixed(2),

		ProfitMarginDaily:       s.ProfitMarginDaily.StringFixed(2),
		ProfitMarginAccumulated: s.ProfitMarginAccumulated.StringFixed(2),

		IsOnTarget: s.IsOnTarget,
		IsAtRisk:   s.IsAtRisk,
	}
}
