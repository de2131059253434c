package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/impulsa/impulsa-backend/internal/service"
	"github.com/impulsa/impulsa-backend/internal/testutil"
)

func newReportHandler(t *testing.T) (*ReportHandler, *testutil.MockSaleRepository, *testutil.MockParameterRepository) {
	t.Helper()
	userRepo := testutil.NewMockUserRepository()
	saleRepo := testutil.NewMockSaleRepository()
	paramRepo := testutil.NewMockParameterRepository()

	mentorID := int32(2)
	userRepo.AddUser(&domain.User{ID: 1, Username: "ana", Email: "ana@example.com", Role: domain.RoleUser, MentorID: &mentorID})
	userRepo.AddUser(&domain.User{ID: 2, Username: "marta", Email: "marta@example.com", Role: domain.RoleMentor})

	paramService := service.NewParameterService(paramRepo)
	saleService := service.NewSaleService(saleRepo)
	reportService := service.NewReportService(paramService, saleService)
	handler := NewReportHandler(reportService, service.NewUserService(userRepo))
	return handler, saleRepo, paramRepo
}

func getReport(t *testing.T, handler *ReportHandler, callerID int32, role domain.Role, target, monthYear string) (*httptest.ResponseRecorder, *ReportResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales/report/"+target+"?month_year="+monthYear, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues(target)
	setupAuthContext(c, callerID, role)

	if err := handler.GetReport(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusOK {
		return rec, nil
	}
	var response ReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	return rec, &response
}

func TestGetReport_PastMonthTotals(t *testing.T) {
	handler, saleRepo, _ := newReportHandler(t)

	// March 2025 is long over, so the projection math is settled
	saleRepo.AddSale(&domain.DailySale{
		UserID:              1,
		SaleDate:            time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
		UnitsSold:           12,
		PricePerUnit:        decimal.RequireFromString("10.00"),
		VariableCostPerUnit: decimal.RequireFromString("6.00"),
	})

	rec, report := getReport(t, handler, 1, domain.RoleUser, "1", "2025-03")
	if report == nil {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if report.MonthYear != "2025-03" {
		t.Errorf("Expected month '2025-03', got %s", report.MonthYear)
	}
	if len(report.Sales) != 1 {
		t.Fatalf("Expected 1 sale, got %d", len(report.Sales))
	}

	stats := report.Statistics
	if stats.DaysElapsed != 31 || stats.DaysRemaining != 0 {
		t.Errorf("Expected fully elapsed month, got elapsed=%d remaining=%d", stats.DaysElapsed, stats.DaysRemaining)
	}
	if stats.TotalUnits != 12 {
		t.Errorf("Expected 12 units, got %d", stats.TotalUnits)
	}
	if stats.TotalRevenue != "120.00" {
		t.Errorf("Expected revenue '120.00', got %s", stats.TotalRevenue)
	}
	if stats.TotalGrossProfit != "48.00" {
		t.Errorf("Expected gross profit '48.00', got %s", stats.TotalGrossProfit)
	}
	if stats.DaysWithSales != 1 {
		t.Errorf("Expected 1 day with sales, got %d", stats.DaysWithSales)
	}
}

func TestGetReport_CreatesDefaultParameters(t *testing.T) {
	handler, _, paramRepo := newReportHandler(t)

	rec, report := getReport(t, handler, 1, domain.RoleUser, "1", "2025-03")
	if report == nil {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if report.Parameters.WorkingDaysPerMonth != 30 {
		t.Errorf("Expected default working days 30, got %d", report.Parameters.WorkingDaysPerMonth)
	}
	if len(report.Sales) != 0 {
		t.Errorf("Expected no sales, got %d", len(report.Sales))
	}
	if len(paramRepo.Parameters) != 1 {
		t.Errorf("Expected defaults persisted, found %d rows", len(paramRepo.Parameters))
	}
}

func TestGetReport_MentorAccess(t *testing.T) {
	handler, _, _ := newReportHandler(t)

	rec, report := getReport(t, handler, 2, domain.RoleMentor, "1", "2025-03")
	if report == nil {
		t.Errorf("Expected mentor to read the mentee report, got %d", rec.Code)
	}
}

func TestGetReport_InvalidMonth(t *testing.T) {
	handler, _, _ := newReportHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales/report/1?month_year=03-2025", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("1")
	setupAuthContext(c, 1, domain.RoleUser)

	if err := handler.GetReport(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
