package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/impulsa/impulsa-backend/internal/service"
	"github.com/impulsa/impulsa-backend/internal/testutil"
)

func newParameterHandler(t *testing.T) (*ParameterHandler, *testutil.MockParameterRepository) {
	t.Helper()
	userRepo := testutil.NewMockUserRepository()
	paramRepo := testutil.NewMockParameterRepository()
	userRepo.AddUser(&domain.User{ID: 1, Username: "ana", Email: "ana@example.com", Role: domain.RoleUser})

	handler := NewParameterHandler(service.NewParameterService(paramRepo), service.NewUserService(userRepo))
	return handler, paramRepo
}

func TestGetParameters_CreatesDefaults(t *testing.T) {
	e := echo.New()
	handler, paramRepo := newParameterHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales/parameters/1?month_year=2025-03", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("1")
	setupAuthContext(c, 1, domain.RoleUser)

	if err := handler.GetParameters(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response ParameterResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.MonthYear != "2025-03" {
		t.Errorf("Expected month '2025-03', got %s", response.MonthYear)
	}
	if response.WorkingDaysPerMonth != 30 {
		t.Errorf("Expected 30 working days by default, got %d", response.WorkingDaysPerMonth)
	}
	if response.DefaultPricePerUnit != nil {
		t.Error("Expected no default price per unit")
	}
	if len(paramRepo.Parameters) != 1 {
		t.Errorf("Expected the defaults to be persisted, found %d rows", len(paramRepo.Parameters))
	}
}

func TestUpdateParameters_PartialPatch(t *testing.T) {
	e := echo.New()
	handler, _ := newParameterHandler(t)

	body := `{"monthYear":"2025-03","targetMonthlySales":300,"fixedCostsMonthly":"3000.00"}`
	req := jsonRequest(http.MethodPut, "/api/v1/sales/parameters/1", body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("1")
	setupAuthContext(c, 1, domain.RoleUser)

	if err := handler.UpdateParameters(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response ParameterResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.TargetMonthlySales != 300 {
		t.Errorf("Expected target 300, got %d", response.TargetMonthlySales)
	}
	if response.FixedCostsMonthly != "3000.00" {
		t.Errorf("Expected fixed costs '3000.00', got %s", response.FixedCostsMonthly)
	}
	// Untouched field keeps its default
	if response.WorkingDaysPerMonth != 30 {
		t.Errorf("Expected untouched working days 30, got %d", response.WorkingDaysPerMonth)
	}
	if response.DailyTargetUnits != 10 {
		t.Errorf("Expected daily target 10, got %d", response.DailyTargetUnits)
	}
	if response.DailyFixedCosts != "100.00" {
		t.Errorf("Expected daily fixed costs '100.00', got %s", response.DailyFixedCosts)
	}
}

func TestUpdateParameters_SetAndClearNullableDefault(t *testing.T) {
	e := echo.New()
	handler, _ := newParameterHandler(t)

	send := func(body string) ParameterResponse {
		req := jsonRequest(http.MethodPut, "/api/v1/sales/parameters/1", body)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("userId")
		c.SetParamValues("1")
		setupAuthContext(c, 1, domain.RoleUser)

		if err := handler.UpdateParameters(c); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var response ParameterResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		return response
	}

	// Set the default price
	response := send(`{"monthYear":"2025-03","defaultPricePerUnit":"12.50"}`)
	if response.DefaultPricePerUnit == nil || *response.DefaultPricePerUnit != "12.50" {
		t.Fatal("Expected default price per unit '12.50'")
	}

	// An absent key leaves it alone
	response = send(`{"monthYear":"2025-03","targetMonthlySales":100}`)
	if response.DefaultPricePerUnit == nil || *response.DefaultPricePerUnit != "12.50" {
		t.Fatal("Expected default price per unit to survive an unrelated patch")
	}

	// An explicit null clears it
	response = send(`{"monthYear":"2025-03","defaultPricePerUnit":null}`)
	if response.DefaultPricePerUnit != nil {
		t.Errorf("Expected default price per unit cleared, got %v", *response.DefaultPricePerUnit)
	}
}

func TestUpdateParameters_RejectsMalformedDefault(t *testing.T) {
	e := echo.New()
	handler, _ := newParameterHandler(t)

	body := `{"monthYear":"2025-03","defaultPricePerUnit":"not-a-number"}`
	req := jsonRequest(http.MethodPut, "/api/v1/sales/parameters/1", body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("1")
	setupAuthContext(c, 1, domain.RoleUser)

	if err := handler.UpdateParameters(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}

	var problemDetails ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problemDetails); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(problemDetails.Errors) != 1 || problemDetails.Errors[0].Field != "defaultPricePerUnit" {
		t.Error("Expected a field error on defaultPricePerUnit")
	}
}

func TestUpdateParameters_RejectsNegativeTarget(t *testing.T) {
	e := echo.New()
	handler, _ := newParameterHandler(t)

	body := `{"monthYear":"2025-03","targetMonthlySales":-5}`
	req := jsonRequest(http.MethodPut, "/api/v1/sales/parameters/1", body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("1")
	setupAuthContext(c, 1, domain.RoleUser)

	if err := handler.UpdateParameters(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
