package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/impulsa/impulsa-backend/internal/service"
)

// ParameterHandler handles monthly parameter HTTP requests
type ParameterHandler struct {
	parameterService *service.ParameterService
	userService      *service.UserService
}

// NewParameterHandler creates a new ParameterHandler
func NewParameterHandler(parameterService *service.ParameterService, userService *service.UserService) *ParameterHandler {
	return &ParameterHandler{
		parameterService: parameterService,
		userService:      userService,
	}
}

// UpdateParametersRequest represents the partial parameter patch. Absent
// keys leave the stored value untouched; the two default fields accept an
// explicit null to clear them, so they are kept raw until decoded.
type UpdateParametersRequest struct {
	MonthYear                  string           `json:"monthYear"`
	TargetMonthlySales         *int             `json:"targetMonthlySales"`
	FixedCostsMonthly          *decimal.Decimal `json:"fixedCostsMonthly"`
	LoanMonthlyPayment         *decimal.Decimal `json:"loanMonthlyPayment"`
	WorkingDaysPerMonth        *int             `json:"workingDaysPerMonth"`
	DefaultPricePerUnit        json.RawMessage  `json:"defaultPricePerUnit"`
	DefaultVariableCostPerUnit json.RawMessage  `json:"defaultVariableCostPerUnit"`
}

// ParameterResponse represents monthly parameters in API responses
type ParameterResponse struct {
	ID                         int32   `json:"id"`
	UserID                     int32   `json:"userId"`
	MonthYear                  string  `json:"monthYear"`
	TargetMonthlySales         int     `json:"targetMonthlySales"`
	FixedCostsMonthly          string  `json:"fixedCostsMonthly"`
	LoanMonthlyPayment         string  `json:"loanMonthlyPayment"`
	WorkingDaysPerMonth        int     `json:"workingDaysPerMonth"`
	DefaultPricePerUnit        *string `json:"defaultPricePerUnit"`
	DefaultVariableCostPerUnit *string `json:"defaultVariableCostPerUnit"`
	DailyTargetUnits           int     `json:"dailyTargetUnits"`
	DailyFixedCosts            string  `json:"dailyFixedCosts"`
	CreatedAt                  string  `json:"createdAt"`
	UpdatedAt                  string  `json:"updatedAt"`
}

// authorize checks that the caller may act on the target user's parameters
func (h *ParameterHandler) authorize(c echo.Context, userID int32) error {
	user, err := h.userService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to load user")
		return NewInternalError(c, "Failed to load user")
	}
	if !canAccessUser(c, user) {
		return NewForbiddenError(c, "You cannot access this user's parameters")
	}
	return nil
}

// GetParameters handles GET /api/v1/sales/parameters/:userId?month_year=YYYY-MM
func (h *ParameterHandler) GetParameters(c echo.Context) error {
	userID, ok := pathUserID(c, "userId")
	if !ok {
		return NewValidationError(c, "Invalid user ID", nil)
	}
	if err := h.authorize(c, userID); err != nil {
		return err
	}

	params, err := h.parameterService.GetOrCreate(userID, c.QueryParam("month_year"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to get parameters")
		return NewInternalError(c, "Failed to get parameters")
	}
	return c.JSON(http.StatusOK, toParameterResponse(params))
}

// UpdateParameters handles PUT /api/v1/sales/parameters/:userId
func (h *ParameterHandler) UpdateParameters(c echo.Context) error {
	userID, ok := pathUserID(c, "userId")
	if !ok {
		return NewValidationError(c, "Invalid user ID", nil)
	}
	if err := h.authorize(c, userID); err != nil {
		return err
	}

	var req UpdateParametersRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	patch := &domain.ParameterPatch{
		TargetMonthlySales:  req.TargetMonthlySales,
		FixedCostsMonthly:   req.FixedCostsMonthly,
		LoanMonthlyPayment:  req.LoanMonthlyPayment,
		WorkingDaysPerMonth: req.WorkingDaysPerMonth,
	}

	var err error
	if patch.DefaultPricePerUnit, err = decodeNullableDecimal(req.DefaultPricePerUnit); err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "defaultPricePerUnit", Message: "Must be a decimal number or null"},
		})
	}
	if patch.DefaultVariableCostPerUnit, err = decodeNullableDecimal(req.DefaultVariableCostPerUnit); err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "defaultVariableCostPerUnit", Message: "Must be a decimal number or null"},
		})
	}

	monthYear := req.MonthYear
	if monthYear == "" {
		monthYear = c.QueryParam("month_year")
	}

	params, err := h.parameterService.Update(userID, monthYear, patch)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Int32("user_id", userID).Str("month_year", monthYear).Msg("Failed to update parameters")
		return NewInternalError(c, "Failed to update parameters")
	}

	log.Info().Int32("user_id", userID).Str("month_year", params.MonthYear).Msg("Parameters updated")
	return c.JSON(http.StatusOK, toParameterResponse(params))
}

// decodeNullableDecimal distinguishes the three JSON shapes of an
// optional nullable field: absent (nil), explicit null (outer non-nil,
// inner nil), and a value.
func decodeNullableDecimal(raw json.RawMessage) (**decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		var cleared *decimal.Decimal
		return &cleared, nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	ptr := &d
	return &ptr, nil
}

func toParameterResponse(params *domain.MonthlyParameters) ParameterResponse {
	resp := ParameterResponse{
		ID:                  params.ID,
		UserID:              params.UserID,
		MonthYear:           params.MonthYear,
		TargetMonthlySales:  params.TargetMonthlySales,
		FixedCostsMonthly:   params.FixedCostsMonthly.StringFixed(2),
		LoanMonthlyPayment:  params.LoanMonthlyPayment.StringFixed(2),
		WorkingDaysPerMonth: params.WorkingDaysPerMonth,
		DailyTargetUnits:    params.DailyTargetUnits(),
		DailyFixedCosts:     params.DailyFixedCosts().Round(2).StringFixed(2),
		CreatedAt:           params.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           params.UpdatedAt.Format(time.RFC3339),
	}
	if params.DefaultPricePerUnit != nil {
		v := params.DefaultPricePerUnit.StringFixed(2)
		resp.DefaultPricePerUnit = &v
	}
	if params.DefaultVariableCostPerUnit != nil {
		v := params.DefaultVariableCostPerUnit.StringFixed(2)
		resp.DefaultVariableCostPerUnit = &v
	}
	return resp
}
