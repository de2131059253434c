package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/impulsa/impulsa-backend/internal/service"
)

// SaleHandler handles daily sale HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
	userService *service.UserService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *service.SaleService, userService *service.UserService) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
		userService: userService,
	}
}

// RecordSaleRequest represents the record sale request body
type RecordSaleRequest struct {
	SaleDate            string           `json:"saleDate"`
	UnitsSold           *int             `json:"unitsSold"`
	PricePerUnit        *decimal.Decimal `json:"pricePerUnit"`
	VariableCostPerUnit *decimal.Decimal `json:"variableCostPerUnit"`
	ProductName         *string          `json:"productName"`
}

// SaleResponse represents a daily sale in API responses
type SaleResponse struct {
	ID                  int32   `json:"id"`
	UserID              int32   `json:"userId"`
	SaleDate            string  `json:"saleDate"`
	ProductName         *string `json:"productName,omitempty"`
	UnitsSold           int     `json:"unitsSold"`
	PricePerUnit        string  `json:"pricePerUnit"`
	VariableCostPerUnit string  `json:"variableCostPerUnit"`
	Revenue             string  `json:"revenue"`
	TotalVariableCosts  string  `json:"totalVariableCosts"`
	GrossProfit         string  `json:"grossProfit"`
	CreatedAt           string  `json:"createdAt"`
	UpdatedAt           string  `json:"updatedAt"`
}

// authorize checks that the caller may act on the target user's sales data
func (h *SaleHandler) authorize(c echo.Context, userID int32) error {
	user, err := h.userService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to load user")
		return NewInternalError(c, "Failed to load user")
	}
	if !canAccessUser(c, user) {
		return NewForbiddenError(c, "You cannot access this user's sales data")
	}
	return nil
}

// RecordSale handles POST /api/v1/sales/:userId
func (h *SaleHandler) RecordSale(c echo.Context) error {
	userID, ok := pathUserID(c, "userId")
	if !ok {
		return NewValidationError(c, "Invalid user ID", nil)
	}
	if err := h.authorize(c, userID); err != nil {
		return err
	}

	var req RecordSaleRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	// Every required key must be present; report them all at once
	var missing []ValidationError
	if req.SaleDate == "" {
		missing = append(missing, ValidationError{Field: "saleDate", Message: "Sale date is required (YYYY-MM-DD)"})
	}
	if req.UnitsSold == nil {
		missing = append(missing, ValidationError{Field: "unitsSold", Message: "Units sold is required"})
	}
	if req.PricePerUnit == nil {
		missing = append(missing, ValidationError{Field: "pricePerUnit", Message: "Price per unit is required"})
	}
	if req.VariableCostPerUnit == nil {
		missing = append(missing, ValidationError{Field: "variableCostPerUnit", Message: "Variable cost per unit is required"})
	}
	if len(missing) > 0 {
		return NewValidationError(c, "Validation failed", missing)
	}

	sale, err := h.saleService.RecordSale(userID, req.SaleDate, *req.UnitsSold, *req.PricePerUnit, *req.VariableCostPerUnit, req.ProductName)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Int32("user_id", userID).Str("sale_date", req.SaleDate).Msg("Failed to record sale")
		return NewInternalError(c, "Failed to record sale")
	}

	log.Info().Int32("user_id", userID).Str("sale_date", req.SaleDate).Int("units", sale.UnitsSold).Msg("Sale recorded")
	return c.JSON(http.StatusCreated, toSaleResponse(sale))
}

// ListSales handles GET /api/v1/sales/:userId?month_year=YYYY-MM
func (h *SaleHandler) ListSales(c echo.Context) error {
	userID, ok := pathUserID(c, "userId")
	if !ok {
		return NewValidationError(c, "Invalid user ID", nil)
	}
	if err := h.authorize(c, userID); err != nil {
		return err
	}

	sales, err := h.saleService.ListSales(userID, c.QueryParam("month_year"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to list sales")
		return NewInternalError(c, "Failed to list sales")
	}

	response := make([]SaleResponse, len(sales))
	for i, sale := range sales {
		response[i] = toSaleResponse(sale)
	}
	return c.JSON(http.StatusOK, response)
}

// DeleteSale handles DELETE /api/v1/sales/:userId/:saleId
func (h *SaleHandler) DeleteSale(c echo.Context) error {
	userID, ok := pathUserID(c, "userId")
	if !ok {
		return NewValidationError(c, "Invalid user ID", nil)
	}
	saleID, err := strconv.Atoi(c.Param("saleId"))
	if err != nil || saleID <= 0 {
		return NewValidationError(c, "Invalid sale ID", nil)
	}
	if err := h.authorize(c, userID); err != nil {
		return err
	}

	if err := h.saleService.DeleteSale(userID, int32(saleID)); err != nil {
		if errors.Is(err, domain.ErrSaleNotFound) {
			return NewNotFoundError(c, "Sale not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Int("sale_id", saleID).Msg("Failed to delete sale")
		return NewInternalError(c, "Failed to delete sale")
	}

	log.Info().Int32("user_id", userID).Int("sale_id", saleID).Msg("Sale deleted")
	return c.NoContent(http.StatusNoContent)
}

func toSaleResponse(sale *domain.DailySale) SaleResponse {
	return SaleResponse{
		ID:                  sale.ID,
		UserID:              sale.UserID,
		SaleDate:            sale.SaleDate.Format("2006-01-02"),
		ProductName:         sale.ProductName,
		UnitsSold:           sale.UnitsSold,
		PricePerUnit:        sale.PricePerUnit.StringFixed(2),
		VariableCostPerUnit: sale.VariableCostPerUnit.StringFixed(2),
		Revenue:             sale.Revenue().StringFixed(2),
		TotalVariableCosts:  sale.TotalVariableCosts().StringFixed(2),
		GrossProfit:         sale.GrossProfit().StringFixed(2),
		CreatedAt:           sale.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           sale.UpdatedAt.Format(time.RFC3339),
	}
}
