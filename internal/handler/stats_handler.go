package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/impulsa/impulsa-backend/internal/service"
)

// StatsHandler handles admin statistics requests
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetPlatformStatistics handles GET /api/v1/admin/statistics
func (h *StatsHandler) GetPlatformStatistics(c echo.Context) error {
	stats, err := h.statsService.GetPlatformStatistics()
	if err != nil {
		log.Error().Err(err).Msg("Failed to build platform statistics")
		return NewInternalError(c, "Failed to build platform statistics")
	}
	return c.JSON(http.StatusOK, stats)
}

// GetMentorPerformance handles GET /api/v1/admin/statistics/mentors
func (h *StatsHandler) GetMentorPerformance(c echo.Context) error {
	performance, err := h.statsService.GetMentorPerformance()
	if err != nil {
		log.Error().Err(err).Msg("Failed to build mentor performance")
		return NewInternalError(c, "Failed to build mentor performance")
	}
	return c.JSON(http.StatusOK, performance)
}
