package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/impulsa/impulsa-backend/internal/domain"
	"github.com/impulsa/impulsa-backend/internal/middleware"
)

// pathUserID parses the :userId path parameter
func pathUserID(c echo.Context, param string) (int32, bool) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

// canAccessUser reports whether the caller may act on the target user's
// data: the user themselves, their assigned mentor, or an admin.
func canAccessUser(c echo.Context, target *domain.User) bool {
	callerID := middleware.GetUserID(c)
	if callerID == target.ID {
		return true
	}
	if middleware.GetRole(c) == domain.RoleAdmin {
		return true
	}
	return target.MentorID != nil && *target.MentorID == callerID
}

// isSelfOrAdmin reports whether the caller is the target user or an admin
func isSelfOrAdmin(c echo.Context, targetID int32) bool {
	return middleware.GetUserID(c) == targetID || middleware.GetRole(c) == domain.RoleAdmin
}
