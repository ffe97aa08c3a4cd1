package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openclass/lms-platform/internal/api/middleware"
	"github.com/openclass/lms-platform/internal/core/domain"
	"github.com/openclass/lms-platform/internal/core/ports"
)

// DashboardHandler serves the role-scoped API groups. Course/program/book
// CRUD lives in the external business services; these endpoints carry what
// each dashboard needs from the auth tier itself.
type DashboardHandler struct {
	audit ports.AuditService
}

func NewDashboardHandler(audit ports.AuditService) *DashboardHandler {
	return &DashboardHandler{audit: audit}
}

type dashboardResponse struct {
	Role domain.Role  `json:"role"`
	User *domain.User `json:"user"`
}

// Summary returns the principal's dashboard context. Mounted once per role
// group, each behind RequireAuth + RequireRole for that role.
//
// @Summary      Dashboard summary for the authenticated role
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  errorEnvelope
// @Failure      403  {object}  errorEnvelope
// @Router       /api/{role}/dashboard [get]
func (h *DashboardHandler) Summary(c echo.Context) error {
	principal := middleware.Principal(c)
	if principal == nil {
		return c.JSON(http.StatusUnauthorized, errorEnvelope{Message: "no authenticated principal", Code: domain.CodeAuthError})
	}
	return c.JSON(http.StatusOK, dashboardResponse{Role: principal.Role, User: principal})
}

// AuditTrail lists recent auth audit events, newest first. Admin only.
//
// @Summary      Recent auth audit events
// @Tags         dashboard
// @Produce      json
// @Param        limit  query     int  false  "maximum events to return"
// @Success      200    {array}   domain.AuditEvent
// @Failure      401    {object}  errorEnvelope
// @Failure      403    {object}  errorEnvelope
// @Router       /api/admin/audit [get]
func (h *DashboardHandler) AuditTrail(c echo.Context) error {
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	events, err := h.audit.Recent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}
