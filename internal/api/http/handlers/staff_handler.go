package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/customer-service/internal/api/dto"
	"github.com/spec-kit/customer-service/internal/service"
)

// StaffHandler exposes the admin-only staff management endpoints. Routes are
// gated by the admin middleware before these run.
type StaffHandler struct {
	staff *service.StaffService
	stats *service.StatsService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService, statsService *service.StatsService) *StaffHandler {
	return &StaffHandler{staff: staffService, stats: statsService}
}

// List handles GET /admin/staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	list, err := h.staff.ListWithStats(c.Context())
	if err != nil {
		return err
	}

	resp := make([]dto.StaffWithStatsResponse, 0, len(list))
	for _, member := range list {
		resp = append(resp, dto.StaffWithStatsResponse{
			ID:             member.ID,
			Username:       member.Username,
			Name:           member.Name,
			Email:          member.Email,
			Role:           string(member.Role),
			CustomersAdded: member.CustomersAdded,
			CreatedAt:      member.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": resp})
}

// Delete handles DELETE /admin/staff.
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	var req dto.StaffDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid payload")
	}
	if req.StaffID == "" {
		return fiber.NewError(http.StatusBadRequest, "Staff ID is required")
	}

	if err := h.staff.Delete(c.Context(), req.StaffID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Staff member deleted successfully"})
}

// Stats handles GET /admin/stats.
func (h *StaffHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.stats.Compute(c.Context(), time.Now())
	if err != nil {
		return err
	}

	resp := dto.AdminStatsResponse{
		TotalCustomers:   stats.TotalCustomers,
		ActiveCustomers:  stats.ActiveCustomers,
		ExpiredCustomers: stats.ExpiredCustomers,
		TotalStaff:       stats.TotalStaff,
		TotalAdders:      stats.TotalAdders,
		TotalUpdaters:    stats.TotalUpdaters,
		RevenueByPlan:    make([]dto.PlanCountResponse, 0, len(stats.RevenueByPlan)),
	}
	for _, plan := range stats.RevenueByPlan {
		resp.RevenueByPlan = append(resp.RevenueByPlan, dto.PlanCountResponse{
			PlanName: plan.PlanName,
			Count:    plan.Count,
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": resp})
}
