package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/customer-service/internal/api/dto"
	"github.com/spec-kit/customer-service/internal/auth"
	"github.com/spec-kit/customer-service/internal/repository"
	"github.com/spec-kit/customer-service/internal/service"
)

// CustomersHandler exposes the customer CRUD endpoints.
type CustomersHandler struct {
	customers *service.CustomerService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customerService *service.CustomerService) *CustomersHandler {
	return &CustomersHandler{customers: customerService}
}

// List handles GET /customers.
func (h *CustomersHandler) List(c *fiber.Ctx) error {
	records, err := h.customers.List(c.Context(), parseCustomerFilter(c))
	if err != nil {
		return err
	}

	resp := make([]dto.CustomerResponse, 0, len(records))
	for i := range records {
		resp = append(resp, dto.NewCustomerResponse(&records[i]))
	}
	return c.JSON(fiber.Map{"success": true, "data": resp})
}

// Get handles GET /customers/:id.
func (h *CustomersHandler) Get(c *fiber.Ctx) error {
	customer, err := h.customers.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.NewCustomerResponse(customer)})
}

// Create handles POST /customers. The authenticated Adder's username becomes
// the record's provenance.
func (h *CustomersHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Authentication required")
	}

	var req dto.CustomerCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid payload")
	}

	customer, err := h.customers.Create(c.Context(), service.CreateCustomerInput{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Location:          req.Location,
		Profession:        req.Profession,
		Plan:              service.PlanInput(req.Plan),
		PaymentScreenshot: req.PaymentScreenshot,
		IsCompanyMember:   req.IsCompanyMember,
	}, principal.Username)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Customer added successfully",
		"data": dto.CustomerCreatedResponse{
			ID:      customer.ID,
			Name:    customer.Name,
			Email:   customer.Email,
			Plan:    dto.NewPlanResponse(customer.Plan),
			AddedBy: customer.AddedBy,
		},
	})
}

// Update handles PUT /customers.
func (h *CustomersHandler) Update(c *fiber.Ctx) error {
	var req dto.CustomerUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid payload")
	}
	if req.CustomerID == "" {
		return fiber.NewError(http.StatusBadRequest, "Customer ID is required")
	}

	input := service.UpdateCustomerInput{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Location:          req.Location,
		Profession:        req.Profession,
		PaymentScreenshot: req.PaymentScreenshot,
		IsCompanyMember:   req.IsCompanyMember,
	}
	if req.Plan != nil {
		input.Plan = &service.PlanUpdate{
			Name:      req.Plan.Name,
			StartDate: req.Plan.StartDate,
			EndDate:   req.Plan.EndDate,
		}
	}

	customer, err := h.customers.Update(c.Context(), req.CustomerID, input)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Customer updated successfully",
		"data":    dto.NewCustomerResponse(customer),
	})
}

// Delete handles DELETE /customers.
func (h *CustomersHandler) Delete(c *fiber.Ctx) error {
	var req dto.CustomerDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid payload")
	}
	if req.CustomerID == "" {
		return fiber.NewError(http.StatusBadRequest, "Customer ID is required")
	}

	if err := h.customers.Delete(c.Context(), req.CustomerID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Customer deleted successfully"})
}

func parseCustomerFilter(c *fiber.Ctx) repository.CustomerFilter {
	filter := repository.CustomerFilter{
		Search:     c.Query("search"),
		PlanType:   c.Query("planType"),
		Status:     c.Query("status"),
		MemberType: c.Query("memberType"),
	}
	if from := c.Query("dateFrom"); from != "" {
		if parsed, err := time.Parse("2006-01-02", from); err == nil {
			filter.DateFrom = &parsed
		}
	}
	if to := c.Query("dateTo"); to != "" {
		if parsed, err := time.Parse("2006-01-02", to); err == nil {
			filter.DateTo = &parsed
		}
	}
	return filter
}
