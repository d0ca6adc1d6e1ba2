package dto

import (
	"time"

	"github.com/spec-kit/customer-service/internal/domain"
)

// PlanRequest carries plan fields on customer creation.
type PlanRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// CustomerCreateRequest payload for POST /customers.
type CustomerCreateRequest struct {
	Name              string      `json:"name"`
	Email             string      `json:"email"`
	Phone             string      `json:"phone"`
	Location          string      `json:"location"`
	Profession        string      `json:"profession"`
	Plan              PlanRequest `json:"plan"`
	PaymentScreenshot string      `json:"paymentScreenshot"`
	IsCompanyMember   bool        `json:"isCompanyMember"`
}

// PlanUpdateRequest carries optional plan changes.
type PlanUpdateRequest struct {
	Name      *string `json:"name"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

// CustomerUpdateRequest payload for PUT /customers. Only non-nil fields are
// applied; addedBy is not accepted.
type CustomerUpdateRequest struct {
	CustomerID        string             `json:"customerId"`
	Name              *string            `json:"name"`
	Email             *string            `json:"email"`
	Phone             *string            `json:"phone"`
	Location          *string            `json:"location"`
	Profession        *string            `json:"profession"`
	Plan              *PlanUpdateRequest `json:"plan"`
	PaymentScreenshot *string            `json:"paymentScreenshot"`
	IsCompanyMember   *bool              `json:"isCompanyMember"`
}

// CustomerDeleteRequest payload for DELETE /customers.
type CustomerDeleteRequest struct {
	CustomerID string `json:"customerId"`
}

// PlanResponse is the serialized plan window.
type PlanResponse struct {
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// CustomerResponse is the full customer projection.
type CustomerResponse struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	Phone             string       `json:"phone,omitempty"`
	Location          string       `json:"location,omitempty"`
	Profession        string       `json:"profession,omitempty"`
	Plan              PlanResponse `json:"plan"`
	PaymentScreenshot string       `json:"paymentScreenshot"`
	IsCompanyMember   bool         `json:"isCompanyMember"`
	AddedBy           string       `json:"addedBy"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// CustomerCreatedResponse is the trimmed projection returned on creation.
type CustomerCreatedResponse struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Email   string       `json:"email"`
	Plan    PlanResponse `json:"plan"`
	AddedBy string       `json:"addedBy"`
}

// NewCustomerResponse maps a domain record to its wire shape.
func NewCustomerResponse(customer *domain.CustomerRecord) CustomerResponse {
	return CustomerResponse{
		ID:                customer.ID,
		Name:              customer.Name,
		Email:             customer.Email,
		Phone:             customer.Phone,
		Location:          customer.Location,
		Profession:        customer.Profession,
		Plan:              NewPlanResponse(customer.Plan),
		PaymentScreenshot: customer.PaymentScreenshot,
		IsCompanyMember:   customer.IsCompanyMember,
		AddedBy:           customer.AddedBy,
		CreatedAt:         customer.CreatedAt,
		UpdatedAt:         customer.UpdatedAt,
	}
}

// NewPlanResponse maps a domain plan to its wire shape.
func NewPlanResponse(plan domain.Plan) PlanResponse {
	return PlanResponse{
		Name:      string(plan.Name),
		StartDate: plan.StartDate,
		EndDate:   plan.EndDate,
	}
}
