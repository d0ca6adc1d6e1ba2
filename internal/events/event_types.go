package events

import (
	"time"

	"github.com/spec-kit/customer-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCustomerCreated EventType = "customer_created"
	EventCustomerUpdated EventType = "customer_updated"
	EventCustomerDeleted EventType = "customer_deleted"
	EventStaffRegistered EventType = "staff_registered"
	EventStaffDeleted    EventType = "staff_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// CustomerPayload carries customer event details.
type CustomerPayload struct {
	CustomerID string          `json:"customer_id"`
	Email      string          `json:"email"`
	Plan       domain.PlanTier `json:"plan"`
}

// StaffPayload carries staff event details.
type StaffPayload struct {
	StaffID  string           `json:"staff_id"`
	Username string           `json:"username"`
	Role     domain.StaffRole `json:"role"`
}
