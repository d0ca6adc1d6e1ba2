package domain

import "time"

// PlanTier enumerates the subscription tiers a customer can hold.
type PlanTier string

const (
	PlanTierMonthly    PlanTier = "Monthly"
	PlanTierQuarterly  PlanTier = "3 Months"
	PlanTierHalfYearly PlanTier = "6 Months"
	PlanTierYearly     PlanTier = "Yearly"
)

// Valid reports whether the tier belongs to the fixed tier set.
func (p PlanTier) Valid() bool {
	switch p {
	case PlanTierMonthly, PlanTierQuarterly, PlanTierHalfYearly, PlanTierYearly:
		return true
	}
	return false
}

// Plan is a customer's subscription window. EndDate is strictly after
// StartDate.
type Plan struct {
	Name      PlanTier
	StartDate time.Time
	EndDate   time.Time
}

// Active reports whether the plan window covers the given instant.
func (p Plan) Active(now time.Time) bool {
	return p.EndDate.After(now)
}

// CustomerRecord is the single record type this service manages. AddedBy is
// the username of the Adder who created the record and is immutable.
type CustomerRecord struct {
	ID                string
	Name              string
	Email             string
	Phone             string
	Location          string
	Profession        string
	Plan              Plan
	PaymentScreenshot string
	IsCompanyMember   bool
	AddedBy           string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
