package dto

import "time"

// StaffDeleteRequest payload for DELETE /admin/staff.
type StaffDeleteRequest struct {
	StaffID string `json:"staffId"`
}

// StaffWithStatsResponse is a staff account augmented with its customer count.
type StaffWithStatsResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	CustomersAdded int64     `json:"customersAdded"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PlanCountResponse pairs a plan tier with its customer count.
type PlanCountResponse struct {
	PlanName string `json:"planName"`
	Count    int64  `json:"count"`
}

// AdminStatsResponse is the admin dashboard aggregate.
type AdminStatsResponse struct {
	TotalCustomers   int64               `json:"totalCustomers"`
	ActiveCustomers  int64               `json:"activeCustomers"`
	ExpiredCustomers int64               `json:"expiredCustomers"`
	TotalStaff       int64               `json:"totalStaff"`
	TotalAdders      int64               `json:"totalAdders"`
	TotalUpdaters    int64               `json:"totalUpdaters"`
	RevenueByPlan    []PlanCountResponse `json:"revenueByPlan"`
}
