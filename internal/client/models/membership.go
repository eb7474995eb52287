package models

import "time"

// Membership is a user's active subscription to a tier.
type Membership struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Tier      MembershipTier `json:"tier"`
	StartDate time.Time      `json:"startDate"`
	EndDate   time.Time      `json:"endDate"`
	AutoRenew bool           `json:"autoRenew"`
}

// MembershipPlan is a purchasable tier offering.
type MembershipPlan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Period      string   `json:"period"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}
