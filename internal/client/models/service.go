package models

import "time"

// ServiceCategory groups catalog services by portal vertical.
type ServiceCategory string

const (
	CategoryTravel        ServiceCategory = "travel"
	CategoryAssetGuardian ServiceCategory = "asset-guardian"
	CategoryWellness      ServiceCategory = "wellness"
)

// Service is a concierge catalog entry. Which tiers may request it is
// decided server-side; the client only displays and requests.
type Service struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    ServiceCategory `json:"category"`
	IsActive    bool            `json:"isActive"`
}

// ServiceRequest is a member's request for a catalog service.
type ServiceRequest struct {
	ID        string    `json:"id"`
	ServiceID string    `json:"serviceId"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
