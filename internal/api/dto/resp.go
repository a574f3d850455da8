package dto

import "time"

type TenantResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Sku  string `json:"sku"`
}

type UserResponse struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
	TenantID     string `json:"tenantId"`
}

// CascadeResponse summarises the users removed for a deleted tenant.
type CascadeResponse struct {
	TenantID   string          `json:"tenantId"`
	Matched    int             `json:"matched"`
	Deleted    []string        `json:"deleted"`
	Failed     []CascadeFailed `json:"failed"`
	DurationMs int64           `json:"durationMs"`
}

type CascadeFailed struct {
	UserID string `json:"userId"`
	Reason string `json:"reason"`
}

type HealthResponse struct {
	Status  string    `json:"status"`
	Service string    `json:"service"`
	Time    time.Time `json:"time"`
}
