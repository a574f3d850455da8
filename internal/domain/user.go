package domain

// User is owned by the user service. TenantID is only checked against the
// tenant shadows when the user is written.
type User struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
	TenantID     string `json:"tenantId"`
}
