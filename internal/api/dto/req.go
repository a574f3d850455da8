package dto

// TenantRequest is the body of POST /tenant and PUT /tenant/:id.
type TenantRequest struct {
	ID   string `json:"id" binding:"required,guid" example:"af5cc56a-e164-43cc-8ab2-cf7a76ff5242"`
	Name string `json:"name" binding:"required,min=1,max=256" example:"Contoso"`
	Sku  string `json:"sku" binding:"required,oneof=free standard premium" example:"standard"`
}

// UserRequest is the body of POST /user and PUT /user/:id.
type UserRequest struct {
	ID           string `json:"id" binding:"required,guid"`
	FirstName    string `json:"firstName" binding:"required,min=2,max=35"`
	LastName     string `json:"lastName" binding:"required,min=2,max=35"`
	EmailAddress string `json:"emailAddress" binding:"required,email"`
	TenantID     string `json:"tenantId" binding:"required,guid"`
}

// EventRequest is the body pushed to the event-delivery endpoints.
type EventRequest struct {
	ID string `json:"id" binding:"required,guid"`
}
