package domain

// Sku is the subscription tier of a tenant.
type Sku string

const (
	SkuFree     Sku = "free"
	SkuStandard Sku = "standard"
	SkuPremium  Sku = "premium"
)

// ValidSkus contains all skus a tenant can be created with
var ValidSkus = []Sku{SkuFree, SkuStandard, SkuPremium}

// Tenant is the authoritative tenant record owned by the tenant service.
type Tenant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Sku  Sku    `json:"sku"`
}

// TenantShadow is the user service's local projection of a tenant. It only
// exists to answer "does this tenant exist" when users are written.
type TenantShadow struct {
	ID string `json:"id"`
}
