package dto

import (
	"github.com/kingrain94/tenant-user-sync/internal/domain"
	"github.com/kingrain94/tenant-user-sync/internal/service"
)

func (r *TenantRequest) ToTenant() *domain.Tenant {
	return &domain.Tenant{
		ID:   r.ID,
		Name: r.Name,
		Sku:  domain.Sku(r.Sku),
	}
}

func FromTenant(tenant *domain.Tenant) TenantResponse {
	return TenantResponse{
		ID:   tenant.ID,
		Name: tenant.Name,
		Sku:  string(tenant.Sku),
	}
}

func (r *UserRequest) ToUser() *domain.User {
	return &domain.User{
		ID:           r.ID,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		EmailAddress: r.EmailAddress,
		TenantID:     r.TenantID,
	}
}

func FromUser(user *domain.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		EmailAddress: user.EmailAddress,
		TenantID:     user.TenantID,
	}
}

func FromCascadeReport(report *service.CascadeReport) CascadeResponse {
	failed := make([]CascadeFailed, len(report.Failed))
	for i, f := range report.Failed {
		failed[i] = CascadeFailed{UserID: f.UserID, Reason: f.Reason}
	}

	return CascadeResponse{
		TenantID:   report.TenantID,
		Matched:    report.Matched,
		Deleted:    report.Deleted,
		Failed:     failed,
		DurationMs: report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
	}
}
