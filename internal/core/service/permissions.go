package service

import "github.com/c2developers/creatorhub/internal/core/domain"

// DashboardViews are the role-gated areas of the dashboard.
var DashboardViews = []domain.DashboardView{
	{ID: "creator-hub", Title: "Creator Hub", Roles: []string{domain.RoleAdmin, domain.RoleCreator}},
	{ID: "token-management", Title: "Token Management", Roles: []string{domain.RoleAdmin, domain.RoleCreator}},
	{ID: "analytics", Title: "Analytics", Roles: []string{domain.RoleAdmin, domain.RoleCreator}},
	{ID: "social-impact", Title: "Social Impact", Roles: []string{domain.RoleAdmin, domain.RoleCreator, domain.RoleUser}},
}

// HasRole reports whether u holds role. A nil user holds no role.
func HasRole(u *domain.User, role string) bool {
	return u != nil && u.Role == role
}

// HasAnyRole reports whether u holds one of roles.
func HasAnyRole(u *domain.User, roles ...string) bool {
	for _, r := range roles {
		if HasRole(u, r) {
			return true
		}
	}
	return false
}

// CanAccessView reports whether u may open a view restricted to allowed.
// An empty list makes the view public.
func CanAccessView(u *domain.User, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	return HasAnyRole(u, allowed...)
}

// AccessibleViews lists the dashboard views u may open.
func AccessibleViews(u *domain.User) []domain.DashboardView {
	out := make([]domain.DashboardView, 0, len(DashboardViews))
	for _, v := range DashboardViews {
		if CanAccessView(u, v.Roles) {
			out = append(out, v)
		}
	}
	return out
}
