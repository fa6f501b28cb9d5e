package auth

import (
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/models"
)

// Dashboard identifiers exposed to clients for routing.
const (
	DashboardMain    = "dashboard"
	DashboardCaptain = "captain"
	DashboardKitchen = "kitchen"
	DashboardUsers   = "users"
)

// roleDashboards is the declarative role -> dashboard-set table. Adding
// a capability for a role means editing this table, nothing else.
var roleDashboards = map[models.Role][]string{
	models.RoleAdmin:   {DashboardMain, DashboardCaptain, DashboardKitchen, DashboardUsers},
	models.RoleManager: {DashboardMain, DashboardCaptain, DashboardKitchen, DashboardUsers},
	models.RoleCaptain: {DashboardCaptain},
	models.RoleKitchen: {DashboardKitchen},
}

// DashboardsForRole returns the dashboards a role may open.
func DashboardsForRole(role models.Role) []string {
	dashboards := roleDashboards[role]
	out := make([]string, len(dashboards))
	copy(out, dashboards)
	return out
}

// LandingDashboard picks where a freshly logged-in user is routed:
// straight to their only dashboard, or to the general dashboard when
// they have more than one.
func LandingDashboard(role models.Role) string {
	dashboards := roleDashboards[role]
	switch len(dashboards) {
	case 0:
		return ""
	case 1:
		return dashboards[0]
	default:
		return DashboardMain
	}
}

// HasKitchenAccess reports whether the user may act on the given
// kitchen. Admins and managers have unconditional access; kitchen and
// captain staff need an explicit grant.
func HasKitchenAccess(user *models.User, kitchenID string) bool {
	if user == nil {
		return false
	}
	if user.Role == models.RoleAdmin || user.Role == models.RoleManager {
		return true
	}
	for _, id := range user.KitchenAccess() {
		if id == kitchenID {
			return true
		}
	}
	return false
}
