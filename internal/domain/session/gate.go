package session

import (
	"strings"

	"incorporation-portal/internal/domain/user"
)

const (
	RouteHome                 = "/"
	RouteLogin                = "/login"
	RouteRegister             = "/register"
	RouteStartupIncorporation = "/startup-incorporation"
	RouteUserDashboard        = "/user-dashboard"
	RouteAdminDashboard       = "/admin-dashboard"
)

// Rule is the access requirement of one route.
type Rule struct {
	RequireAuth bool
	Role        user.Role
}

var rules = map[string]Rule{
	RouteHome:                 {},
	RouteLogin:                {},
	RouteRegister:             {},
	RouteStartupIncorporation: {RequireAuth: true},
	RouteUserDashboard:        {RequireAuth: true, Role: user.RoleUser},
	RouteAdminDashboard:       {RequireAuth: true, Role: user.RoleAdmin},
}

// Decision is the gate outcome. Redirect is set only when Allowed is false.
type Decision struct {
	Path     string `json:"path"`
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
}

// RuleFor returns the rule for path. Unknown paths are public.
func RuleFor(path string) Rule {
	return rules[normalizePath(path)]
}

// Gate decides whether s may open path. Unauthenticated callers go to the
// login page; a role mismatch sends the caller to the dashboard of the role
// they actually hold, never to an error page.
func Gate(s Session, path string) Decision {
	p := normalizePath(path)
	r := RuleFor(p)
	d := Decision{Path: p}

	if !r.RequireAuth && r.Role == "" {
		d.Allowed = true
		return d
	}
	if !s.Authenticated {
		d.Redirect = RouteLogin
		return d
	}
	if r.Role != "" && s.Role != r.Role {
		d.Redirect = DashboardFor(s.Role)
		return d
	}
	d.Allowed = true
	return d
}

// DashboardFor is the landing page of role.
func DashboardFor(role user.Role) string {
	if role == user.RoleAdmin {
		return RouteAdminDashboard
	}
	return RouteUserDashboard
}

func normalizePath(path string) string {
	p := strings.TrimSpace(path)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return RouteHome
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = RouteHome
		}
	}
	return strings.ToLower(p)
}
