package session

import (
	"context"
	"testing"
	"time"

	"incorporation-portal/internal/domain/user"

	"github.com/stretchr/testify/assert"
)

var protected = []string{RouteStartupIncorporation, RouteUserDashboard, RouteAdminDashboard}

func TestGate_AnonymousRedirectsToLogin(t *testing.T) {
	for _, p := range protected {
		d := Gate(Session{}, p)
		assert.False(t, d.Allowed, p)
		assert.Equal(t, RouteLogin, d.Redirect, p)
	}
}

func TestGate_UserOnAdminRouteGoesToUserDashboard(t *testing.T) {
	s := Session{Authenticated: true, Role: user.RoleUser}
	d := Gate(s, RouteAdminDashboard)
	assert.False(t, d.Allowed)
	assert.Equal(t, RouteUserDashboard, d.Redirect)
}

func TestGate_AdminOnUserRouteGoesToAdminDashboard(t *testing.T) {
	s := Session{Authenticated: true, Role: user.RoleAdmin}
	d := Gate(s, RouteUserDashboard)
	assert.False(t, d.Allowed)
	assert.Equal(t, RouteAdminDashboard, d.Redirect)
}

func TestGate_Allowed(t *testing.T) {
	u := Session{Authenticated: true, Role: user.RoleUser}
	a := Session{Authenticated: true, Role: user.RoleAdmin}

	cases := []struct {
		s    Session
		path string
	}{
		{Session{}, RouteHome},
		{Session{}, RouteLogin},
		{Session{}, RouteRegister},
		{Session{}, "/about"},
		{u, RouteStartupIncorporation},
		{a, RouteStartupIncorporation},
		{u, RouteUserDashboard},
		{a, RouteAdminDashboard},
	}
	for _, tc := range cases {
		d := Gate(tc.s, tc.path)
		assert.True(t, d.Allowed, "%+v %s", tc.s, tc.path)
		assert.Empty(t, d.Redirect)
	}
}

func TestGate_NormalizesPath(t *testing.T) {
	d := Gate(Session{}, "admin-dashboard/?tab=apps")
	assert.Equal(t, RouteAdminDashboard, d.Path)
	assert.Equal(t, RouteLogin, d.Redirect)

	assert.Equal(t, RouteHome, Gate(Session{}, "").Path)
}

func TestRuleFor(t *testing.T) {
	assert.Equal(t, Rule{RequireAuth: true, Role: user.RoleAdmin}, RuleFor(" /Admin-Dashboard/?tab=users"))
	assert.Equal(t, Rule{RequireAuth: true}, RuleFor("startup-incorporation"))
	assert.Equal(t, Rule{}, RuleFor("/pricing"), "unknown paths are public")

	d := Gate(Session{}, "/pricing")
	assert.True(t, d.Allowed)
}

func TestSessionContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	_, ok = FromContext(WithSession(context.Background(), Session{UserID: "u"}))
	assert.False(t, ok, "unauthenticated session reads as anonymous")

	s := Session{ID: "s1", UserID: "u1", Authenticated: true, Role: user.RoleUser}
	got, ok := FromContext(WithSession(context.Background(), s))
	assert.True(t, ok)
	assert.Equal(t, s, got)
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, Session{}.Expired(now))
	assert.False(t, Session{ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.True(t, Session{ExpiresAt: now}.Expired(now))
}
