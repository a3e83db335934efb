package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.AppPort != "8080" || c.MySQLPort != "3306" || c.RedisAddr != "redis:6379" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.SessionTTL() != 12*time.Hour || c.IdempotencyTTL() != 5*time.Minute || c.LoginRateWindow() != 5*time.Minute {
		t.Fatalf("unexpected durations: %v %v %v", c.SessionTTL(), c.IdempotencyTTL(), c.LoginRateWindow())
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("LOGIN_RATE_LIMIT", "4")
	t.Setenv("APP_ENV", "Production")
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.AppPort != "9090" || c.RedisDB != 3 || c.LoginRateLimit != 4 || !c.IsProduction() {
		t.Fatalf("overrides not applied: %+v", c)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("MYSQL_DB=fromfile\nADMIN_EMAIL=root@portal.test\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MYSQL_DB", "fromenv")
	t.Cleanup(func() { os.Unsetenv("ADMIN_EMAIL") })

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.MySQLDB != "fromenv" {
		t.Fatalf("real env must win over .env, got %q", c.MySQLDB)
	}
	if c.AdminEmail != "root@portal.test" {
		t.Fatalf("env file value missing, got %q", c.AdminEmail)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error for missing env file")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			AppPort: "8080", MySQLHost: "db", MySQLPort: "3306", MySQLDB: "x", MySQLUser: "u",
			RedisAddr: "r:6379", JWTSecret: secret, SessionTTLMinutes: 60,
		}
	}
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing host", func(c *Config) { c.MySQLHost = "" }, "missing MySQL config"},
		{"bad port", func(c *Config) { c.MySQLPort = "notaport" }, "invalid MYSQL_PORT"},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, "JWT_SECRET"},
		{"ttl", func(c *Config) { c.SessionTTLMinutes = 0 }, "SESSION_TTL_MINUTES"},
		{"admin half set", func(c *Config) { c.AdminEmail = "a@b.c" }, "ADMIN_EMAIL"},
		{"bad proxy", func(c *Config) { c.TrustedProxies = "10.0.0.0/8, nope" }, "TRUSTED_PROXIES"},
	}
	for _, tc := range cases {
		c := base()
		tc.mutate(c)
		err := c.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: want error containing %q, got %v", tc.name, tc.want, err)
		}
	}
	if err := base().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestMySQLDSN(t *testing.T) {
	c := &Config{MySQLUser: "u", MySQLPass: "p", MySQLHost: "db", MySQLPort: "3306", MySQLDB: "inc"}
	want := "u:p@tcp(db:3306)/inc?multiStatements=true&parseTime=true&charset=utf8mb4,utf8"
	if got := c.MySQLDSN(); got != want {
		t.Fatalf("dsn = %q", got)
	}
}

func TestTrustedProxyNets(t *testing.T) {
	c := &Config{TrustedProxies: " 10.0.0.0/8 ,192.0.2.10, ,2001:db8::1"}
	nets, err := c.TrustedProxyNets()
	if err != nil {
		t.Fatalf("TrustedProxyNets: %v", err)
	}
	want := []string{"10.0.0.0/8", "192.0.2.10/32", "2001:db8::1/128"}
	if len(nets) != len(want) {
		t.Fatalf("want %d nets, got %v", len(want), nets)
	}
	for i, n := range nets {
		if n.String() != want[i] {
			t.Fatalf("net %d = %s, want %s", i, n, want[i])
		}
	}

	empty, err := (&Config{}).TrustedProxyNets()
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty list => want no nets, got %v %v", empty, err)
	}
}
