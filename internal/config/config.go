package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const minSecretLen = 32

type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string
	// LogFormat is "json" or "console".
	LogFormat string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisPass string
	RedisDB   int

	IdempTTLSecs int

	JWTSecret         string
	SessionTTLMinutes int

	LoginRateLimit         int
	LoginRateWindowSeconds int
	// TrustedProxies is a comma separated list of CIDRs whose
	// X-Forwarded-For is believed. Empty means the peer address is the client.
	TrustedProxies string

	AdminEmail    string
	AdminPassword string
}

var defaults = map[string]any{
	"APP_PORT":                  "8080",
	"APP_ENV":                   "development",
	"LOG_LEVEL":                 "info",
	"LOG_FORMAT":                "json",
	"MYSQL_HOST":                "mysql",
	"MYSQL_PORT":                "3306",
	"MYSQL_DB":                  "incorporation",
	"MYSQL_USER":                "portal",
	"MYSQL_PASS":                "portal",
	"REDIS_ADDR":                "redis:6379",
	"REDIS_PASSWORD":            "",
	"REDIS_DB":                  0,
	"IDEMPOTENCY_TTL_SECONDS":   300,
	"JWT_SECRET":                "",
	"SESSION_TTL_MINUTES":       720,
	"LOGIN_RATE_LIMIT":          10,
	"LOGIN_RATE_WINDOW_SECONDS": 300,
	"TRUSTED_PROXIES":           "",
	"ADMIN_EMAIL":               "",
	"ADMIN_PASSWORD":            "",
}

// Load reads the environment, after merging a .env file from the working
// directory (or envFiles when given) that never overrides real variables.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			envFiles = []string{".env"}
		}
	}
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	c := &Config{
		AppPort:   v.GetString("APP_PORT"),
		AppEnv:    v.GetString("APP_ENV"),
		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		MySQLHost: v.GetString("MYSQL_HOST"),
		MySQLPort: v.GetString("MYSQL_PORT"),
		MySQLDB:   v.GetString("MYSQL_DB"),
		MySQLUser: v.GetString("MYSQL_USER"),
		MySQLPass: v.GetString("MYSQL_PASS"),

		RedisAddr: v.GetString("REDIS_ADDR"),
		RedisPass: v.GetString("REDIS_PASSWORD"),
		RedisDB:   v.GetInt("REDIS_DB"),

		IdempTTLSecs: v.GetInt("IDEMPOTENCY_TTL_SECONDS"),

		JWTSecret:         v.GetString("JWT_SECRET"),
		SessionTTLMinutes: v.GetInt("SESSION_TTL_MINUTES"),

		LoginRateLimit:         v.GetInt("LOGIN_RATE_LIMIT"),
		LoginRateWindowSeconds: v.GetInt("LOGIN_RATE_WINDOW_SECONDS"),
		TrustedProxies:         v.GetString("TRUSTED_PROXIES"),

		AdminEmail:    v.GetString("ADMIN_EMAIL"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.RedisAddr == "" {
		return errors.New("missing REDIS_ADDR")
	}
	if len(c.JWTSecret) < minSecretLen {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLen)
	}
	if c.SessionTTLMinutes <= 0 {
		return errors.New("SESSION_TTL_MINUTES must be positive")
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	if _, err := c.TrustedProxyNets(); err != nil {
		return err
	}
	return nil
}

// TrustedProxyNets parses TrustedProxies. A bare IP is taken as a single host.
func (c *Config) TrustedProxyNets() ([]*net.IPNet, error) {
	var out []*net.IPNet
	for _, raw := range strings.Split(c.TrustedProxies, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if !strings.Contains(raw, "/") {
			ip := net.ParseIP(raw)
			if ip == nil {
				return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", raw)
			}
			bits := 32
			if ip.To4() == nil {
				bits = 128
			}
			raw = fmt.Sprintf("%s/%d", ip.String(), bits)
		}
		_, n, err := net.ParseCIDR(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", raw, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func (c *Config) IsProduction() bool { return strings.EqualFold(c.AppEnv, "production") }

func (c *Config) SessionTTL() time.Duration { return time.Duration(c.SessionTTLMinutes) * time.Minute }

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) LoginRateWindow() time.Duration {
	return time.Duration(c.LoginRateWindowSeconds) * time.Second
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
