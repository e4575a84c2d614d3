package shared

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	HTTPTimeout time.Duration
	MetricsAddr string
	LogLevel    string

	BackendBase    string
	BackendTimeout time.Duration
	BackendRPS     int

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	// MySQLDSN empty disables the audit log.
	MySQLDSN string

	AdminEmail   string
	AlertTimeout time.Duration
}

// Warning is a setting Load could not honour. Load runs before the global
// logger is configured, so the caller logs these once it is.
type Warning struct {
	Key string
	Msg string
}

func Load() (Config, []Warning) {
	var warns []Warning
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			warns = append(warns, Warning{Key: k, Msg: fmt.Sprintf("ignoring non-numeric value %q, using %d", v, def)})
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		HTTPTimeout:    time.Duration(atoi("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		LogLevel:       env("LOG_LEVEL", "info"),
		BackendBase:    env("BACKEND_BASE_URL", "http://localhost:8000"),
		BackendTimeout: time.Duration(atoi("BACKEND_TIMEOUT_SECONDS", 10)) * time.Second,
		BackendRPS:     atoi("BACKEND_RPS", 10),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisDB:        atoi("REDIS_DB", 0),
		RedisPass:      env("REDIS_PASSWORD", ""),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 60)) * time.Second,
		MySQLDSN:       env("MYSQL_DSN", ""),
		AdminEmail:     env("ADMIN_EMAIL", "notifications@sshhotels.in"),
		AlertTimeout:   time.Duration(atoi("ALERT_TIMEOUT_SECONDS", 300)) * time.Second,
	}
	if c.MySQLDSN == "" {
		warns = append(warns, Warning{Key: "MYSQL_DSN", Msg: "empty; moderation audit log disabled"})
	}
	return c, warns
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
