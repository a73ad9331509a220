package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	MainDB   DatabaseConfig
	CohortDB DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig

	Attendance AttendanceConfig
	Reschedule RescheduleConfig
	Sessions   SessionsConfig
	Auth       AuthConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret          string
	Expiration      time.Duration
	MagicLinkExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AttendanceConfig tunes the attendance aggregation run. CutoffOffset is the
// fixed UTC offset whose calendar day decides whether a session already
// happened; the dashboard has always operated on IST (+05:30).
type AttendanceConfig struct {
	CutoffOffset     string
	CacheTTL         time.Duration
	RecomputeWorkers int
	RecomputeRetries int
}

// RescheduleConfig bounds the reschedule window when the session has no
// neighbor on the relevant side of its timeline.
type RescheduleConfig struct {
	FallbackWindowDays int
}

// SessionsConfig governs the upcoming-sessions feed. MaxDaysAhead caps the
// caller-supplied horizon; the feed route is open, so the cap also bounds
// the per-request date list and query size.
type SessionsConfig struct {
	DefaultDaysAhead int
	MaxDaysAhead     int
	CacheTTL         time.Duration
}

// AuthConfig carries the shared dashboard gate checked before a magic link
// is issued. The hash is bcrypt; an empty value disables the check.
type AuthConfig struct {
	DashboardPasswordHash string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.MainDB = DatabaseConfig{
		Host:         v.GetString("MAIN_DB_HOST"),
		Port:         v.GetInt("MAIN_DB_PORT"),
		User:         v.GetString("MAIN_DB_USER"),
		Password:     v.GetString("MAIN_DB_PASSWORD"),
		Name:         v.GetString("MAIN_DB_NAME"),
		SSLMode:      v.GetString("MAIN_DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("MAIN_DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("MAIN_DB_MAX_IDLE_CONNS"),
	}

	cfg.CohortDB = DatabaseConfig{
		Host:         v.GetString("COHORT_DB_HOST"),
		Port:         v.GetInt("COHORT_DB_PORT"),
		User:         v.GetString("COHORT_DB_USER"),
		Password:     v.GetString("COHORT_DB_PASSWORD"),
		Name:         v.GetString("COHORT_DB_NAME"),
		SSLMode:      v.GetString("COHORT_DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("COHORT_DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("COHORT_DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:          v.GetString("JWT_SECRET"),
		Expiration:      parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		MagicLinkExpiry: parseDuration(v.GetString("MAGIC_LINK_EXPIRATION"), 15*time.Minute),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Attendance = AttendanceConfig{
		CutoffOffset:     v.GetString("ATTENDANCE_CUTOFF_OFFSET"),
		CacheTTL:         parseDuration(v.GetString("ATTENDANCE_CACHE_TTL"), 5*time.Minute),
		RecomputeWorkers: v.GetInt("ATTENDANCE_RECOMPUTE_WORKERS"),
		RecomputeRetries: v.GetInt("ATTENDANCE_RECOMPUTE_RETRIES"),
	}

	cfg.Reschedule = RescheduleConfig{
		FallbackWindowDays: v.GetInt("RESCHEDULE_FALLBACK_WINDOW_DAYS"),
	}

	cfg.Sessions = SessionsConfig{
		DefaultDaysAhead: v.GetInt("SESSIONS_DEFAULT_DAYS_AHEAD"),
		MaxDaysAhead:     v.GetInt("SESSIONS_MAX_DAYS_AHEAD"),
		CacheTTL:         parseDuration(v.GetString("SESSIONS_CACHE_TTL"), time.Minute),
	}

	cfg.Auth = AuthConfig{
		DashboardPasswordHash: v.GetString("DASHBOARD_PASSWORD_HASH"),
	}

	return cfg, nil
}

// CutoffLocation resolves the configured cutoff offset into a fixed
// time.Location, falling back to +05:30 when the value cannot be parsed.
func (c AttendanceConfig) CutoffLocation() *time.Location {
	if loc, ok := parseOffset(c.CutoffOffset); ok {
		return loc
	}
	return time.FixedZone("UTC+05:30", 5*3600+30*60)
}

func parseOffset(value string) (*time.Location, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, false
	}
	sign := 1
	name := "UTC" + value
	switch value[0] {
	case '+':
		value = value[1:]
	case '-':
		sign = -1
		value = value[1:]
	default:
		name = "UTC+" + value
	}
	parts := strings.SplitN(value, ":", 2)
	hours, err := time.ParseDuration(parts[0] + "h")
	if err != nil {
		return nil, false
	}
	var minutes time.Duration
	if len(parts) == 2 {
		minutes, err = time.ParseDuration(parts[1] + "m")
		if err != nil {
			return nil, false
		}
	}
	return time.FixedZone(name, sign*int((hours+minutes).Seconds())), true
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("MAIN_DB_HOST", "localhost")
	v.SetDefault("MAIN_DB_PORT", 5432)
	v.SetDefault("MAIN_DB_USER", "postgres")
	v.SetDefault("MAIN_DB_PASSWORD", "postgres")
	v.SetDefault("MAIN_DB_NAME", "mentor_dash")
	v.SetDefault("MAIN_DB_SSL_MODE", "disable")
	v.SetDefault("MAIN_DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("MAIN_DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("COHORT_DB_HOST", "localhost")
	v.SetDefault("COHORT_DB_PORT", 5432)
	v.SetDefault("COHORT_DB_USER", "postgres")
	v.SetDefault("COHORT_DB_PASSWORD", "postgres")
	v.SetDefault("COHORT_DB_NAME", "cohort_schedules")
	v.SetDefault("COHORT_DB_SSL_MODE", "disable")
	v.SetDefault("COHORT_DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("COHORT_DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("MAGIC_LINK_EXPIRATION", "15m")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ATTENDANCE_CUTOFF_OFFSET", "+05:30")
	v.SetDefault("ATTENDANCE_CACHE_TTL", "5m")
	v.SetDefault("ATTENDANCE_RECOMPUTE_WORKERS", 2)
	v.SetDefault("ATTENDANCE_RECOMPUTE_RETRIES", 3)

	v.SetDefault("RESCHEDULE_FALLBACK_WINDOW_DAYS", 30)

	v.SetDefault("SESSIONS_DEFAULT_DAYS_AHEAD", 5)
	v.SetDefault("SESSIONS_MAX_DAYS_AHEAD", 30)
	v.SetDefault("SESSIONS_CACHE_TTL", "1m")

	v.SetDefault("DASHBOARD_PASSWORD_HASH", "")
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
