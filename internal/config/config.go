package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	AllowedOrigins []string

	// Clinic scheduling
	Timezone     string        // IANA zone bookings are interpreted in
	OpenTime     string        // first bookable slot, "HH:MM"
	CloseTime    string        // last bookable slot, "HH:MM"
	SlotStep     time.Duration // slot granularity
	WeekStartDay time.Weekday  // first day of the calendar week

	// Document store (DynamoDB)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	PatientsTable       string
	ServicesTable       string
	AppointmentsTable   string

	// Visit attachments (S3)
	AttachmentsBucket string

	// Entity cache
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	CacheTTL      time.Duration

	// Auth
	JWTSecret     string
	AdminUser     string
	AdminPassword string
	TokenTTL      time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "")),

		Timezone:     getEnv("CLINIC_TZ", "Africa/Cairo"),
		OpenTime:     getEnv("CLINIC_OPEN", "09:00"),
		CloseTime:    getEnv("CLINIC_CLOSE", "14:30"),
		SlotStep:     getEnvAsDuration("CLINIC_SLOT_STEP", 30*time.Minute),
		WeekStartDay: getEnvAsWeekday("CLINIC_WEEK_START", time.Saturday),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		PatientsTable:       getEnv("PATIENTS_TABLE", "patients"),
		ServicesTable:       getEnv("SERVICES_TABLE", "services"),
		AppointmentsTable:   getEnv("APPOINTMENTS_TABLE", "appointments"),

		AttachmentsBucket: getEnv("ATTACHMENTS_BUCKET", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		CacheTTL:      getEnvAsDuration("CACHE_TTL", 10*time.Minute),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		AdminUser:     getEnv("ADMIN_USER", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		TokenTTL:      getEnvAsDuration("TOKEN_TTL", 12*time.Hour),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsWeekday(key string, defaultValue time.Weekday) time.Weekday {
	switch strings.ToLower(getEnv(key, "")) {
	case "sunday":
		return time.Sunday
	case "monday":
		return time.Monday
	case "tuesday":
		return time.Tuesday
	case "wednesday":
		return time.Wednesday
	case "thursday":
		return time.Thursday
	case "friday":
		return time.Friday
	case "saturday":
		return time.Saturday
	default:
		return defaultValue
	}
}

// Location resolves the configured timezone, falling back to UTC when
// the zone name is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func splitAndTrim(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
