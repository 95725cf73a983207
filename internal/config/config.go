package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBPath            string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Hardware HardwareConfig
}

// HardwareConfig describes the GPIO wiring of the line controller.
// Pin numbers are line offsets on Chip.
type HardwareConfig struct {
	Enabled bool
	Chip    string

	LampRun   int
	LampPause int
	LampStop  int

	ButtonStart int
	ButtonPause int
	ButtonStop  int

	HoldDuration time.Duration
	BounceTime   time.Duration

	CountInput int

	TowerGreen  int
	TowerYellow int
	TowerRed    int

	Siren          int
	SirenActiveLow bool
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	hardwareEnabled := environment == EnvironmentProduction
	if !hardwareEnabled {
		hardwareEnabled = getenvBool("HARDWARE_ENABLED", false)
	}

	cfg := Config{
		AppName:           getenv("APP_SERVICE", "corte"),
		AppVersion:        getenv("APP_VERSION", "0.1.0"),
		Environment:       environment,
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		OTLPEndpoint:      getenv("OTLP_ENDPOINT", "localhost:4317"),
		DBType:            strings.ToLower(getenv("DATABASE_TYPE", "sqlite")),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "corte"),
		DBUser:            getenv("DATABASE_USER", "corte"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBPath:            getenv("DATABASE_PATH", "corte.db"),
		DBMaxIdleConn:     int(getenvInt64("DATABASE_MAX_IDLE_CONN", 2)),
		DBMaxOpenConn:     int(getenvInt64("DATABASE_MAX_OPEN_CONN", 10)),
		DBConnMaxLifetime: int(getenvInt64("DATABASE_CONN_MAX_LIFETIME", 300)),
		DBConnMaxIdleTime: int(getenvInt64("DATABASE_CONN_MAX_IDLE_TIME", 60)),
		RedisAddr:         strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword:     getenv("REDIS_PASSWORD", ""),
		RedisDB:           int(getenvInt64("REDIS_DB", 0)),
		Hardware: HardwareConfig{
			Enabled:        hardwareEnabled,
			Chip:           getenv("GPIO_CHIP", "gpiochip0"),
			LampRun:        int(getenvInt64("GPIO_LAMP_RUN", 19)),
			LampPause:      int(getenvInt64("GPIO_LAMP_PAUSE", 20)),
			LampStop:       int(getenvInt64("GPIO_LAMP_STOP", 21)),
			ButtonStart:    int(getenvInt64("GPIO_BUTTON_START", 5)),
			ButtonPause:    int(getenvInt64("GPIO_BUTTON_PAUSE", 6)),
			ButtonStop:     int(getenvInt64("GPIO_BUTTON_STOP", 13)),
			HoldDuration:   getenvDuration("GPIO_HOLD_DURATION", 5*time.Second),
			BounceTime:     getenvDuration("GPIO_BOUNCE_TIME", 50*time.Millisecond),
			CountInput:     int(getenvInt64("GPIO_COUNT_INPUT", 27)),
			TowerGreen:     int(getenvInt64("GPIO_TOWER_GREEN", 17)),
			TowerYellow:    int(getenvInt64("GPIO_TOWER_YELLOW", 23)),
			TowerRed:       int(getenvInt64("GPIO_TOWER_RED", 26)),
			Siren:          int(getenvInt64("GPIO_SIREN", 24)),
			SirenActiveLow: getenvBool("SIREN_ACTIVE_LOW", true),
		},
	}

	return cfg
}

const (
	EnvironmentProduction  = "production"
	EnvironmentDevelopment = "development"

	DBTypeSQLite   = "sqlite"
	DBTypePostgres = "postgres"
	DBTypeMySQL    = "mysql"
)

func (c Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

// RedisEnabled reports whether a shared redis instance is configured.
func (c Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

// getenvDuration accepts Go duration strings ("5s") or plain seconds ("0.05").
func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil || seconds < 0 {
		return def
	}
	return time.Duration(seconds * float64(time.Second))
}
