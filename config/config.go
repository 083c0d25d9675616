package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/yeremiapane/cafe-fausse/services"
	"github.com/yeremiapane/cafe-fausse/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config holds runtime settings read from the environment.
type Config struct {
	Port        string
	GinMode     string
	LogLevel    string
	DBDriver    string
	DatabaseURL string
	CORSOrigins []string

	RedisAddr         string
	RateLimitRequests int
	RateLimitWindow   time.Duration

	Booking services.BookingConfig
}

// Load reads the environment, falling back to defaults for anything unset.
func Load() (Config, error) {
	booking := services.DefaultBookingConfig()
	booking.TableCount = envInt("TABLE_COUNT", booking.TableCount)
	booking.SeatsPerTable = envInt("SEATS_PER_TABLE", booking.SeatsPerTable)
	booking.MaxAttempts = envInt("BOOKING_MAX_ATTEMPTS", booking.MaxAttempts)

	cfg := Config{
		Port:              envStr("PORT", "5000"),
		GinMode:           os.Getenv("GIN_MODE"),
		LogLevel:          envStr("LOG_LEVEL", "info"),
		DBDriver:          strings.ToLower(envStr("DB_DRIVER", DriverSQLite)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		CORSOrigins:       splitCSV(envStr("CORS_ORIGINS", "http://localhost:3000")),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 20),
		RateLimitWindow:   envDur("RATE_LIMIT_WINDOW", time.Minute),
		Booking:           booking,
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = "cafe_fausse.db"
		}
	case DriverMySQL:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required for DB_DRIVER=%s", cfg.DBDriver)
		}
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.RateLimitRequests < 1 {
		cfg.RateLimitRequests = 1
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Minute
	}

	if err := cfg.Booking.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// InitDB opens the configured store. SQLite gets a single connection: writers
// serialize there anyway and an in-memory database only lives as long as its
// connection.
func InitDB(cfg Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger: logger.New(utils.Info(), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case DriverMySQL:
		dsn, err := mysqlDSN(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		dialector = mysql.Open(dsn)
	default:
		dialector = sqlite.Open(sqliteDSN(cfg.DatabaseURL))
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DBDriver == DriverMySQL {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping %s database: %w", cfg.DBDriver, err)
	}
	return db, nil
}

// mysqlDSN forces parseTime and a UTC location so DATETIME columns come back
// as the same wall-clock values that were written.
func mysqlDSN(raw string) (string, error) {
	dsnCfg, err := mysqldriver.ParseDSN(raw)
	if err != nil {
		return "", fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	dsnCfg.ParseTime = true
	dsnCfg.Loc = time.UTC
	if dsnCfg.Params == nil {
		dsnCfg.Params = map[string]string{}
	}
	if _, ok := dsnCfg.Params["charset"]; !ok {
		dsnCfg.Params["charset"] = "utf8mb4"
	}
	return dsnCfg.FormatDSN(), nil
}

func sqliteDSN(path string) string {
	path = strings.TrimPrefix(path, "sqlite:///")
	if path == ":memory:" || strings.Contains(path, "?") {
		return path
	}
	return path + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.Info
	case "error":
		return logger.Error
	default:
		return logger.Warn
	}
}

func envStr(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
