package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"tidegauge-server/internal/modules/tide/chart"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	// SensorAPIURL is the sensor-data endpoint; the day bounds are appended as
	// timestamp_gt/timestamp_lt query parameters.
	SensorAPIURL  string
	SensorAPIKey  string
	SensorTimeout time.Duration

	// Location is the calendar used for day boundaries, page dates and tick labels.
	Location          *time.Location
	PageCount         int
	TickMode          chart.TickMode
	HeartbeatInterval time.Duration

	SQLiteDriver          string
	SQLiteDSN             string
	SQLitePath            string
	SQLiteMaxOpenConns    int
	SQLiteMaxIdleConns    int
	SQLiteConnMaxLifetime time.Duration
	SQLLog                bool

	// MQTTBroker empty disables fetch-event publishing.
	MQTTBroker   string
	MQTTPort     int
	MQTTClientID string
	MQTTTopic    string
}

func LoadFromEnv() (Config, error) {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	httpAddr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	sensorURL := strings.TrimSpace(os.Getenv("SENSOR_API_URL"))
	if sensorURL == "" {
		sensorURL = "https://api.warmbeachtides.org/sensor-data"
	}
	if strings.Contains(sensorURL, "?") {
		return Config{}, fmt.Errorf("invalid SENSOR_API_URL %q: must not carry a query string", sensorURL)
	}

	sensorKey := strings.TrimSpace(os.Getenv("SENSOR_API_KEY"))
	if sensorKey == "" && appEnv == "prod" {
		return Config{}, fmt.Errorf("SENSOR_API_KEY is required when APP_ENV=prod")
	}

	sensorTimeout, err := durationFromEnv("SENSOR_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	if sensorTimeout <= 0 {
		return Config{}, fmt.Errorf("SENSOR_TIMEOUT must be > 0")
	}

	tz := strings.TrimSpace(os.Getenv("TIMEZONE"))
	if tz == "" {
		tz = "Local"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Config{}, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	pageCount, err := intFromEnv("PAGE_COUNT", "100")
	if err != nil {
		return Config{}, err
	}
	if pageCount < 1 {
		return Config{}, fmt.Errorf("PAGE_COUNT must be >= 1")
	}

	tickMode, err := chart.ParseTickMode(os.Getenv("TICK_MODE"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid TICK_MODE: %w", err)
	}

	heartbeat, err := durationFromEnv("HEARTBEAT_INTERVAL", "5s")
	if err != nil {
		return Config{}, err
	}
	if heartbeat <= 0 {
		return Config{}, fmt.Errorf("HEARTBEAT_INTERVAL must be > 0")
	}

	driver := strings.TrimSpace(os.Getenv("DB_DRIVER"))
	if driver == "" {
		driver = "sqlite3"
	}
	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	path := strings.TrimSpace(os.Getenv("SQLITE_PATH"))
	if path == "" {
		path = "data/tidegauge.db"
	}

	maxOpenConns, err := intFromEnv("DB_MAX_OPEN_CONNS", "1")
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := intFromEnv("DB_MAX_IDLE_CONNS", "1")
	if err != nil {
		return Config{}, err
	}
	connMaxLifetime, err := durationFromEnv("DB_CONN_MAX_LIFETIME", "0s")
	if err != nil {
		return Config{}, err
	}

	sqlLogStr := strings.TrimSpace(os.Getenv("DB_SQL_LOG"))
	if sqlLogStr == "" {
		sqlLogStr = "false"
	}
	sqlLog, err := strconv.ParseBool(sqlLogStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_SQL_LOG %q: %w", sqlLogStr, err)
	}

	mqttBroker := strings.TrimSpace(os.Getenv("MQTT_BROKER"))
	mqttPort, err := intFromEnv("MQTT_PORT", "1883")
	if err != nil {
		return Config{}, err
	}
	if mqttPort <= 0 || mqttPort > 65535 {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %d (allowed: 1-65535)", mqttPort)
	}
	mqttClientID := strings.TrimSpace(os.Getenv("MQTT_CLIENT_ID"))
	if mqttClientID == "" {
		mqttClientID = "tidegauge-server"
	}
	mqttTopic := strings.TrimSpace(os.Getenv("MQTT_TOPIC"))
	if mqttTopic == "" {
		mqttTopic = "tidegauge/fetches"
	}

	return Config{
		AppEnv:                appEnv,
		LogLevel:              level,
		HTTPAddr:              httpAddr,
		SensorAPIURL:          sensorURL,
		SensorAPIKey:          sensorKey,
		SensorTimeout:         sensorTimeout,
		Location:              loc,
		PageCount:             pageCount,
		TickMode:              tickMode,
		HeartbeatInterval:     heartbeat,
		SQLiteDriver:          driver,
		SQLiteDSN:             dsn,
		SQLitePath:            path,
		SQLiteMaxOpenConns:    maxOpenConns,
		SQLiteMaxIdleConns:    maxIdleConns,
		SQLiteConnMaxLifetime: connMaxLifetime,
		SQLLog:                sqlLog,
		MQTTBroker:            mqttBroker,
		MQTTPort:              mqttPort,
		MQTTClientID:          mqttClientID,
		MQTTTopic:             mqttTopic,
	}, nil
}

func intFromEnv(key, def string) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		s = def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func durationFromEnv(key, def string) (time.Duration, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		s = def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
