package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hafizln/matchprobe/internal/platform/logging"
	"github.com/hafizln/matchprobe/internal/platform/resilience"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service. It is loaded once at
// startup and passed by value; the gate and matcher receive their allow-list
// and season window from here rather than package-level globals.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	CORSAllowedOrigins []string
	LogLevel           logging.Level

	FeedBaseURL            string
	FeedPageBaseURL        string
	FeedListingURL         string
	FeedUserAgent          string
	FeedTimeout            time.Duration
	FeedMaxRetries         int
	FeedBackoffBase        time.Duration
	FeedBackoffStep        time.Duration
	FeedCircuitEnabled     bool
	FeedCircuitFailures    int
	FeedCircuitOpenTimeout time.Duration
	FeedCircuitHalfOpenReq int

	RendererEnabled bool
	RendererBaseURL string
	RendererTimeout time.Duration

	AllowedLeagueIDs []int64
	SeasonStart      time.Time
	SeasonEnd        time.Time

	BatchWorkers    int
	BatchFailureCap int
	BatchTimeout    time.Duration
	ProbeDelay      time.Duration

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration

	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool

	PprofEnabled bool
	PprofAddr    string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := getEnvAsDuration("HTTP_WRITE_TIMEOUT", 120*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}

	feedTimeout, err := getEnvAsDuration("FEED_TIMEOUT", 20*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_TIMEOUT: %w", err)
	}
	feedMaxRetries, err := getEnvAsInt("FEED_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_MAX_RETRIES: %w", err)
	}
	feedBackoffBase, err := getEnvAsDuration("FEED_BACKOFF_BASE", 500*time.Millisecond)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_BACKOFF_BASE: %w", err)
	}
	feedBackoffStep, err := getEnvAsDuration("FEED_BACKOFF_STEP", time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_BACKOFF_STEP: %w", err)
	}
	feedCircuitEnabled, err := strconv.ParseBool(getEnv("FEED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_ENABLED: %w", err)
	}
	feedCircuitFailures, err := getEnvAsInt("FEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	feedCircuitOpenTimeout, err := getEnvAsDuration("FEED_CIRCUIT_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	feedCircuitHalfOpenReq, err := getEnvAsInt("FEED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	rendererEnabled, err := strconv.ParseBool(getEnv("RENDERER_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RENDERER_ENABLED: %w", err)
	}
	rendererTimeout, err := getEnvAsDuration("RENDERER_TIMEOUT", 45*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse RENDERER_TIMEOUT: %w", err)
	}
	rendererBaseURL := strings.TrimSpace(getEnv("RENDERER_BASE_URL", ""))
	if rendererEnabled && rendererBaseURL == "" {
		return Config{}, fmt.Errorf("RENDERER_BASE_URL is required when RENDERER_ENABLED=true")
	}

	allowedLeagues, err := parseLeagueIDs(getEnv("ALLOWED_LEAGUE_IDS", "42,47,53,54,55,87"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ALLOWED_LEAGUE_IDS: %w", err)
	}
	seasonStart, err := parseDateUTC(getEnv("SEASON_START", "2025-07-01"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SEASON_START: %w", err)
	}
	seasonEnd, err := parseDateUTC(getEnv("SEASON_END", "2026-06-30"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SEASON_END: %w", err)
	}
	if !seasonEnd.After(seasonStart) {
		return Config{}, fmt.Errorf("SEASON_END %s must be after SEASON_START %s",
			seasonEnd.Format("2006-01-02"), seasonStart.Format("2006-01-02"))
	}

	batchWorkers, err := getEnvAsInt("BATCH_WORKERS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse BATCH_WORKERS: %w", err)
	}
	if batchWorkers < 1 {
		return Config{}, fmt.Errorf("BATCH_WORKERS must be at least 1")
	}
	batchFailureCap, err := getEnvAsInt("BATCH_FAILURE_CAP", 6)
	if err != nil {
		return Config{}, fmt.Errorf("parse BATCH_FAILURE_CAP: %w", err)
	}
	batchTimeout, err := getEnvAsDuration("BATCH_TIMEOUT", 5*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("parse BATCH_TIMEOUT: %w", err)
	}
	probeDelay, err := getEnvAsDuration("PROBE_DELAY", 400*time.Millisecond)
	if err != nil {
		return Config{}, fmt.Errorf("parse PROBE_DELAY: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	serviceName := getEnv("SERVICE_NAME", "matchprobe")

	return Config{
		AppEnv:         appEnv,
		ServiceName:    serviceName,
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           parseLogLevel(getEnv("LOG_LEVEL", "info")),

		FeedBaseURL:            strings.TrimRight(getEnv("FEED_BASE_URL", "https://data.scorefeed.example/api/matchDetails"), "/"),
		FeedPageBaseURL:        strings.TrimRight(getEnv("FEED_PAGE_BASE_URL", "https://www.scorefeed.example"), "/"),
		FeedListingURL:         strings.TrimRight(getEnv("FEED_LISTING_URL", "https://data.scorefeed.example/api/matches"), "/"),
		FeedUserAgent:          getEnv("FEED_USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64) matchprobe/1.0"),
		FeedTimeout:            feedTimeout,
		FeedMaxRetries:         feedMaxRetries,
		FeedBackoffBase:        feedBackoffBase,
		FeedBackoffStep:        feedBackoffStep,
		FeedCircuitEnabled:     feedCircuitEnabled,
		FeedCircuitFailures:    feedCircuitFailures,
		FeedCircuitOpenTimeout: feedCircuitOpenTimeout,
		FeedCircuitHalfOpenReq: feedCircuitHalfOpenReq,

		RendererEnabled: rendererEnabled,
		RendererBaseURL: rendererBaseURL,
		RendererTimeout: rendererTimeout,

		AllowedLeagueIDs: allowedLeagues,
		SeasonStart:      seasonStart,
		SeasonEnd:        seasonEnd,

		BatchWorkers:    batchWorkers,
		BatchFailureCap: batchFailureCap,
		BatchTimeout:    batchTimeout,
		ProbeDelay:      probeDelay,

		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: getEnv("PYROSCOPE_SERVER_ADDRESS", ""),
		PyroscopeAppName:       getEnv("PYROSCOPE_APP_NAME", serviceName),
		PyroscopeAuthToken:     getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeUploadRate:    pyroscopeUploadRate,

		UptraceEnabled:     uptraceEnabled,
		UptraceDSN:         uptraceDSN,
		UptraceLogsEnabled: uptraceLogsEnabled,

		PprofEnabled: pprofEnabled,
		PprofAddr:    getEnv("PPROF_ADDR", ":6060"),
	}, nil
}

// FeedCircuitBreaker translates the feed settings into a breaker config.
func (c Config) FeedCircuitBreaker() resilience.CircuitBreakerConfig {
	return resilience.NormalizeCircuitBreakerConfig(resilience.CircuitBreakerConfig{
		Enabled:          c.FeedCircuitEnabled,
		FailureThreshold: c.FeedCircuitFailures,
		OpenTimeout:      c.FeedCircuitOpenTimeout,
		HalfOpenMaxReq:   c.FeedCircuitHalfOpenReq,
	})
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseLeagueIDs(v string) ([]int64, error) {
	parts := splitCSV(v)
	out := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid league id %q", part)
		}
		if id <= 0 {
			return nil, fmt.Errorf("league id must be positive, got %d", id)
		}
		out = append(out, id)
	}
	return out, nil
}

// parseDateUTC reads YYYY-MM-DD as a UTC day boundary.
func parseDateUTC(v string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(v))
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
