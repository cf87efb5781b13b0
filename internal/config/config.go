package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server      ServerConfig
	GRPC        GRPCConfig
	Feed        FeedConfig
	Hospitals   HospitalsConfig
	Geolocation GeolocationConfig
	Session     SessionConfig
	DB          DatabaseConfig
	Logging     LoggingConfig
}

type GRPCConfig struct {
	Port int
}

type ServerConfig struct {
	Host        string
	Port        int
	RateLimit   int      // requests per second, per client
	CORSOrigins []string // "*" reflects any origin
}

const (
	FeedKindFirebase = "firebase"
	FeedKindGTFSRT   = "gtfsrt"
	FeedKindStatic   = "static"
)

type FeedConfig struct {
	Kind              string
	FirebaseURL       string // e.g. https://<project>-default-rtdb.firebaseio.com
	FirebaseAuth      string
	Path              string
	GTFSRTURL         string
	PollInterval      time.Duration
	ReconnectInterval time.Duration
	Timeout           time.Duration
	IdleTimeout       time.Duration // 0 disables the silent-stream check
}

const (
	HospitalSourceStatic = "static"
	HospitalSourceYAML   = "yaml"
	HospitalSourceSQLite = "sqlite"
)

type HospitalsConfig struct {
	Source string
	File   string
}

const (
	LocatorNone   = "none"
	LocatorStatic = "static"
	LocatorIP     = "ip"
)

type GeolocationConfig struct {
	Provider    string
	Lat         float64
	Lng         float64
	IPLookupURL string
	Timeout     time.Duration
}

// DefaultSessionSecret is only fit for local development.
const DefaultSessionSecret = "ambulance-dashboard-dev-session-key"

type SessionConfig struct {
	Secret string
}

func (s SessionConfig) IsDefaultSecret() bool {
	return s.Secret == DefaultSessionSecret
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "localhost"),
			Port:        getEnvInt("SERVER_PORT", 8080),
			RateLimit:   getEnvInt("RATE_LIMIT_RPS", 20),
			CORSOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		GRPC: GRPCConfig{
			Port: getEnvInt("GRPC_PORT", 50051),
		},
		Feed: FeedConfig{
			Kind:              getEnv("FEED_KIND", FeedKindFirebase),
			FirebaseURL:       getEnv("FIREBASE_DATABASE_URL", ""),
			FirebaseAuth:      getEnv("FIREBASE_AUTH", ""),
			Path:              getEnv("FEED_PATH", "ambulances"),
			GTFSRTURL:         getEnv("GTFSRT_URL", ""),
			PollInterval:      getEnvDuration("FEED_POLL_INTERVAL", 10*time.Second),
			ReconnectInterval: getEnvDuration("FEED_RECONNECT_INTERVAL", 5*time.Second),
			Timeout:           getEnvDuration("FEED_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvDuration("FEED_IDLE_TIMEOUT", 60*time.Second),
		},
		Hospitals: HospitalsConfig{
			Source: getEnv("HOSPITAL_SOURCE", HospitalSourceStatic),
			File:   getEnv("HOSPITAL_FILE", "./hospitals.yml"),
		},
		Geolocation: GeolocationConfig{
			Provider:    getEnv("GEOLOCATION_PROVIDER", LocatorNone),
			Lat:         getEnvFloat("VIEWER_LAT", 0),
			Lng:         getEnvFloat("VIEWER_LNG", 0),
			IPLookupURL: getEnv("IP_LOOKUP_URL", "http://ip-api.com/json/"),
			Timeout:     getEnvDuration("GEOLOCATION_TIMEOUT", 3*time.Second),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", DefaultSessionSecret),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/ambulance-dashboard.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.GRPC.Port < 1 || c.GRPC.Port > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPC.Port)
	}
	if c.Server.RateLimit < 1 {
		return fmt.Errorf("rate limit must be at least 1 req/s")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Feed.Kind {
	case FeedKindFirebase:
		if c.Feed.FirebaseURL == "" {
			return fmt.Errorf("FIREBASE_DATABASE_URL is required for the firebase feed")
		}
	case FeedKindGTFSRT:
		if c.Feed.GTFSRTURL == "" {
			return fmt.Errorf("GTFSRT_URL is required for the gtfsrt feed")
		}
		if c.Feed.PollInterval < time.Second {
			return fmt.Errorf("feed poll interval must be at least 1 second")
		}
	case FeedKindStatic:
	default:
		return fmt.Errorf("invalid feed kind: %s", c.Feed.Kind)
	}
	if c.Feed.ReconnectInterval < 100*time.Millisecond {
		return fmt.Errorf("feed reconnect interval must be at least 100ms")
	}
	if c.Feed.IdleTimeout != 0 && c.Feed.IdleTimeout < time.Second {
		return fmt.Errorf("feed idle timeout must be 0 or at least 1 second")
	}
	if len(c.Server.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS must name at least one origin")
	}

	switch c.Hospitals.Source {
	case HospitalSourceStatic, HospitalSourceSQLite:
	case HospitalSourceYAML:
		if c.Hospitals.File == "" {
			return fmt.Errorf("HOSPITAL_FILE is required for the yaml hospital source")
		}
	default:
		return fmt.Errorf("invalid hospital source: %s", c.Hospitals.Source)
	}

	switch c.Geolocation.Provider {
	case LocatorNone, LocatorIP:
	case LocatorStatic:
		if c.Geolocation.Lat < -90 || c.Geolocation.Lat > 90 || c.Geolocation.Lng < -180 || c.Geolocation.Lng > 180 {
			return fmt.Errorf("invalid viewer coordinate: %v,%v", c.Geolocation.Lat, c.Geolocation.Lng)
		}
	default:
		return fmt.Errorf("invalid geolocation provider: %s", c.Geolocation.Provider)
	}

	if len(c.Session.Secret) < 16 {
		return fmt.Errorf("session secret must be at least 16 bytes")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvList splits a comma-separated value, ignoring blanks.
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
