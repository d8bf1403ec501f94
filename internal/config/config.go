package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	CORS       CORSConfig
	Sources    SourcesConfig
	Downloader DownloaderConfig
	Geocoder   GeocoderConfig
	Import     ImportConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds the store connection configuration. URL takes
// precedence over the individual postgres parts when set.
type DatabaseConfig struct {
	Driver     string
	URL        string
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SQLitePath string
	PoolMin    int
	PoolMax    int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// SourcesConfig holds the URLs of every publication the importer reads.
// An empty URL disables the job that reads it.
type SourcesConfig struct {
	CityCasesURL           string
	PressReleaseURL        string
	PrefectureCasesURL     string
	MedicalInstitutionsURL string
	ReservationPDFURL      string
	FirstReservationURL    string
	BabyReservationURL     string
	OutpatientsURL         string
	SapporoURL             string
	OpendataLocationURLs   []string
}

// DownloaderConfig holds HTTP client settings for source downloads.
type DownloaderConfig struct {
	UserAgent string
	Timeout   time.Duration
}

// GeocoderConfig holds Yahoo! Open Local Platform settings.
type GeocoderConfig struct {
	AppID     string
	BaseURL   string
	Timeout   time.Duration
	Interval  time.Duration
	CacheSize int
}

// ImportConfig holds import job settings.
type ImportConfig struct {
	// Year is attached to "M月D日" dates. Zero means the current year.
	Year              int
	Population        int
	SapporoPopulation int
	// Interval is the pause between scheduled import runs. Zero runs once.
	Interval time.Duration
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "ash_covid19")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("SQLITE_PATH", "ash_covid19.db")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	v.SetDefault("CITY_CASES_URL", "https://www.city.asahikawa.hokkaido.jp/kurashi/135/136/150/d073650.html")
	v.SetDefault("PRESS_RELEASE_URL", "https://www.city.asahikawa.hokkaido.jp/kurashi/135/136/150/d068529.html")
	v.SetDefault("PREFECTURE_CASES_URL", "https://www.harp.lg.jp/opendata/dataset/1369/resource/3132/010006_hokkaido_covid19_patients.csv")
	v.SetDefault("MEDICAL_INSTITUTIONS_URL", "https://www.city.asahikawa.hokkaido.jp/kurashi/135/146/149/d073389.html")
	v.SetDefault("RESERVATION_PDF_URL", "https://www.city.asahikawa.hokkaido.jp/kurashi/135/146/149/d072466_d/fil/iryoukikan.pdf")

	v.SetDefault("DOWNLOAD_TIMEOUT", "30s")
	v.SetDefault("DOWNLOAD_USER_AGENT", "ash-covid19-importer/1.0")

	v.SetDefault("YOLP_BASE_URL", "https://map.yahooapis.jp/search/local/V1/localSearch")
	v.SetDefault("YOLP_TIMEOUT", "10s")
	v.SetDefault("YOLP_INTERVAL", "1s")
	v.SetDefault("YOLP_CACHE_SIZE", 1024)

	v.SetDefault("IMPORT_YEAR", 0)
	v.SetDefault("POPULATION", 329033)
	v.SetDefault("SAPPORO_POPULATION", 1973395)
	v.SetDefault("IMPORT_INTERVAL", "0s")

	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			URL:        v.GetString("DATABASE_URL"),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			Name:       v.GetString("DB_NAME"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			SQLitePath: v.GetString("SQLITE_PATH"),
			PoolMin:    v.GetInt("DB_POOL_MIN"),
			PoolMax:    v.GetInt("DB_POOL_MAX"),
		},
		CORS: CORSConfig{
			Origins: parseList(v.GetString("CORS_ORIGINS")),
		},
		Sources: SourcesConfig{
			CityCasesURL:           v.GetString("CITY_CASES_URL"),
			PressReleaseURL:        v.GetString("PRESS_RELEASE_URL"),
			PrefectureCasesURL:     v.GetString("PREFECTURE_CASES_URL"),
			MedicalInstitutionsURL: v.GetString("MEDICAL_INSTITUTIONS_URL"),
			ReservationPDFURL:      v.GetString("RESERVATION_PDF_URL"),
			FirstReservationURL:    v.GetString("FIRST_RESERVATION_URL"),
			BabyReservationURL:     v.GetString("BABY_RESERVATION_URL"),
			OutpatientsURL:         v.GetString("OUTPATIENTS_URL"),
			SapporoURL:             v.GetString("SAPPORO_URL"),
			OpendataLocationURLs:   parseList(v.GetString("OPENDATA_LOCATION_URLS")),
		},
		Downloader: DownloaderConfig{
			UserAgent: v.GetString("DOWNLOAD_USER_AGENT"),
			Timeout:   v.GetDuration("DOWNLOAD_TIMEOUT"),
		},
		Geocoder: GeocoderConfig{
			AppID:     v.GetString("YOLP_APP_ID"),
			BaseURL:   v.GetString("YOLP_BASE_URL"),
			Timeout:   v.GetDuration("YOLP_TIMEOUT"),
			Interval:  v.GetDuration("YOLP_INTERVAL"),
			CacheSize: v.GetInt("YOLP_CACHE_SIZE"),
		},
		Import: ImportConfig{
			Year:              v.GetInt("IMPORT_YEAR"),
			Population:        v.GetInt("POPULATION"),
			SapporoPopulation: v.GetInt("SAPPORO_POPULATION"),
			Interval:          v.GetDuration("IMPORT_INTERVAL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if err := c.Database.validate(); err != nil {
		return err
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	if c.Downloader.Timeout <= 0 {
		return fmt.Errorf("DOWNLOAD_TIMEOUT must be positive")
	}
	if c.Geocoder.Timeout <= 0 {
		return fmt.Errorf("YOLP_TIMEOUT must be positive")
	}
	if c.Geocoder.Interval < 0 {
		return fmt.Errorf("YOLP_INTERVAL must be non-negative")
	}
	if c.Geocoder.CacheSize < 1 {
		return fmt.Errorf("YOLP_CACHE_SIZE must be at least 1")
	}

	if c.Import.Year != 0 && c.Import.Year < 2020 {
		return fmt.Errorf("IMPORT_YEAR must be 2020 or later")
	}
	if c.Import.Population < 1 {
		return fmt.Errorf("POPULATION must be positive")
	}
	if c.Import.SapporoPopulation < 1 {
		return fmt.Errorf("SAPPORO_POPULATION must be positive")
	}
	if c.Import.Interval < 0 {
		return fmt.Errorf("IMPORT_INTERVAL must be non-negative")
	}

	return nil
}

func (d DatabaseConfig) validate() error {
	switch d.Driver {
	case DriverSQLite:
		if d.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
		return nil
	case DriverPostgres:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, d.Driver)
	}

	if d.URL == "" {
		if d.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if d.Port == "" {
			return fmt.Errorf("DB_PORT is required")
		}
		if d.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
		if d.User == "" {
			return fmt.Errorf("DB_USER is required")
		}
		if d.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	}
	if d.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if d.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if d.PoolMin > d.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}
	return nil
}

// DSN returns the postgres connection string.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// parseList splits a comma-separated string into trimmed, non-empty parts.
func parseList(value string) []string {
	if value == "" {
		return []string{}
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
