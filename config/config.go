package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds the runtime settings read from the environment
type Config struct {
	Port            string
	BaseURL         string // Base URL for render endpoints (e.g., "http://localhost:8080")
	DatabaseURL     string
	ChromePath      string
	CredentialsPath string // Service Account JSON for Drive-hosted images
	ImageCacheDir   string
	ImageHosts      []string // Extra hosts /images may fetch absolute URLs from
	LogLevel        string
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	port := strings.TrimPrefix(os.Getenv("PORT"), ":")
	if port == "" {
		port = "8080"
	}

	baseURL := strings.TrimRight(os.Getenv("BASE_URL"), "/")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	dbURL, err := databaseURL()
	if err != nil {
		return nil, err
	}

	cacheDir := os.Getenv("IMAGE_CACHE_DIR")
	if cacheDir == "" {
		cacheDir = "cache/images"
	}

	var imageHosts []string
	for _, h := range strings.Split(os.Getenv("IMAGE_ALLOWED_HOSTS"), ",") {
		if h = strings.TrimSpace(h); h != "" {
			imageHosts = append(imageHosts, h)
		}
	}

	logLevel := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		Port:            port,
		BaseURL:         baseURL,
		DatabaseURL:     dbURL,
		ChromePath:      os.Getenv("CHROME_PATH"),
		CredentialsPath: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		ImageCacheDir:   cacheDir,
		ImageHosts:      imageHosts,
		LogLevel:        logLevel,
	}, nil
}

// Addr returns the listen address. 0.0.0.0 accepts connections from all interfaces (Docker/Render).
func (c *Config) Addr() string {
	return "0.0.0.0:" + c.Port
}

// databaseURL uses DATABASE_URL or builds a connection string from the DB_* variables
func databaseURL() (string, error) {
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		return connStr, nil
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")

	if host == "" || user == "" || dbname == "" {
		return "", fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}

	if port == "" {
		port = "5432"
	}
	if sslmode == "" {
		sslmode = "disable"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode), nil
}
