package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	MetricsPort string
	PublicURL   string

	DatabaseDriver string
	PostgresUrl    string
	SQLitePath     string
	MySQLDSN       string
	MongoURI       string
	MongoDatabase  string

	JWTSecret     string
	TokenTTL      time.Duration
	TokenStore    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	StorageBackend          string
	LocalStoragePath        string
	S3Region                string
	S3Bucket                string
	FirebaseCredentialsPath string
	FirebaseStorageBucket   string

	ScraperURL     string
	ScraperTimeout time.Duration

	AuthRateLimit float64
	Categories    []string
}

// Load reads .env (if any) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("METRICS_PORT", "9090")
	v.SetDefault("PUBLIC_URL", "http://localhost:8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("SQLITE_PATH", "blog.db")
	v.SetDefault("MONGO_DATABASE", "infoblog")
	v.SetDefault("TOKEN_TTL_HOURS", 72)
	v.SetDefault("TOKEN_STORE", "database")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SMTP_PORT", 465)
	v.SetDefault("MAIL_FROM", "admin@admin.com")
	v.SetDefault("STORAGE_BACKEND", "local")
	v.SetDefault("LOCAL_STORAGE_PATH", "./media")
	v.SetDefault("S3_REGION", "us-west-2")
	v.SetDefault("SCRAPER_URL", "https://24.kg/sport/")
	v.SetDefault("SCRAPER_TIMEOUT_SECONDS", 15)
	v.SetDefault("AUTH_RATE_LIMIT", 10)
	return v
}

// FromViper maps a viper instance onto Config.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Port:        v.GetString("PORT"),
		Env:         v.GetString("ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		MetricsPort: v.GetString("METRICS_PORT"),
		PublicURL:   strings.TrimRight(v.GetString("PUBLIC_URL"), "/"),

		DatabaseDriver: strings.ToLower(v.GetString("DB_DRIVER")),
		PostgresUrl:    v.GetString("POSTGRES_CONN_STR"),
		SQLitePath:     v.GetString("SQLITE_PATH"),
		MySQLDSN:       v.GetString("MYSQL_DSN"),
		MongoURI:       v.GetString("MONGO_URI"),
		MongoDatabase:  v.GetString("MONGO_DATABASE"),

		JWTSecret:     v.GetString("JWT_SECRET"),
		TokenTTL:      time.Duration(v.GetInt("TOKEN_TTL_HOURS")) * time.Hour,
		TokenStore:    strings.ToLower(v.GetString("TOKEN_STORE")),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		SMTPHost:     v.GetString("SMTP_HOST"),
		SMTPPort:     v.GetInt("SMTP_PORT"),
		SMTPUsername: v.GetString("SMTP_USERNAME"),
		SMTPPassword: v.GetString("SMTP_PASSWORD"),
		MailFrom:     v.GetString("MAIL_FROM"),

		StorageBackend:          strings.ToLower(v.GetString("STORAGE_BACKEND")),
		LocalStoragePath:        v.GetString("LOCAL_STORAGE_PATH"),
		S3Region:                v.GetString("S3_REGION"),
		S3Bucket:                v.GetString("S3_BUCKET"),
		FirebaseCredentialsPath: v.GetString("FIREBASE_CREDENTIALS_PATH"),
		FirebaseStorageBucket:   v.GetString("FIREBASE_STORAGE_BUCKET"),

		ScraperURL:     v.GetString("SCRAPER_URL"),
		ScraperTimeout: time.Duration(v.GetInt("SCRAPER_TIMEOUT_SECONDS")) * time.Second,

		AuthRateLimit: v.GetFloat64("AUTH_RATE_LIMIT"),
		Categories:    splitList(v.GetString("CATEGORIES")),
	}
}

// Validate checks that the selected drivers have what they need.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		if c.Env != "development" {
			return errors.New("JWT_SECRET must be set outside development")
		}
		c.JWTSecret = "supersecretjwtkey"
	}

	switch c.DatabaseDriver {
	case "postgres":
		if c.PostgresUrl == "" {
			return errors.New("POSTGRES_CONN_STR environment variable not set")
		}
	case "mysql":
		if c.MySQLDSN == "" {
			return errors.New("MYSQL_DSN environment variable not set")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DatabaseDriver)
	}

	switch c.TokenStore {
	case "database", "redis":
	default:
		return fmt.Errorf("unsupported TOKEN_STORE %q", c.TokenStore)
	}

	switch c.StorageBackend {
	case "local":
	case "gridfs":
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required for the gridfs storage backend")
		}
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET is required for the s3 storage backend")
		}
	case "firebase":
		if c.FirebaseCredentialsPath == "" || c.FirebaseStorageBucket == "" {
			return errors.New("FIREBASE_CREDENTIALS_PATH and FIREBASE_STORAGE_BUCKET are required for the firebase storage backend")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.AuthRateLimit <= 0 {
		return errors.New("AUTH_RATE_LIMIT must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
