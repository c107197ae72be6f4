// internal/config/config.go
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderS3     = "s3"
	ProviderMemory = "memory"

	DefaultUploadMaxBytes = 10 << 20
	DefaultListMaxKeys    = 100
	maxListKeys           = 1000
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Upload  UploadConfig
	Cache   CacheConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type StorageConfig struct {
	Provider      string
	AccessKey     string
	SecretKey     string
	Region        string
	Bucket        string
	Endpoint      string
	UseSSL        bool
	PublicBaseURL string
}

type UploadConfig struct {
	MaxBytes    int64
	ListMaxKeys int
}

type CacheConfig struct {
	Enabled        bool
	RedisURL       string
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	ListTTLSeconds int
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment, after loading a .env file
// if one exists in the working directory.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("PORT", "5000")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 60)
	v.SetDefault("CORS_ORIGIN", "http://localhost:3000")
	v.SetDefault("STORAGE_PROVIDER", ProviderS3)
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("AWS_REGION", "")
	v.SetDefault("S3_BUCKET_NAME", "")
	v.SetDefault("S3_ENDPOINT", "s3.amazonaws.com")
	v.SetDefault("S3_USE_SSL", true)
	v.SetDefault("S3_PUBLIC_BASE_URL", "")
	v.SetDefault("UPLOAD_MAX_BYTES", DefaultUploadMaxBytes)
	v.SetDefault("LIST_MAX_KEYS", DefaultListMaxKeys)
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_LIST_TTL_SECONDS", 30)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	// Read from environment variables
	v.AutomaticEnv()

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: splitList(v.GetString("CORS_ORIGIN")),
		},
		Storage: StorageConfig{
			Provider:      strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_PROVIDER"))),
			AccessKey:     v.GetString("AWS_ACCESS_KEY_ID"),
			SecretKey:     v.GetString("AWS_SECRET_ACCESS_KEY"),
			Region:        v.GetString("AWS_REGION"),
			Bucket:        v.GetString("S3_BUCKET_NAME"),
			Endpoint:      v.GetString("S3_ENDPOINT"),
			UseSSL:        v.GetBool("S3_USE_SSL"),
			PublicBaseURL: strings.TrimRight(v.GetString("S3_PUBLIC_BASE_URL"), "/"),
		},
		Upload: UploadConfig{
			MaxBytes:    positiveInt64(v.GetInt64("UPLOAD_MAX_BYTES"), DefaultUploadMaxBytes),
			ListMaxKeys: clampListKeys(v.GetInt("LIST_MAX_KEYS")),
		},
		Cache: CacheConfig{
			Enabled:        v.GetBool("CACHE_ENABLED"),
			RedisURL:       v.GetString("REDIS_URL"),
			RedisHost:      v.GetString("REDIS_HOST"),
			RedisPort:      v.GetString("REDIS_PORT"),
			RedisPassword:  v.GetString("REDIS_PASSWORD"),
			RedisDB:        v.GetInt("REDIS_DB"),
			ListTTLSeconds: v.GetInt("CACHE_LIST_TTL_SECONDS"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

// MissingVars lists the environment variables that must be set before the
// configured provider can be used. The memory provider needs none.
func (c StorageConfig) MissingVars() []string {
	if c.Provider == ProviderMemory {
		return nil
	}

	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"AWS_ACCESS_KEY_ID", c.AccessKey},
		{"AWS_SECRET_ACCESS_KEY", c.SecretKey},
		{"AWS_REGION", c.Region},
		{"S3_BUCKET_NAME", c.Bucket},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	return missing
}

// IsConfigured reports whether every variable the provider needs is present.
func (c StorageConfig) IsConfigured() bool {
	return len(c.MissingVars()) == 0
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func positiveInt64(v, fallback int64) int64 {
	if v <= 0 {
		return fallback
	}
	return v
}

func clampListKeys(n int) int {
	switch {
	case n <= 0:
		return DefaultListMaxKeys
	case n > maxListKeys:
		return maxListKeys
	default:
		return n
	}
}
