package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	MongoURI                string
	MongoDatabase           string
	RedisURI                string // empty disables the subject cache and the Redis rate limiter
	FirebaseKey             string
	FirebaseCredentialsFile string // optional: enables local ID token verification via the Admin SDK
	IdentityCacheTTL        time.Duration
	RequestTimeout          time.Duration
	Port                    string
	AllowedOrigins          []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)
	CloudinaryName          string
	CloudinaryAPIKey        string
	CloudinaryAPISecret     string
	Environment             string // ENV: production, development, etc.
	LogLevel                string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	return &Config{
		MongoURI:                getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/journal")),
		MongoDatabase:           getEnv("MONGODB_DATABASE", ""),
		RedisURI:                getEnv("REDIS_URI", ""),
		FirebaseKey:             getEnv("FIREBASE_KEY", ""),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		IdentityCacheTTL:        getDuration("IDENTITY_CACHE_TTL", 5*time.Minute),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 10*time.Second),
		Environment:             env,
		Port:                    getEnv("PORT", "5000"),
		AllowedOrigins:          allowedOrigins,
		CloudinaryName:          getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:        getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret:     getEnv("CLOUDINARY_API_SECRET", ""),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// CloudinaryConfigured reports whether all three Cloudinary credentials are present.
func (c *Config) CloudinaryConfigured() bool {
	return c.CloudinaryName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration accepts Go duration strings ("90s", "5m"). Invalid values fall back to the default.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return defaultValue
	}
	return d
}
