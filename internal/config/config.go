package config // package config loads application configuration from environment variables

import (
	"log" // log is used to report configuration errors and halt execution
	"os"  // os provides access to environment variables
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Database and JWT settings are required;
// storage settings may be left empty, in which case attachment uploads
// are rejected with an upload error instead of failing startup.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	JWTSecret string // secret used to sign JWTs
	Timezone  string // IANA zone for business timestamps (default Asia/Jakarta)

	DBMaxOpenConns int // connection pool ceiling; 0 uses the database default
	DBMaxIdleConns int // idle pool size; 0 uses the database default

	StorageEndpoint  string // S3-compatible endpoint for attachment bytes
	StorageRegion    string // bucket region
	StorageBucket    string // bucket name
	StorageAccessKey string // static access key
	StorageSecretKey string // static secret key
	StorageBaseURL   string // public base URL prepended to object keys
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:       must("APP_ENV"),
		Port:      must("APP_PORT"),
		DBUser:    must("DB_USER"),
		DBPass:    os.Getenv("DB_PASS"), // empty allowed
		DBHost:    must("DB_HOST"),
		DBPort:    must("DB_PORT"),
		DBName:    must("DB_NAME"),
		JWTSecret: must("JWT_SECRET"),
		Timezone:  getenv("TICKET_TIMEZONE", "Asia/Jakarta"),

		DBMaxOpenConns: envInt("DB_MAX_OPEN_CONNS", 0),
		DBMaxIdleConns: envInt("DB_MAX_IDLE_CONNS", 0),

		StorageEndpoint:  os.Getenv("STORAGE_ENDPOINT"),
		StorageRegion:    getenv("STORAGE_REGION", "us-east-1"),
		StorageBucket:    os.Getenv("STORAGE_BUCKET"),
		StorageAccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
		StorageSecretKey: os.Getenv("STORAGE_SECRET_KEY"),
		StorageBaseURL:   os.Getenv("STORAGE_PUBLIC_BASE_URL"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the environment value for key or def when unset.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
