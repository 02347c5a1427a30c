package config // package config loads application configuration from environment variables

import (
    "log"     // log reports configuration errors and halts execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"

    "github.com/joho/godotenv" // godotenv fills the environment from an optional .env file
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Config is passed by value into the constructors
// that need it; nothing reads it through a package-level variable.
type Config struct {
    Env          string // application environment (e.g. "dev", "prod")
    Version      string // version reported by GET /health
    Port         string // HTTP port to listen on
    LogLevel     string // slog level: debug, info, warn, error
    DBUser       string // database username
    DBPass       string // database password (optional)
    DBHost       string // database host address
    DBPort       string // database port number
    DBName       string // database name
    JWTSecret    string // secret used to sign access tokens
    AccessTTLMin int    // access token time-to-live in minutes
    BcryptCost   int    // bcrypt cost for password hashing
}

// AccessTTL returns the access token lifetime as a duration.
func (c Config) AccessTTL() time.Duration {
    return time.Duration(c.AccessTTLMin) * time.Minute
}

// Load reads configuration values from the environment and returns a
// Config. A .env file in the working directory is loaded first when
// present; variables already set in the process environment win.
// Required variables are enforced by must() and missing values cause the
// program to exit with a fatal log message.
func Load() Config {
    _ = godotenv.Load() // a missing .env file is not an error

    return Config{
        Env:          must("APP_ENV"),
        Version:      getenv("APP_VERSION", "1.0.0"),
        Port:         must("APP_PORT"),
        LogLevel:     getenv("LOG_LEVEL", "info"),
        DBUser:       must("DB_USER"),
        DBPass:       os.Getenv("DB_PASS"), // empty allowed
        DBHost:       must("DB_HOST"),
        DBPort:       must("DB_PORT"),
        DBName:       must("DB_NAME"),
        JWTSecret:    must("JWT_SECRET"),
        AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),
        BcryptCost:   mustInt("BCRYPT_COST"),
    }
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
