package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
    "time"     // time is used for duration-typed settings
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints and durations
// for limits and lifetimes.
type Config struct {
    Env             string        // application environment (e.g. "dev", "prod")
    Port            string        // HTTP port to listen on
    DBUser          string        // database username
    DBPass          string        // database password (optional)
    DBHost          string        // database host address
    DBPort          string        // database port number
    DBName          string        // database name
    JWTSecret       string        // secret used to sign JWTs
    AccessTTLMin    int           // access token time‑to‑live in minutes; 0 disables the exp claim
    BcryptCost      int           // bcrypt cost for password hashing
    FCMCredentials  string        // path to the Firebase service account JSON (optional; push disabled when empty)
    PushConcurrency int           // upper bound on concurrent push sends during a fan-out
    SessionTTL      time.Duration // maximum age of a push-delivery session before a sweep clears it
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Optional subsystems
// (push delivery, Redis, AMQP) read their settings with defaulted helpers so
// the server still boots without them.
func Load() Config {
    return Config{
        Env:             must("APP_ENV"),                   // environment (dev/test/prod)
        Port:            must("APP_PORT"),                  // port to bind the HTTP server
        DBUser:          must("DB_USER"),                   // database user
        DBPass:          os.Getenv("DB_PASS"),              // database password (empty allowed)
        DBHost:          must("DB_HOST"),                   // database host
        DBPort:          must("DB_PORT"),                   // database port
        DBName:          must("DB_NAME"),                   // database name
        JWTSecret:       must("JWT_SECRET"),                // secret used for signing JWTs
        AccessTTLMin:    envInt("ACCESS_TOKEN_TTL_MIN", 0), // 0 keeps tokens non-expiring; revocation is then the only invalidation
        BcryptCost:      envInt("BCRYPT_COST", 10),         // bcrypt cost factor
        FCMCredentials:  os.Getenv("FCM_CREDENTIALS_FILE"), // Firebase service account path (empty disables push)
        PushConcurrency: envInt("PUSH_CONCURRENCY", 8),     // bounded worker pool for fan-out sends
        SessionTTL:      envDur("SESSION_TTL", time.Hour),  // staleness threshold for /admin/session/clear
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

// Helper functions shared with the rate limit and cache loaders.
func envStr(k, d string) string { if v := os.Getenv(k); v != "" { return v }; return d }

func envBool(k string, d bool) bool {
    v := os.Getenv(k)
    if v == "" { return d }
    switch v {
    case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON": return true
    case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF": return false
    }
    return d
}

func envInt(k string, d int) int {
    v := os.Getenv(k); if v == "" { return d }
    if n, err := strconv.Atoi(v); err == nil { return n }
    return d
}

func envDur(k string, d time.Duration) time.Duration {
    v := os.Getenv(k); if v == "" { return d }
    if dur, err := time.ParseDuration(v); err == nil { return dur }
    return d
}
