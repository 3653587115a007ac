package config

import (
    "log"
    "os"
    "strconv"
)

type Config struct {
    DatabaseURL string
    JWTSecret   string
    AdminCode   string
    Port        string
    Environment string
    TDSPercent  float64
}

func Load() *Config {
    return &Config{
        DatabaseURL: getEnv("DATABASE_URL", "msk.db"),
        JWTSecret:   getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
        AdminCode:   getEnv("ADMIN_CODE", "MSK_ADMIN_2025"),
        Port:        getEnv("PORT", "8080"),
        Environment: getEnv("ENVIRONMENT", "development"),
        TDSPercent:  getEnvFloat("TDS_PERCENT", 10.0),
    }
}

func getEnv(key, defaultValue string) string {
    if value := os.Getenv(key); value != "" {
        return value
    }
    return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
    if value := os.Getenv(key); value != "" {
        if parsed, err := strconv.ParseFloat(value, 64); err == nil {
            return parsed
        }
        log.Printf("WARNING: invalid float for %s, using default %.2f", key, defaultValue)
    }
    return defaultValue
}

func ValidateConfig(cfg *Config) {
    if len(cfg.JWTSecret) < 32 {
        log.Printf("WARNING: JWT_SECRET should be at least 32 characters for security")
    }
    if cfg.Environment == "production" && cfg.AdminCode == "MSK_ADMIN_2025" {
        log.Printf("WARNING: Change ADMIN_CODE in production environment")
    }
    if cfg.TDSPercent < 0 || cfg.TDSPercent > 100 {
        log.Fatalf("TDS_PERCENT must be between 0 and 100, got %.2f", cfg.TDSPercent)
    }
}
