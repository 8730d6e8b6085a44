package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type OAuthProvider struct {
	Key         string
	Secret      string
	CallbackURL string
}

type Config struct {
	Addr            string
	DatabasePath    string
	MigrationsDir   string
	SessionLifetime time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	Discord         OAuthProvider
	Google          OAuthProvider
}

// Load reads .env when present and falls back to the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Addr:            getEnv("ADDR", ":8080"),
		DatabasePath:    getEnv("DATABASE_PATH", "bracket_board.db"),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "migrations"),
		SessionLifetime: getDuration("SESSION_LIFETIME", 24*time.Hour),
		RateLimitRPS:    getFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:  getInt("RATE_LIMIT_BURST", 20),
		Discord: OAuthProvider{
			Key:         os.Getenv("DISCORD_KEY"),
			Secret:      os.Getenv("DISCORD_SECRET"),
			CallbackURL: os.Getenv("DISCORD_CALLBACK_URL"),
		},
		Google: OAuthProvider{
			Key:         os.Getenv("GOOGLE_KEY"),
			Secret:      os.Getenv("GOOGLE_SECRET"),
			CallbackURL: os.Getenv("GOOGLE_CALLBACK_URL"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid %s %q, using %s", key, value, fallback)
		return fallback
	}
	return d
}

func getFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Invalid %s %q, using %v", key, value, fallback)
		return fallback
	}
	return f
}

func getInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid %s %q, using %d", key, value, fallback)
		return fallback
	}
	return i
}
