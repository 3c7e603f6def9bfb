// Package config loads the engine's environment variables, per spec.md §6:
// "Environment variables the core reads: MONGODB_URI (storage endpoint),
// JURY_ADMIN_PASSWORD (admin bearer), JURY_NAME, JURY_URL (presentation
// only). Missing required variables is a fatal startup error." Grounded on
// the teacher's cmd/engine/main.go requireEnv/getEnvOrDefault pair.
package config

import (
	"log"
	"os"
)

// Config holds every environment-sourced setting the core and its
// collaborators need at startup.
type Config struct {
	MongoURI      string
	MongoDB       string
	AdminPassword string
	JuryName      string
	JuryURL       string
	Port          string
}

// Load reads the process environment, exiting the process via log.Fatalf
// if a required variable is missing — mirrors the teacher's requireEnv.
func Load() Config {
	return Config{
		MongoURI:      requireEnv("MONGODB_URI"),
		MongoDB:       getEnvOrDefault("MONGODB_DB", "hackjury"),
		AdminPassword: requireEnv("JURY_ADMIN_PASSWORD"),
		JuryName:      getEnvOrDefault("JURY_NAME", "Hack Jury"),
		JuryURL:       getEnvOrDefault("JURY_URL", ""),
		Port:          getEnvOrDefault("PORT", "8080"),
	}
}

// requireEnv reads a required environment variable and exits if it is not
// set. This prevents the binary from starting with missing critical
// configuration.
func requireEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("FATAL: required environment variable %s is not set", key)
	}
	return val
}

// getEnvOrDefault returns the env var value or a safe default for
// non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
