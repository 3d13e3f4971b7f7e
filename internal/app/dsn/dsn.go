package dsn

import (
	"fmt"
	"os"
)

// FromEnv builds the postgres connection string from DB_* variables.
// Empty when DB_HOST is not set.
func FromEnv() string {
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}
	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}
	tz := os.Getenv("DB_TIMEZONE")
	if tz == "" {
		tz = "UTC"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		host, port, os.Getenv("DB_USER"), os.Getenv("DB_PASS"), os.Getenv("DB_NAME"), sslMode, tz)
}
