package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const pingTimeout = 10 * time.Second

// DB holds the database connection
var DB *sql.DB

// Settings holds the connection variables: either URL or the individual fields
type Settings struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Configured reports whether any connection variables are set.
// The customizer runs without a database when none are.
func (s Settings) Configured() bool {
	return s.URL != "" || s.Host != ""
}

// ConnString returns the pgx connection string
func (s Settings) ConnString() (string, error) {
	if s.URL != "" {
		return s.URL, nil
	}
	if s.Host == "" || s.User == "" || s.Name == "" {
		return "", fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}

	port := s.Port
	if port == "" {
		port = "5432"
	}
	sslmode := s.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		s.Host, port, s.User, s.Password, s.Name, sslmode), nil
}

// InitDB opens and pings the catalog database
func InitDB(settings Settings) error {
	connStr, err := settings.ConnString()
	if err != nil {
		return err
	}

	DB, err = sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := DB.PingContext(ctx); err != nil {
		DB.Close()
		DB = nil
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("✓ Database connection established successfully")
	return nil
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		err := DB.Close()
		DB = nil
		return err
	}
	return nil
}
