package db

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database variables
var (
	Db   *gorm.DB                                                          // GORM database instance
	Path = filepath.Join(os.Getenv("HOME"), ".tixshell/credentials.db") // Default database path
)

// InitDB opens the database at Path and creates the tables if they don't exist.
// It returns an error if any step in the initialization process fails.
func InitDB() error {
	if err := createDBDirectory(); err != nil {
		return err
	}

	conn, err := Open(Path)
	if err != nil {
		return err
	}
	Db = conn

	log.Info().Str("path", Path).Msg("Database initialized successfully")
	return nil
}

// Open opens a SQLite database at path (":memory:" is allowed), migrates
// the schema, and configures the GORM logger.
func Open(path string) (*gorm.DB, error) {
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Error().Err(err).Msg("Failed to open database")
		return nil, err
	}

	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := conn.AutoMigrate(&Credential{}); err != nil {
		log.Error().Err(err).Msg("Failed to auto-migrate database")
		return nil, err
	}

	configureLogger(conn)
	return conn, nil
}

// createDBDirectory checks if the database directory exists and creates it if it doesn't.
func createDBDirectory() error {
	dir := filepath.Dir(Path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			log.Error().Err(err).Msg("Failed to create database directory")
			return err
		}
	}
	return nil
}

// configureLogger silences GORM unless debug logging is enabled.
func configureLogger(conn *gorm.DB) {
	if zerolog.GlobalLevel() == zerolog.Disabled {
		conn.Logger = conn.Logger.LogMode(logger.Silent)
	} else {
		conn.Logger = conn.Logger.LogMode(logger.Info)
	}
}

// CloseDB closes the database connection.
func CloseDB() error {
	if Db == nil {
		return nil
	}
	sqlDB, err := Db.DB()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get raw database connection")
		return err
	}
	return sqlDB.Close()
}
