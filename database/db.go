package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sql.DB
}

// New opens (or creates) the garage database. Any failure here is fatal to
// startup; callers do not retry.
func New(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: create database directory: %v", ErrStoreUnavailable, err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", ErrStoreUnavailable, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("%w: enable WAL mode: %v", ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("%w: enable foreign keys: %v", ErrStoreUnavailable, err)
	}

	return &DB{db}, nil
}

// Migrate creates the six garage tables. The schema is frozen: existing
// export files depend on these exact keys and constraints.
func (db *DB) Migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS Customers (
			CustomerID INTEGER PRIMARY KEY AUTOINCREMENT,
			Name TEXT NOT NULL,
			Phone TEXT UNIQUE,
			Address TEXT,
			Email TEXT UNIQUE
		)`,

		`CREATE TABLE IF NOT EXISTS Vehicles (
			RegNumber TEXT PRIMARY KEY COLLATE NOCASE,
			CustomerID INTEGER NOT NULL,
			VehicleName TEXT,
			LastServiceDate TEXT,
			LastReading INTEGER DEFAULT 0,
			ReminderDays INTEGER DEFAULT 0,
			FOREIGN KEY (CustomerID) REFERENCES Customers(CustomerID)
		)`,

		`CREATE TABLE IF NOT EXISTS Services (
			ServiceLogID INTEGER PRIMARY KEY AUTOINCREMENT,
			RegNumber TEXT NOT NULL COLLATE NOCASE,
			TimestampKey INTEGER NOT NULL,
			CurrentReading INTEGER,
			TotalAmount REAL DEFAULT 0,
			PaymentStatus TEXT DEFAULT 'Pending',
			PaidAmount REAL DEFAULT 0,
			Status TEXT DEFAULT 'In Progress',
			CompletedOn TEXT,
			OutstandingBalance REAL DEFAULT 0,
			StartedOn TEXT,
			FOREIGN KEY (RegNumber) REFERENCES Vehicles(RegNumber)
		)`,

		`CREATE TABLE IF NOT EXISTS ServiceParts (
			PartLogID INTEGER PRIMARY KEY AUTOINCREMENT,
			ServiceLogID INTEGER NOT NULL,
			PartName TEXT NOT NULL,
			Amount REAL NOT NULL,
			FOREIGN KEY (ServiceLogID) REFERENCES Services(ServiceLogID)
		)`,

		`CREATE TABLE IF NOT EXISTS CommonServices (
			ServiceID INTEGER PRIMARY KEY AUTOINCREMENT,
			ServiceName TEXT NOT NULL UNIQUE,
			DefaultAmount REAL NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS UserInfo (
			UserID INTEGER PRIMARY KEY CHECK (UserID = 1),
			Name TEXT,
			Email TEXT,
			PhoneNumber TEXT,
			GarageName TEXT,
			Address TEXT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_services_status ON Services(Status)`,
		`CREATE INDEX IF NOT EXISTS idx_services_reg ON Services(RegNumber)`,
		`CREATE INDEX IF NOT EXISTS idx_parts_service ON ServiceParts(ServiceLogID)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("%w: migration failed: %v", ErrStoreUnavailable, err)
		}
	}

	// The profile singleton always exists after initialization.
	if _, err := db.Exec(
		`INSERT OR IGNORE INTO UserInfo (UserID, Name, Email, PhoneNumber, GarageName, Address)
		 VALUES (1, '', '', '', '', '')`,
	); err != nil {
		return fmt.Errorf("%w: seed user info: %v", ErrStoreUnavailable, err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
