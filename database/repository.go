package database

import "database/sql"

// Repository exposes typed CRUD over the six garage entities. Invariants
// that span entities (payment math, status transitions) are enforced one
// layer up in services; the schema constraints are the backstop.
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// nullable maps the empty string to NULL so that unset unique columns
// (customer phone, email) never collide with each other.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func stringOrEmpty(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
