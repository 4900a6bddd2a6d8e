// Package repository provides the storage backends: pgx repositories for
// Postgres and a map-backed store for development mode and tests.
package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the Postgres-backed implementation of the usecase store
// interfaces. Lifecycle transitions rely on conditional updates, so the
// guarantees hold across multiple processes sharing one database.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}
