// Package config provides database configuration helpers for PostgreSQL connections
// used by the circulation engine.
//
// This package contains factory functions for creating database connections
// using different PostgreSQL drivers (pgx.Pool, sql.DB, sqlx.DB) with
// pre-configured DSNs that can be overridden through the environment.
//
// This package is part of the shell (infrastructure) layer.
package config
