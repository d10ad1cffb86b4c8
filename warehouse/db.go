package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Executor est le contrat minimal vu par le catalogue de rapports.
// Lecture seule : uniquement des SELECT paramétrés.
type Executor interface {
	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	Table(logical string) string
	GroupConcat(expr, sep string) string
}

type DB struct {
	sql     *sql.DB
	dialect Dialect
	schema  *Schema
}

// Open ouvre la base entrepôt pour le backend configuré
// ("sqlite", "mysql" ou "postgres").
func Open(backend, dsn string, schema *Schema) (*DB, error) {
	d, err := ParseDialect(backend)
	if err != nil {
		return nil, err
	}
	raw, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", backend, err)
	}
	return &DB{sql: raw, dialect: d, schema: schema}, nil
}

func (db *DB) SetLimits(maxOpen, maxIdle int) {
	if maxOpen > 0 {
		db.sql.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.sql.SetMaxIdleConns(maxIdle)
	}
}

func (db *DB) Close() error {
	return db.sql.Close()
}

func (db *DB) Dialect() Dialect {
	return db.dialect
}

// SQL expose la connexion brute (introspection pour schema-sync).
func (db *DB) SQL() *sql.DB {
	return db.sql
}

// Query exécute un SELECT avec valeurs liées. Les placeholders "?"
// sont réécrits selon le dialecte, jamais concaténés.
func (db *DB) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.sql.QueryContext(ctx, db.dialect.Rebind(query), args...)
}

func (db *DB) Table(logical string) string {
	return db.schema.TableName(logical)
}

func (db *DB) GroupConcat(expr, sep string) string {
	return db.dialect.GroupConcat(expr, sep)
}
