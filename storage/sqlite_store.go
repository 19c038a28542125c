package storage

import (
	"casebook/clinic"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// Querier is the subset of *sql.DB and *sql.Tx used by entity persistence,
// so the same code runs inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Tx is an open transaction.
type Tx interface {
	Querier
	Commit() error
	Rollback() error
}

// Database is a Querier that can also open transactions.
type Database interface {
	Querier
	Begin(ctx context.Context) (Tx, error)
}

type SQLiteStore struct {
	db *sql.DB
}

var _ Database = (*SQLiteStore)(nil)

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps an open transaction and any writes issued
	// outside it on the same SQLite handle.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS assessors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	code TEXT NOT NULL UNIQUE,
	full_name TEXT NOT NULL,
	credentials TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS clients (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	code TEXT NOT NULL UNIQUE,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	date_of_birth TEXT NOT NULL,
	sex TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	referral_source TEXT NOT NULL DEFAULT '',
	assessor_code TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Begin opens a transaction on the store's connection.
func (s *SQLiteStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return tx, nil
}

func (s *SQLiteStore) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, query, args...)
}

func (s *SQLiteStore) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, query, args...)
}

func (s *SQLiteStore) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, query, args...)
}

// InsertClient inserts one client and returns the new row ID when inserted.
// The second return value is false when the row is ignored by the UNIQUE
// constraint on the client code.
func InsertClient(ctx context.Context, q Querier, client clinic.Client) (int64, bool, error) {
	const insertStmt = `
INSERT OR IGNORE INTO clients (
	code,
	first_name,
	last_name,
	date_of_birth,
	sex,
	email,
	phone,
	referral_source,
	assessor_code
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`

	res, err := q.ExecContext(
		ctx,
		insertStmt,
		client.Code,
		client.FirstName,
		client.LastName,
		client.DateOfBirth.Format(dateLayout),
		client.Sex,
		client.Email,
		client.Phone,
		client.ReferralSource,
		client.AssessorCode,
	)
	if err != nil {
		return 0, false, fmt.Errorf("insert client %s: %w", client.Code, err)
	}

	return insertedID(res)
}

// FindClientIDByCode returns the ID of the client with the given code.
func FindClientIDByCode(ctx context.Context, q Querier, code string) (int64, bool, error) {
	return findIDByCode(ctx, q, "clients", code)
}

func ListClients(ctx context.Context, q Querier) ([]clinic.Client, error) {
	const query = `
SELECT
	id,
	code,
	first_name,
	last_name,
	date_of_birth,
	sex,
	email,
	phone,
	referral_source,
	assessor_code
FROM clients
ORDER BY last_name, first_name, id;
`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query clients: %w", err)
	}
	defer rows.Close()

	clients := make([]clinic.Client, 0, 64)
	for rows.Next() {
		var (
			client clinic.Client
			dobRaw string
		)

		if err := rows.Scan(
			&client.ID,
			&client.Code,
			&client.FirstName,
			&client.LastName,
			&dobRaw,
			&client.Sex,
			&client.Email,
			&client.Phone,
			&client.ReferralSource,
			&client.AssessorCode,
		); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}

		client.DateOfBirth, err = time.Parse(dateLayout, dobRaw)
		if err != nil {
			return nil, fmt.Errorf("parse date of birth %q: %w", dobRaw, err)
		}

		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}

	return clients, nil
}

func (s *SQLiteStore) CountClients(ctx context.Context) (int64, error) {
	return countRows(ctx, s.db, "clients")
}

// DeleteAll removes every client and assessor row.
func (s *SQLiteStore) DeleteAll(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	var deleted int64
	for _, table := range []string{"clients", "assessors"} {
		res, err := tx.ExecContext(ctx, "DELETE FROM "+table+";")
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("delete %s: %w", table, err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("read deleted row count: %w", err)
		}
		deleted += rows
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete transaction: %w", err)
	}
	return deleted, nil
}

func insertedID(res sql.Result) (int64, bool, error) {
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("read inserted row count: %w", err)
	}
	if rows == 0 {
		return 0, false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("read inserted row id: %w", err)
	}
	if id <= 0 {
		return 0, false, fmt.Errorf("invalid inserted row id %d", id)
	}
	return id, true, nil
}

// findIDByCode looks up a row ID by its unique code. table is always a
// package constant, never caller input.
func findIDByCode(ctx context.Context, q Querier, table, code string) (int64, bool, error) {
	var id int64
	err := q.QueryRowContext(ctx, "SELECT id FROM "+table+" WHERE code = ?;", code).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("query %s by code %q: %w", table, code, err)
	}
	return id, true, nil
}

func countRows(ctx context.Context, q Querier, table string) (int64, error) {
	var count int64
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+";").Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}
