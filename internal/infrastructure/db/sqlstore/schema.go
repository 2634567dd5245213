package sqlstore

import (
	"context"
	"errors"
	"fmt"
)

var schemas = map[string][]string{
	"postgres": {
		`CREATE TABLE IF NOT EXISTS books (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			published_year INTEGER,
			available_copies INTEGER NOT NULL DEFAULT 1,
			is_available BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS members (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			hashed_password TEXT NOT NULL DEFAULT '',
			joined_date TIMESTAMPTZ NOT NULL,
			role TEXT NOT NULL DEFAULT 'member'
		)`,
		`CREATE TABLE IF NOT EXISTS borrow_records (
			id BIGSERIAL PRIMARY KEY,
			member_id BIGINT NOT NULL REFERENCES members (id) ON DELETE RESTRICT,
			book_id BIGINT NOT NULL REFERENCES books (id) ON DELETE RESTRICT,
			borrow_date TIMESTAMPTZ NOT NULL,
			return_date TIMESTAMPTZ,
			is_returned BOOLEAN NOT NULL DEFAULT FALSE
		)`,
	},
	"mysql": {
		`CREATE TABLE IF NOT EXISTS books (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			author VARCHAR(255) NOT NULL,
			published_year INT NULL,
			available_copies INT NOT NULL DEFAULT 1,
			is_available BOOLEAN NOT NULL DEFAULT TRUE
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS members (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			hashed_password VARCHAR(255) NOT NULL DEFAULT '',
			joined_date DATETIME(6) NOT NULL,
			role VARCHAR(32) NOT NULL DEFAULT 'member'
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS borrow_records (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			member_id BIGINT NOT NULL,
			book_id BIGINT NOT NULL,
			borrow_date DATETIME(6) NOT NULL,
			return_date DATETIME(6) NULL,
			is_returned BOOLEAN NOT NULL DEFAULT FALSE,
			FOREIGN KEY (member_id) REFERENCES members (id) ON DELETE RESTRICT,
			FOREIGN KEY (book_id) REFERENCES books (id) ON DELETE RESTRICT
		) ENGINE=InnoDB`,
	},
	"sqlite3": {
		`CREATE TABLE IF NOT EXISTS books (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			published_year INTEGER,
			available_copies INTEGER NOT NULL DEFAULT 1,
			is_available BOOLEAN NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS members (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			hashed_password TEXT NOT NULL DEFAULT '',
			joined_date TIMESTAMP NOT NULL,
			role TEXT NOT NULL DEFAULT 'member'
		)`,
		`CREATE TABLE IF NOT EXISTS borrow_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			member_id INTEGER NOT NULL REFERENCES members (id) ON DELETE RESTRICT,
			book_id INTEGER NOT NULL REFERENCES books (id) ON DELETE RESTRICT,
			borrow_date TIMESTAMP NOT NULL,
			return_date TIMESTAMP,
			is_returned BOOLEAN NOT NULL DEFAULT 0
		)`,
	},
}

// EnsureSchema creates the three tables if they do not exist yet. It is safe
// to run on every start.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts, ok := schemas[s.name]
	if !ok {
		return fmt.Errorf("sqlstore: no schema for dialect %q", s.name)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlstore: begin schema tx: %w", err)
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = errors.Join(err, rbErr)
			}
			return fmt.Errorf("sqlstore: apply schema: %w", err)
		}
	}
	return tx.Commit()
}
