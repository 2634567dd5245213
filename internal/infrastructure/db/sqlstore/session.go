package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bookkeep/library-records/internal/core/ports"
)

// querier is satisfied by both *sqlx.Conn and *sqlx.Tx.
type querier interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}

// Session implements ports.Session on a single connection.
type Session struct {
	store *Store
	conn  *sqlx.Conn
	tx    *sqlx.Tx
	q     querier
}

// Session checks a connection out of the pool. Close returns it.
func (s *Store) Session(ctx context.Context) (ports.Session, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &Session{store: s, conn: conn, q: conn}, nil
}

func (s *Session) Books() ports.BookRepository {
	return &bookRepository{q: s.q, d: s.store}
}

func (s *Session) Members() ports.MemberRepository {
	return &memberRepository{q: s.q, d: s.store}
}

func (s *Session) Borrows() ports.BorrowRepository {
	return &borrowRepository{q: s.q, d: s.store}
}

// WithinTx commits when fn returns nil and rolls back otherwise. Calling it
// on a session that is already inside a transaction just runs fn.
func (s *Session) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.Session) error) error {
	if s.tx != nil {
		return fn(ctx, s)
	}

	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	txSess := &Session{store: s.store, tx: tx, q: tx}

	if err := fn(ctx, txSess); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Close releases the connection. Sessions bound to a transaction do not own
// one and Close is a no-op for them.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
