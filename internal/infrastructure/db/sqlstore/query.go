package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
)

type sqlBuilder interface {
	ToSQL() (string, []interface{}, error)
}

func getOne(ctx context.Context, q querier, dest any, b sqlBuilder) error {
	query, args, err := b.ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return sqlx.GetContext(ctx, q, dest, query, args...)
}

func selectAll(ctx context.Context, q querier, dest any, b sqlBuilder) error {
	query, args, err := b.ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return sqlx.SelectContext(ctx, q, dest, query, args...)
}

func execute(ctx context.Context, q querier, b sqlBuilder) (sql.Result, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return q.ExecContext(ctx, query, args...)
}

// insert adds one row and returns its generated id. Postgres reports the id
// through RETURNING, the other dialects through LastInsertId.
func (s *Store) insert(ctx context.Context, q querier, table string, rec goqu.Record) (int64, error) {
	ds := s.dialect.Insert(table).Rows(rec).Prepared(true)

	if s.name == "postgres" {
		var id int64
		if err := getOne(ctx, q, &id, ds.Returning("id")); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := execute(ctx, q, ds)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// deleteByID removes one row and reports whether it existed.
func (s *Store) deleteByID(ctx context.Context, q querier, table string, id int64) (bool, error) {
	res, err := execute(ctx, q, s.dialect.Delete(table).Where(goqu.C("id").Eq(id)).Prepared(true))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) count(ctx context.Context, q querier, table string, where goqu.Ex) (int64, error) {
	var n int64
	ds := s.dialect.From(table).Select(goqu.COUNT(goqu.Star())).Where(where).Prepared(true)
	if err := getOne(ctx, q, &n, ds); err != nil {
		return 0, err
	}
	return n, nil
}
