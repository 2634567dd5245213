package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/bookkeep/library-records/internal/core/domain"
)

var bookColumns = []interface{}{"id", "title", "author", "published_year", "available_copies", "is_available"}

type bookRepository struct {
	q querier
	d *Store
}

func (r *bookRepository) List(ctx context.Context) ([]domain.Book, error) {
	books := []domain.Book{}
	ds := r.d.dialect.From(tableBooks).Select(bookColumns...).Order(goqu.C("id").Asc()).Prepared(true)
	if err := selectAll(ctx, r.q, &books, ds); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (r *bookRepository) FindByID(ctx context.Context, id int64) (*domain.Book, error) {
	return r.find(ctx, id, false)
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
// SQLite has no row locks; its writers are already serialised.
func (r *bookRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Book, error) {
	return r.find(ctx, id, r.d.name != "sqlite3")
}

func (r *bookRepository) find(ctx context.Context, id int64, lock bool) (*domain.Book, error) {
	ds := r.d.dialect.From(tableBooks).Select(bookColumns...).Where(goqu.C("id").Eq(id)).Prepared(true)
	if lock {
		ds = ds.ForUpdate(exp.Wait)
	}

	var b domain.Book
	if err := getOne(ctx, r.q, &b, ds); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book %d: %w", id, err)
	}
	return &b, nil
}

func (r *bookRepository) Create(ctx context.Context, b *domain.Book) error {
	id, err := r.d.insert(ctx, r.q, tableBooks, bookRecord(b))
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	b.ID = id
	return nil
}

func (r *bookRepository) Update(ctx context.Context, b *domain.Book) error {
	ds := r.d.dialect.Update(tableBooks).Set(bookRecord(b)).Where(goqu.C("id").Eq(b.ID)).Prepared(true)
	if _, err := execute(ctx, r.q, ds); err != nil {
		return fmt.Errorf("update book %d: %w", b.ID, err)
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	ok, err := r.d.deleteByID(ctx, r.q, tableBooks, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrBookInUse
		}
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	if !ok {
		return domain.ErrBookNotFound
	}
	return nil
}

func bookRecord(b *domain.Book) goqu.Record {
	return goqu.Record{
		"title":            b.Title,
		"author":           b.Author,
		"published_year":   b.PublishedYear,
		"available_copies": b.AvailableCopies,
		"is_available":     b.IsAvailable,
	}
}
