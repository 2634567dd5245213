package sqlstore

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/bookkeep/library-records/internal/core/domain"
)

type borrowRepository struct {
	q querier
	d *Store
}

func (r *borrowRepository) Create(ctx context.Context, rec *domain.BorrowRecord) error {
	id, err := r.d.insert(ctx, r.q, tableBorrows, goqu.Record{
		"member_id":   rec.MemberID,
		"book_id":     rec.BookID,
		"borrow_date": rec.BorrowDate.UTC(),
		"return_date": rec.ReturnDate,
		"is_returned": rec.IsReturned,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("borrow record references a missing book or member: %w", err)
		}
		return fmt.Errorf("insert borrow record: %w", err)
	}
	rec.ID = id
	return nil
}

func (r *borrowRepository) CountByBook(ctx context.Context, bookID int64) (int64, error) {
	n, err := r.d.count(ctx, r.q, tableBorrows, goqu.Ex{"book_id": bookID})
	if err != nil {
		return 0, fmt.Errorf("count borrows for book %d: %w", bookID, err)
	}
	return n, nil
}

func (r *borrowRepository) CountByMember(ctx context.Context, memberID int64) (int64, error) {
	n, err := r.d.count(ctx, r.q, tableBorrows, goqu.Ex{"member_id": memberID})
	if err != nil {
		return 0, fmt.Errorf("count borrows for member %d: %w", memberID, err)
	}
	return n, nil
}
