package ports

import (
	"context"

	"github.com/bookkeep/library-records/internal/core/domain"
)

// BookRepository persists books.
type BookRepository interface {
	List(ctx context.Context) ([]domain.Book, error)
	// FindByID returns domain.ErrBookNotFound when no row matches.
	FindByID(ctx context.Context, id int64) (*domain.Book, error)
	// FindByIDForUpdate is FindByID with a row lock on dialects that support it.
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.Book, error)
	// Create inserts b and sets b.ID.
	Create(ctx context.Context, b *domain.Book) error
	Update(ctx context.Context, b *domain.Book) error
	Delete(ctx context.Context, id int64) error
}

// MemberRepository persists members.
type MemberRepository interface {
	List(ctx context.Context) ([]domain.Member, error)
	// FindByID returns domain.ErrMemberNotFound when no row matches.
	FindByID(ctx context.Context, id int64) (*domain.Member, error)
	FindByName(ctx context.Context, name string) (*domain.Member, error)
	// Create inserts m and sets m.ID. A duplicate email yields domain.ErrEmailTaken.
	Create(ctx context.Context, m *domain.Member) error
	Update(ctx context.Context, m *domain.Member) error
	Delete(ctx context.Context, id int64) error
}

// BorrowRepository persists borrow records.
type BorrowRepository interface {
	Create(ctx context.Context, r *domain.BorrowRecord) error
	CountByBook(ctx context.Context, bookID int64) (int64, error)
	CountByMember(ctx context.Context, memberID int64) (int64, error)
}

// Session is a scoped handle on the store. It owns one pooled connection
// until Close is called.
type Session interface {
	Books() BookRepository
	Members() MemberRepository
	Borrows() BorrowRepository
	// WithinTx runs fn in a transaction on this session. fn receives a
	// session bound to the transaction. A non-nil error rolls back.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Session) error) error
	Close() error
}

// Store hands out sessions.
type Store interface {
	Session(ctx context.Context) (Session, error)
}
