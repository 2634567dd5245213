package ports

import (
	"context"
	"time"

	"github.com/bookkeep/library-records/internal/core/domain"
)

// BookInput carries the mutable fields of a book.
type BookInput struct {
	Title           string
	Author          string
	PublishedYear   *int
	AvailableCopies *int // nil defaults to domain.DefaultCopies on create
}

type BookService interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
	GetBook(ctx context.Context, id int64) (*domain.Book, error)
	CreateBook(ctx context.Context, input BookInput) (*domain.Book, error)
	UpdateBook(ctx context.Context, id int64, input BookInput) error
	DeleteBook(ctx context.Context, id int64) error
}

// MemberInput carries the mutable fields of a member.
type MemberInput struct {
	Name       string
	Email      string
	JoinedDate *time.Time
}

type MemberService interface {
	ListMembers(ctx context.Context) ([]domain.Member, error)
	GetMember(ctx context.Context, id int64) (*domain.Member, error)
	CreateMember(ctx context.Context, input MemberInput) (*domain.Member, error)
	UpdateMember(ctx context.Context, id int64, input MemberInput) error
	DeleteMember(ctx context.Context, id int64) error
}
