package ports

import (
	"context"
	"time"

	"github.com/bookkeep/library-records/internal/core/domain"
)

// BorrowInput is the borrow request.
type BorrowInput struct {
	BookID         int64
	MemberID       int64
	IdempotencyKey string
}

// BorrowResult is the confirmation of a registered loan.
type BorrowResult struct {
	Message    string    `json:"message"`
	MemberName string    `json:"member"`
	BookTitle  string    `json:"book"`
	BorrowDate time.Time `json:"borrow_date"`
	// BookID and MemberID identify the request a cached result belongs to.
	BookID   int64 `json:"book_id"`
	MemberID int64 `json:"member_id"`
	// Replayed is true when the result came from the idempotency cache.
	Replayed bool `json:"-"`
}

type BorrowService interface {
	Borrow(ctx context.Context, input BorrowInput) (*BorrowResult, error)
}

// IdempotencyStore caches borrow results by client-supplied key. A key is
// bound to the book and member of the first successful request.
type IdempotencyStore interface {
	// Lookup returns (nil, nil) when the key is unknown.
	Lookup(ctx context.Context, key string) (*BorrowResult, error)
	Save(ctx context.Context, key string, result *BorrowResult) error
}

// AuditRepository appends audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
