package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bookkeep/library-records/internal/core/domain"
	"github.com/bookkeep/library-records/internal/core/ports"
)

const borrowConfirmation = "Book borrowed successfully"

// BorrowService registers loans.
//
// Without row locking two concurrent borrows of a book's last copy can both
// pass the availability check; enable WithRowLock to serialise them on the
// book row.
type BorrowService struct {
	store   ports.Store
	idem    ports.IdempotencyStore
	audit   ports.AuditRepository
	clock   Clock
	rowLock bool
	logger  zerolog.Logger
}

// BorrowOption customises a BorrowService.
type BorrowOption func(*BorrowService)

func WithBorrowClock(c Clock) BorrowOption {
	return func(s *BorrowService) { s.clock = c }
}

// WithRowLock reads the book with SELECT ... FOR UPDATE inside the borrow
// transaction.
func WithRowLock(enabled bool) BorrowOption {
	return func(s *BorrowService) { s.rowLock = enabled }
}

func WithIdempotency(store ports.IdempotencyStore) BorrowOption {
	return func(s *BorrowService) {
		if store != nil {
			s.idem = store
		}
	}
}

func WithBorrowAudit(a ports.AuditRepository) BorrowOption {
	return func(s *BorrowService) {
		if a != nil {
			s.audit = a
		}
	}
}

func NewBorrowService(store ports.Store, logger zerolog.Logger, opts ...BorrowOption) *BorrowService {
	s := &BorrowService{
		store:  store,
		idem:   nopIdempotency{},
		audit:  nopAudit{},
		clock:  realClock{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Borrow lends one copy of a book to a member. The checks run in order (book
// exists, a copy is available, member exists) and the record insert and the
// copy decrement commit together or not at all.
func (s *BorrowService) Borrow(ctx context.Context, in ports.BorrowInput) (*ports.BorrowResult, error) {
	if in.IdempotencyKey != "" {
		cached, err := s.idem.Lookup(ctx, in.IdempotencyKey)
		if err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("idempotency lookup failed, processing anyway")
		} else if cached != nil {
			if cached.BookID != in.BookID || cached.MemberID != in.MemberID {
				s.logger.Warn().
					Str("idempotency_key", in.IdempotencyKey).
					Int64("book_id", in.BookID).
					Int64("cached_book_id", cached.BookID).
					Msg("idempotency key reused for a different borrow")
				return nil, fmt.Errorf("borrow book %d: %w", in.BookID, domain.ErrIdempotencyKeyReused)
			}
			s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Msg("idempotent replay")
			cached.Replayed = true
			return cached, nil
		}
	}

	sess, err := s.store.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("borrow: %w", err)
	}
	defer closeSession(sess, s.logger)

	var (
		result *ports.BorrowResult
		record *domain.BorrowRecord
	)
	err = sess.WithinTx(ctx, func(ctx context.Context, tx ports.Session) error {
		book, err := s.findBook(ctx, tx, in.BookID)
		if err != nil {
			return err
		}
		if !book.CanLend() {
			return domain.ErrNoCopiesAvailable
		}

		member, err := tx.Members().FindByID(ctx, in.MemberID)
		if err != nil {
			return err
		}

		record = domain.NewBorrowRecord(member.ID, book.ID, s.clock.Now())
		if err := tx.Borrows().Create(ctx, record); err != nil {
			return fmt.Errorf("insert borrow record: %w", err)
		}

		book.TakeCopy()
		if err := tx.Books().Update(ctx, book); err != nil {
			return fmt.Errorf("decrement copies: %w", err)
		}

		result = &ports.BorrowResult{
			Message:    borrowConfirmation,
			MemberName: member.Name,
			BookTitle:  book.Title,
			BorrowDate: record.BorrowDate,
			BookID:     book.ID,
			MemberID:   member.ID,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("borrow book %d: %w", in.BookID, err)
	}

	if in.IdempotencyKey != "" {
		if err := s.idem.Save(ctx, in.IdempotencyKey, result); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	event := &domain.AuditEvent{
		Type:       domain.AuditBookBorrowed,
		MemberID:   record.MemberID,
		BookID:     record.BookID,
		OccurredAt: record.BorrowDate,
		Detail:     map[string]string{"borrow_record_id": fmt.Sprint(record.ID)},
	}
	if err := s.audit.Insert(ctx, event); err != nil {
		s.logger.Warn().Err(err).Int64("borrow_record_id", record.ID).Msg("failed to insert audit event")
	}

	s.logger.Info().
		Int64("borrow_record_id", record.ID).
		Int64("book_id", record.BookID).
		Int64("member_id", record.MemberID).
		Msg("book borrowed")

	return result, nil
}

func (s *BorrowService) findBook(ctx context.Context, tx ports.Session, id int64) (*domain.Book, error) {
	if s.rowLock {
		return tx.Books().FindByIDForUpdate(ctx, id)
	}
	return tx.Books().FindByID(ctx, id)
}
