package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bookkeep/library-records/internal/core/domain"
	"github.com/bookkeep/library-records/internal/core/ports"
)

// BookService implements catalogue CRUD.
type BookService struct {
	store  ports.Store
	logger zerolog.Logger
}

func NewBookService(store ports.Store, logger zerolog.Logger) *BookService {
	return &BookService{store: store, logger: logger}
}

func (s *BookService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	sess, err := s.store.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer closeSession(sess, s.logger)

	return sess.Books().List(ctx)
}

func (s *BookService) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	sess, err := s.store.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	defer closeSession(sess, s.logger)

	return sess.Books().FindByID(ctx, id)
}

func (s *BookService) CreateBook(ctx context.Context, input ports.BookInput) (*domain.Book, error) {
	sess, err := s.store.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	defer closeSession(sess, s.logger)

	book := &domain.Book{}
	applyBookInput(book, input)

	if err := sess.Books().Create(ctx, book); err != nil {
		s.logger.Error().Err(err).Msg("failed to create book")
		return nil, err
	}

	s.logger.Info().Int64("book_id", book.ID).Str("title", book.Title).Msg("book created")
	return book, nil
}

// UpdateBook replaces every mutable field of the book.
func (s *BookService) UpdateBook(ctx context.Context, id int64, input ports.BookInput) error {
	sess, err := s.store.Session(ctx)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	defer closeSession(sess, s.logger)

	return sess.WithinTx(ctx, func(ctx context.Context, tx ports.Session) error {
		book, err := tx.Books().FindByID(ctx, id)
		if err != nil {
			return err
		}
		applyBookInput(book, input)
		return tx.Books().Update(ctx, book)
	})
}

// DeleteBook refuses to remove a book that borrow records still point at.
func (s *BookService) DeleteBook(ctx context.Context, id int64) error {
	sess, err := s.store.Session(ctx)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	defer closeSession(sess, s.logger)

	err = sess.WithinTx(ctx, func(ctx context.Context, tx ports.Session) error {
		if _, err := tx.Books().FindByID(ctx, id); err != nil {
			return err
		}
		n, err := tx.Borrows().CountByBook(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrBookInUse
		}
		return tx.Books().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("book_id", id).Msg("book deleted")
	return nil
}

func applyBookInput(b *domain.Book, in ports.BookInput) {
	b.Title = in.Title
	b.Author = in.Author
	b.PublishedYear = in.PublishedYear
	b.AvailableCopies = domain.DefaultCopies
	if in.AvailableCopies != nil {
		b.AvailableCopies = *in.AvailableCopies
	}
	b.SyncAvailability()
}
