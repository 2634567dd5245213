package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bookkeep/library-records/internal/core/domain"
	"github.com/bookkeep/library-records/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub store. Transactions are serialised and roll back by
// restoring a snapshot taken when they began.
// ---------------------------------------------------------------------------

type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	books   map[int64]domain.Book
	members map[int64]domain.Member
	borrows []domain.BorrowRecord
	nextID  int64

	sessionErr  error // if set, Session returns this error
	updateErr   error // if set, Books().Update returns this error
	openCount   int
	closeCount  int
	bookLookups int
	lockLookups int
	memberReads int
}

func newMemStore() *memStore {
	return &memStore{
		books:   make(map[int64]domain.Book),
		members: make(map[int64]domain.Member),
	}
}

func (s *memStore) Session(context.Context) (ports.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionErr != nil {
		return nil, s.sessionErr
	}
	s.openCount++
	return &memSession{store: s}, nil
}

func (s *memStore) seedBook(b domain.Book) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	s.books[b.ID] = b
	return b.ID
}

func (s *memStore) seedMember(m domain.Member) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	m.ID = s.nextID
	s.members[m.ID] = m
	return m.ID
}

func (s *memStore) book(id int64) domain.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.books[id]
}

func (s *memStore) borrowCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.borrows)
}

type memSnapshot struct {
	books   map[int64]domain.Book
	members map[int64]domain.Member
	borrows []domain.BorrowRecord
	nextID  int64
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{
		books:   make(map[int64]domain.Book, len(s.books)),
		members: make(map[int64]domain.Member, len(s.members)),
		borrows: append([]domain.BorrowRecord(nil), s.borrows...),
		nextID:  s.nextID,
	}
	for k, v := range s.books {
		snap.books[k] = v
	}
	for k, v := range s.members {
		snap.members[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = snap.books
	s.members = snap.members
	s.borrows = snap.borrows
	s.nextID = snap.nextID
}

type memSession struct {
	store *memStore
	inTx  bool
}

func (s *memSession) Books() ports.BookRepository     { return memBooks{s.store} }
func (s *memSession) Members() ports.MemberRepository { return memMembers{s.store} }
func (s *memSession) Borrows() ports.BorrowRepository { return memBorrows{s.store} }

func (s *memSession) WithinTx(ctx context.Context, fn func(context.Context, ports.Session) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	s.store.txMu.Lock()
	defer s.store.txMu.Unlock()

	snap := s.store.snapshot()
	if err := fn(ctx, &memSession{store: s.store, inTx: true}); err != nil {
		s.store.restore(snap)
		return err
	}
	return nil
}

func (s *memSession) Close() error {
	if s.inTx {
		return nil
	}
	s.store.mu.Lock()
	s.store.closeCount++
	s.store.mu.Unlock()
	return nil
}

type memBooks struct{ s *memStore }

func (r memBooks) List(context.Context) ([]domain.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Book{}
	for id := int64(1); id <= r.s.nextID; id++ {
		if b, ok := r.s.books[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r memBooks) FindByID(_ context.Context, id int64) (*domain.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bookLookups++
	b, ok := r.s.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	return &b, nil
}

func (r memBooks) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Book, error) {
	r.s.mu.Lock()
	r.s.lockLookups++
	r.s.mu.Unlock()
	return r.FindByID(ctx, id)
}

func (r memBooks) Create(_ context.Context, b *domain.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextID++
	b.ID = r.s.nextID
	r.s.books[b.ID] = *b
	return nil
}

func (r memBooks) Update(_ context.Context, b *domain.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.updateErr != nil {
		return r.s.updateErr
	}
	if _, ok := r.s.books[b.ID]; !ok {
		return domain.ErrBookNotFound
	}
	r.s.books[b.ID] = *b
	return nil
}

func (r memBooks) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.books[id]; !ok {
		return domain.ErrBookNotFound
	}
	delete(r.s.books, id)
	return nil
}

type memMembers struct{ s *memStore }

func (r memMembers) List(context.Context) ([]domain.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Member{}
	for id := int64(1); id <= r.s.nextID; id++ {
		if m, ok := r.s.members[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r memMembers) FindByID(_ context.Context, id int64) (*domain.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.memberReads++
	m, ok := r.s.members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	return &m, nil
}

func (r memMembers) FindByName(_ context.Context, name string) (*domain.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id := int64(1); id <= r.s.nextID; id++ {
		if m, ok := r.s.members[id]; ok && m.Name == name {
			return &m, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (r memMembers) Create(_ context.Context, m *domain.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.members {
		if existing.Email == m.Email {
			return domain.ErrEmailTaken
		}
	}
	r.s.nextID++
	m.ID = r.s.nextID
	r.s.members[m.ID] = *m
	return nil
}

func (r memMembers) Update(_ context.Context, m *domain.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.members[m.ID]; !ok {
		return domain.ErrMemberNotFound
	}
	for id, existing := range r.s.members {
		if id != m.ID && existing.Email == m.Email {
			return domain.ErrEmailTaken
		}
	}
	r.s.members[m.ID] = *m
	return nil
}

func (r memMembers) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.members[id]; !ok {
		return domain.ErrMemberNotFound
	}
	delete(r.s.members, id)
	return nil
}

type memBorrows struct{ s *memStore }

func (r memBorrows) Create(_ context.Context, rec *domain.BorrowRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextID++
	rec.ID = r.s.nextID
	r.s.borrows = append(r.s.borrows, *rec)
	return nil
}

func (r memBorrows) CountByBook(_ context.Context, bookID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, b := range r.s.borrows {
		if b.BookID == bookID {
			n++
		}
	}
	return n, nil
}

func (r memBorrows) CountByMember(_ context.Context, memberID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, b := range r.s.borrows {
		if b.MemberID == memberID {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Other stubs
// ---------------------------------------------------------------------------

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock(t time.Time) *fixedClock { return &fixedClock{now: t} }

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type stubIdempotency struct {
	mu        sync.Mutex
	results   map[string]ports.BorrowResult
	lookupErr error
	saveErr   error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{results: make(map[string]ports.BorrowResult)}
}

func (s *stubIdempotency) Lookup(_ context.Context, key string) (*ports.BorrowResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	r, ok := s.results[key]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *stubIdempotency) Save(_ context.Context, key string, r *ports.BorrowResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.results[key] = *r
	return nil
}

type stubAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	err    error
}

func (a *stubAudit) Insert(_ context.Context, e *domain.AuditEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.events = append(a.events, *e)
	return nil
}

func (a *stubAudit) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.events)
}

var errStoreDown = errors.New("store unavailable")

func intPtr(v int) *int { return &v }
