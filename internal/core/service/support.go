package service

import (
	"context"
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"github.com/bookkeep/library-records/internal/core/domain"
	"github.com/bookkeep/library-records/internal/core/ports"
)

// Clock abstracts wall time so tests can pin it.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// IDGen produces unique identifiers for issued tokens.
type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

type nopAudit struct{}

func (nopAudit) Insert(context.Context, *domain.AuditEvent) error { return nil }

type nopIdempotency struct{}

func (nopIdempotency) Lookup(context.Context, string) (*ports.BorrowResult, error) { return nil, nil }
func (nopIdempotency) Save(context.Context, string, *ports.BorrowResult) error     { return nil }

// normalizeName folds equivalent Unicode spellings of a member name together
// so that login-by-name matches what registration stored.
func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

func closeSession(sess ports.Session, log zerolog.Logger) {
	if err := sess.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to release store session")
	}
}
