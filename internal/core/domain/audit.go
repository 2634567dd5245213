package domain

import "time"

const (
	AuditBookBorrowed     = "book_borrowed"
	AuditMemberRegistered = "member_registered"
)

// AuditEvent is an append-only record of a completed state change.
type AuditEvent struct {
	Type       string
	MemberID   int64
	BookID     int64
	OccurredAt time.Time
	Detail     map[string]string
}
