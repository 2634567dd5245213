package domain

import "time"

// BorrowRecord links one member to one book at a point in time.
//
// ReturnDate and IsReturned are persisted but nothing writes them after
// creation: there is no return operation.
type BorrowRecord struct {
	ID         int64      `json:"id" db:"id"`
	MemberID   int64      `json:"member_id" db:"member_id"`
	BookID     int64      `json:"book_id" db:"book_id"`
	BorrowDate time.Time  `json:"borrow_date" db:"borrow_date"`
	ReturnDate *time.Time `json:"return_date" db:"return_date"`
	IsReturned bool       `json:"is_returned" db:"is_returned"`
}

// NewBorrowRecord builds an open loan starting at now.
func NewBorrowRecord(memberID, bookID int64, now time.Time) *BorrowRecord {
	return &BorrowRecord{
		MemberID:   memberID,
		BookID:     bookID,
		BorrowDate: now,
	}
}
