package domain

// Book is a catalogue title with a count of loanable copies.
type Book struct {
	ID              int64  `json:"id" db:"id"`
	Title           string `json:"title" db:"title"`
	Author          string `json:"author" db:"author"`
	PublishedYear   *int   `json:"published_year" db:"published_year"`
	AvailableCopies int    `json:"available_copies" db:"available_copies"`
	IsAvailable     bool   `json:"is_available" db:"is_available"`
}

// DefaultCopies is used when a create request omits available_copies.
const DefaultCopies = 1

// SyncAvailability recomputes the derived is_available flag.
func (b *Book) SyncAvailability() {
	b.IsAvailable = b.AvailableCopies > 0
}

// CanLend reports whether at least one copy is on the shelf.
func (b *Book) CanLend() bool {
	return b.AvailableCopies > 0
}

// TakeCopy removes one copy from the shelf. Callers check CanLend first.
func (b *Book) TakeCopy() {
	b.AvailableCopies--
	if b.AvailableCopies == 0 {
		b.IsAvailable = false
	}
}
