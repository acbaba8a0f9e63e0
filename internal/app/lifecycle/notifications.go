package lifecycle

import (
	"github.com/google/uuid"

	"github.com/deniz/bookbridge/internal/app/models"
)

// Notification summarizes the pending requests waiting on one owned book.
type Notification struct {
	BookID    uuid.UUID `json:"bookId"`
	BookTitle string    `json:"bookTitle"`
	Pending   int       `json:"pending"`
}

// OwnedBy reports whether the book currently belongs to the user. Identifier
// match is authoritative; the name+mobile comparison is a fallback for legacy
// records whose denormalized owner snapshot predates stable identifiers.
func OwnedBy(book *models.Book, user *models.User) bool {
	if book.OwnerID == user.ID {
		return true
	}
	return book.CurrentOwner == user.Name && book.Contact == user.Phone
}

// PendingCount counts the waitlist entries still in pending for one book.
func PendingCount(book *models.Book) int {
	n := 0
	for _, r := range book.Waitlist {
		if r.Status == models.RequestStatusPending {
			n++
		}
	}
	return n
}

// PendingNotifications derives the notification view for a user: every owned
// book with at least one pending request, plus the total pending count. It is
// a read-only projection over the current snapshots and must be recomputed on
// every delivery, never patched incrementally.
func PendingNotifications(books []models.Book, user *models.User) (int, []Notification) {
	total := 0
	items := []Notification{}

	for i := range books {
		b := &books[i]
		if !OwnedBy(b, user) {
			continue
		}
		pending := PendingCount(b)
		if pending == 0 {
			continue
		}
		total += pending
		items = append(items, Notification{
			BookID:    b.ID,
			BookTitle: b.Title,
			Pending:   pending,
		})
	}

	return total, items
}
