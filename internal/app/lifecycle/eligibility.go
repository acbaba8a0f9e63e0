package lifecycle

import (
	"github.com/deniz/bookbridge/internal/app/models"
)

// Transferred reports whether the book has completed at least one full
// ownership change since its original listing. The rule is history length
// greater than one. Receipt confirmation resets the history to a single
// "Received" entry, so right after a transfer this evaluates false again and
// the receiving owner regains edit rights for the new cycle.
func Transferred(book *models.Book) bool {
	return len(book.History) > 1
}

// CanEdit reports whether the actor may patch the book's metadata:
// the original owner while the book never transferred, or an admin once it has.
func CanEdit(book *models.Book, actor Actor) bool {
	if Transferred(book) {
		return actor.IsAdmin()
	}
	return actor.UID == book.OwnerID
}

// CanDelete reports whether the actor may remove the listing entirely:
// an admin always, the original owner only while the book never transferred.
func CanDelete(book *models.Book, actor Actor) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.UID == book.OwnerID && !Transferred(book)
}

// StateOf derives the lifecycle state of a book from its waitlist. The state
// is never stored; it is recomputed from the document on every read.
func StateOf(book *models.Book) models.BookState {
	hasPending := false
	for _, r := range book.Waitlist {
		switch r.Status {
		case models.RequestStatusHandedOver:
			return models.BookStateHandedOver
		case models.RequestStatusApproved:
			return models.BookStateApproved
		case models.RequestStatusPending:
			hasPending = true
		}
	}
	if hasPending {
		return models.BookStateRequested
	}
	return models.BookStateAvailable
}
