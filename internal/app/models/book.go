package models

import (
	"time"

	"github.com/google/uuid"
)

// Book is the aggregate root of the lifecycle engine. Waitlist and history are
// embedded in the document (JSONB columns, not separate tables) so that every
// lifecycle transition is a single whole-document write.
type Book struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Title        string          `json:"title" db:"title" example:"Mathematics 9"`
	Subject      string          `json:"subject" db:"subject" example:"Mathematics"`
	ClassLevel   string          `json:"classLevel" db:"class_level" example:"9"`
	Author       string          `json:"author" db:"author"`
	Remark       string          `json:"remark,omitempty" db:"remark"`
	Type         BookType        `json:"type" db:"book_type" example:"SHARING"`
	OwnerID      uuid.UUID       `json:"ownerId" db:"owner_id"`
	CurrentOwner string          `json:"currentOwner" db:"current_owner"` // owner display name, snapshot at transfer time
	Contact      string          `json:"contact" db:"contact"`            // owner display phone, snapshot at transfer time
	OwnerPrivacy bool            `json:"ownerPrivacy" db:"owner_privacy"`
	Handover     string          `json:"handoverStatus" db:"handover_status"`
	Waitlist     []BorrowRequest `json:"waitlist" db:"waitlist"`
	History      []HistoryEvent  `json:"history" db:"history"`
	ImageURL     *string         `json:"imageUrl,omitempty" db:"image_url"` // inline base64 payload or absent
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
}

// BorrowRequest is one waitlist entry: a single borrower's claim on the book.
// Insertion order is arrival order and is kept as FIFO display order.
type BorrowRequest struct {
	UID     uuid.UUID     `json:"uid"`
	Name    string        `json:"name"`
	Mobile  string        `json:"mobile"`
	Message string        `json:"message"`
	Status  RequestStatus `json:"status"`
}

// HistoryEvent is an immutable audit entry; never edited after append.
type HistoryEvent struct {
	Owner  string `json:"owner"`
	Date   string `json:"date"` // display-formatted timestamp
	Action string `json:"action" example:"Listed"`
}

// HistoryDateFormat is the display format used for history event timestamps.
const HistoryDateFormat = "02 Jan 2006 15:04"

// FormatHistoryDate renders a timestamp the way history entries display it.
func FormatHistoryDate(t time.Time) string {
	return t.Format(HistoryDateFormat)
}
