package models

import (
	"time"

	"github.com/google/uuid"
)

// Report is a complaint filed by a user against a book listing. Filing a report
// never mutates the book; resolution either dismisses the report or deletes the
// book along with it.
type Report struct {
	ID            uuid.UUID `json:"id" db:"id"`
	BookID        uuid.UUID `json:"bookId" db:"book_id"`
	BookTitle     string    `json:"bookTitle" db:"book_title"`
	BookOwner     string    `json:"bookOwner" db:"book_owner"`
	ReporterUID   uuid.UUID `json:"reporterUid" db:"reporter_uid"`
	ReporterName  string    `json:"reporterName" db:"reporter_name"`
	ReporterClass string    `json:"reporterClass" db:"reporter_class"`
	Reason        string    `json:"reason" db:"reason"`
	CreatedAt     time.Time `json:"timestamp" db:"created_at"`
}
