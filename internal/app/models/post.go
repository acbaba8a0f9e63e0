package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is one entry of the community board. The feed is append-only: posts are
// never edited, and only admin tooling removes them.
type Post struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Author    string    `json:"author" db:"author"`
	Class     string    `json:"class" db:"class"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"timestamp" db:"created_at"`
}
