package dto

import (
	"time"

	"github.com/deniz/bookbridge/internal/app/lifecycle"
	"github.com/deniz/bookbridge/internal/app/models"
)

// CreateBookRequest represents a new listing
type CreateBookRequest struct {
	Title      string  `json:"title" binding:"required"`
	Subject    string  `json:"subject" binding:"required"`
	ClassLevel string  `json:"classLevel" binding:"required"`
	Author     string  `json:"author"`
	Remark     string  `json:"remark"`
	Type       string  `json:"type" binding:"required,oneof=SHARING DONATION"`
	ImageURL   *string `json:"imageUrl"`
}

// UpdateBookRequest represents a metadata edit. Only the listed fields are
// editable; waitlist and history are never touched by an edit.
type UpdateBookRequest struct {
	Title      *string `json:"title"`
	Subject    *string `json:"subject"`
	Author     *string `json:"author"`
	ClassLevel *string `json:"classLevel"`
}

// BorrowRequestCreate represents a borrow request submission
type BorrowRequestCreate struct {
	Message string `json:"message" binding:"required"`
}

// BookFilterRequest represents book list filtering parameters
type BookFilterRequest struct {
	Subject    *string `form:"subject"`
	ClassLevel *string `form:"classLevel"`
	Type       *string `form:"type"`
	Search     *string `form:"search"`
	Page       int     `form:"page,default=1" binding:"min=1"`
	PageSize   int     `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// BookResponse represents one listing together with its derived lifecycle view
type BookResponse struct {
	ID           string                 `json:"id"`
	Title        string                 `json:"title"`
	Subject      string                 `json:"subject"`
	ClassLevel   string                 `json:"classLevel"`
	Author       string                 `json:"author"`
	Remark       string                 `json:"remark,omitempty"`
	Type         string                 `json:"type"`
	OwnerID      string                 `json:"ownerId"`
	CurrentOwner string                 `json:"currentOwner"`
	Contact      string                 `json:"contact,omitempty"`
	OwnerPrivacy bool                   `json:"ownerPrivacy"`
	Handover     string                 `json:"handoverStatus"`
	State        string                 `json:"state" example:"AVAILABLE"`
	Waitlist     []models.BorrowRequest `json:"waitlist"`
	History      []models.HistoryEvent  `json:"history"`
	ImageURL     *string                `json:"imageUrl,omitempty"`
	CanEdit      bool                   `json:"canEdit"`
	CanDelete    bool                   `json:"canDelete"`
	CreatedAt    time.Time              `json:"createdAt"`
}

// BookListResponse represents a page of listings
type BookListResponse struct {
	Books      []BookResponse `json:"books"`
	Pagination PaginationInfo `json:"pagination"`
}

// NotificationsResponse represents the pending-request view for the caller
type NotificationsResponse struct {
	Total int                      `json:"total"`
	Items []lifecycle.Notification `json:"items"`
}

// FromBook converts a models.Book to a BookResponse for the given viewer.
// A private contact number is masked for everyone but the owner and admins.
func FromBook(book *models.Book, viewer lifecycle.Actor) BookResponse {
	resp := BookResponse{
		ID:           book.ID.String(),
		Title:        book.Title,
		Subject:      book.Subject,
		ClassLevel:   book.ClassLevel,
		Author:       book.Author,
		Remark:       book.Remark,
		Type:         string(book.Type),
		OwnerID:      book.OwnerID.String(),
		CurrentOwner: book.CurrentOwner,
		Contact:      book.Contact,
		OwnerPrivacy: book.OwnerPrivacy,
		Handover:     book.Handover,
		State:        string(lifecycle.StateOf(book)),
		Waitlist:     book.Waitlist,
		History:      book.History,
		ImageURL:     book.ImageURL,
		CanEdit:      lifecycle.CanEdit(book, viewer),
		CanDelete:    lifecycle.CanDelete(book, viewer),
		CreatedAt:    book.CreatedAt,
	}

	if book.OwnerPrivacy && viewer.UID != book.OwnerID && !viewer.IsAdmin() {
		resp.Contact = ""
	}
	if resp.Waitlist == nil {
		resp.Waitlist = []models.BorrowRequest{}
	}
	if resp.History == nil {
		resp.History = []models.HistoryEvent{}
	}

	return resp
}
