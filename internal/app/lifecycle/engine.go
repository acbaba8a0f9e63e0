package lifecycle

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deniz/bookbridge/internal/app/models"
	"github.com/deniz/bookbridge/internal/pkg/apperrors"
)

// Actor identifies who is attempting a transition.
type Actor struct {
	UID  uuid.UUID
	Role models.RoleType
}

// IsAdmin reports whether the actor carries the admin role claim
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Outcome tags the result of a waitlist-targeting transition. A transition
// whose target entry is absent is a silent no-op, not an error; the caller
// decides whether to surface it.
type Outcome int

const (
	// OutcomeApplied means the transition changed the aggregate
	OutcomeApplied Outcome = iota
	// OutcomeNoMatch means no waitlist entry matched the target; aggregate unchanged
	OutcomeNoMatch
)

// ListingAttrs are the owner-supplied fields of a new listing.
type ListingAttrs struct {
	Title      string
	Subject    string
	ClassLevel string
	Author     string
	Remark     string
	Type       models.BookType
	ImageURL   *string
}

// MetadataPatch carries the editable metadata fields. Nil fields are left
// untouched; waitlist and history are never affected by an edit.
type MetadataPatch struct {
	Title      *string
	Subject    *string
	Author     *string
	ClassLevel *string
}

// NewListing builds a fresh Book aggregate for the given owner. The waitlist
// starts empty and the history starts with a single "Listed" entry. The store
// assigns ID and CreatedAt.
func NewListing(owner *models.User, attrs ListingAttrs, now time.Time) (models.Book, error) {
	if strings.TrimSpace(attrs.Title) == "" {
		return models.Book{}, apperrors.NewValidationError("title is required")
	}
	if attrs.Type != models.BookTypeSharing && attrs.Type != models.BookTypeDonation {
		return models.Book{}, apperrors.NewValidationError("type must be SHARING or DONATION")
	}

	return models.Book{
		Title:        attrs.Title,
		Subject:      attrs.Subject,
		ClassLevel:   attrs.ClassLevel,
		Author:       attrs.Author,
		Remark:       attrs.Remark,
		Type:         attrs.Type,
		OwnerID:      owner.ID,
		CurrentOwner: owner.Name,
		Contact:      owner.Phone,
		OwnerPrivacy: owner.IsContactPrivate,
		Handover:     models.HandoverStatusAvailable,
		Waitlist:     []models.BorrowRequest{},
		History: []models.HistoryEvent{
			{Owner: owner.Name, Date: models.FormatHistoryDate(now), Action: models.ActionListed},
		},
		ImageURL: attrs.ImageURL,
	}, nil
}

// SubmitRequest appends a pending borrow request for the actor. Owners cannot
// request their own book and the message must not be empty. A repeated request
// from the same user overwrites the previous entry for that uid, so at most
// one entry per uid exists on the waitlist.
func SubmitRequest(book models.Book, actor Actor, requester *models.User, message string) (models.Book, error) {
	if actor.UID == book.OwnerID {
		return book, apperrors.NewCustomError(apperrors.ErrValidationFailed, apperrors.ErrOwnBookRequest.Error())
	}
	if strings.TrimSpace(message) == "" {
		return book, apperrors.NewValidationError("borrow request message is required")
	}

	entry := models.BorrowRequest{
		UID:     requester.ID,
		Name:    requester.Name,
		Mobile:  requester.Phone,
		Message: message,
		Status:  models.RequestStatusPending,
	}

	next := make([]models.BorrowRequest, 0, len(book.Waitlist)+1)
	replaced := false
	for _, r := range book.Waitlist {
		if r.UID == requester.ID {
			next = append(next, entry)
			replaced = true
			continue
		}
		next = append(next, r)
	}
	if !replaced {
		next = append(next, entry)
	}

	book.Waitlist = next
	return book, nil
}

// Approve marks the pending request of targetUID as approved. Only the current
// owner or an admin may approve; every other waitlist entry stays untouched.
func Approve(book models.Book, actor Actor, targetUID uuid.UUID) (models.Book, Outcome, error) {
	return setRequestStatus(book, actor, targetUID, models.RequestStatusPending, models.RequestStatusApproved)
}

// Reject marks the pending request of targetUID as rejected. A rejected entry
// does not block the same user from submitting a fresh request.
func Reject(book models.Book, actor Actor, targetUID uuid.UUID) (models.Book, Outcome, error) {
	return setRequestStatus(book, actor, targetUID, models.RequestStatusPending, models.RequestStatusRejected)
}

// MarkHandedOver records that the owner physically handed the book to the
// approved requester. The entry moves from approved to handed_over.
func MarkHandedOver(book models.Book, actor Actor, targetUID uuid.UUID) (models.Book, Outcome, error) {
	return setRequestStatus(book, actor, targetUID, models.RequestStatusApproved, models.RequestStatusHandedOver)
}

// setRequestStatus recomputes the whole waitlist, replacing the single entry
// matching targetUID in the expected status. If no entry matches, the waitlist
// is returned unchanged with OutcomeNoMatch.
func setRequestStatus(book models.Book, actor Actor, targetUID uuid.UUID, from, to models.RequestStatus) (models.Book, Outcome, error) {
	if actor.UID != book.OwnerID && !actor.IsAdmin() {
		return book, OutcomeNoMatch, apperrors.NewForbiddenError("only the owner or an admin may manage requests")
	}

	next := make([]models.BorrowRequest, len(book.Waitlist))
	outcome := OutcomeNoMatch
	for i, r := range book.Waitlist {
		if r.UID == targetUID && r.Status == from {
			r.Status = to
			outcome = OutcomeApplied
		}
		next[i] = r
	}

	book.Waitlist = next
	return book, outcome, nil
}

// ConfirmReceipt finalizes an ownership transfer. Only the borrower whose
// request is in handed_over may confirm; the owner snapshot fields are
// refreshed from the receiver's profile, the waitlist is cleared and the
// history is reset to a single "Received" entry. A second invocation finds no
// handed_over entry and is a no-op, so the operation is idempotent.
//
// Any pending request from a different user is silently dropped with the
// waitlist at the moment of transfer. That behavior is kept on purpose.
func ConfirmReceipt(book models.Book, actor Actor, receiver *models.User, now time.Time) (models.Book, Outcome, error) {
	matched := false
	for _, r := range book.Waitlist {
		if r.Status == models.RequestStatusHandedOver && r.UID == actor.UID {
			matched = true
			break
		}
	}
	if !matched {
		return book, OutcomeNoMatch, nil
	}

	book.OwnerID = receiver.ID
	book.CurrentOwner = receiver.Name
	book.Contact = receiver.Phone
	book.OwnerPrivacy = receiver.IsContactPrivate
	book.Handover = models.HandoverStatusAvailable
	book.Waitlist = []models.BorrowRequest{}
	// TODO: confirm intended semantics - prior history entries are dropped on
	// every transfer, so only the latest "Received" entry survives.
	book.History = []models.HistoryEvent{
		{Owner: receiver.Name, Date: models.FormatHistoryDate(now), Action: models.ActionReceived},
	}

	return book, OutcomeApplied, nil
}

// EditMetadata patches the editable fields of a listing. Eligibility follows
// CanEdit: the original owner while the book never transferred, or an admin
// once it has.
func EditMetadata(book models.Book, actor Actor, patch MetadataPatch) (models.Book, error) {
	if !CanEdit(&book, actor) {
		return book, apperrors.NewForbiddenError("not allowed to edit this book")
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return book, apperrors.NewValidationError("title is required")
		}
		book.Title = *patch.Title
	}
	if patch.Subject != nil {
		book.Subject = *patch.Subject
	}
	if patch.Author != nil {
		book.Author = *patch.Author
	}
	if patch.ClassLevel != nil {
		book.ClassLevel = *patch.ClassLevel
	}

	return book, nil
}
