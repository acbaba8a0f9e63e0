package models

// BookType distinguishes how a listing changes hands
type BookType string

const (
	// BookTypeSharing means the book is lent and eventually passed on
	BookTypeSharing BookType = "SHARING"
	// BookTypeDonation means the book is given away permanently
	BookTypeDonation BookType = "DONATION"
)

// RequestStatus is the status of a single waitlist entry
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusApproved   RequestStatus = "approved"
	RequestStatusRejected   RequestStatus = "rejected"
	RequestStatusHandedOver RequestStatus = "handed_over"
)

// Active reports whether the request still blocks a fresh request from the same user
func (s RequestStatus) Active() bool {
	return s == RequestStatusPending || s == RequestStatusApproved || s == RequestStatusHandedOver
}

// RoleType defines user roles
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleAdmin   RoleType = "ADMIN"
)

// HandoverStatusAvailable is the stored handover status of a book with no transfer in flight.
// While a waitlist entry is approved or handed over the book is implicitly "in transfer";
// the derived BookState captures that, the stored field stays "available" until reset on receipt.
const HandoverStatusAvailable = "available"

// BookState is the derived lifecycle state of a book, computed from its waitlist
type BookState string

const (
	BookStateAvailable  BookState = "AVAILABLE"
	BookStateRequested  BookState = "REQUESTED"
	BookStateApproved   BookState = "APPROVED"
	BookStateHandedOver BookState = "HANDED_OVER"
)

// History action labels
const (
	ActionListed   = "Listed"
	ActionReceived = "Received"
)
