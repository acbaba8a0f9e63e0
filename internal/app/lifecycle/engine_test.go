package lifecycle_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/bookbridge/internal/app/lifecycle"
	"github.com/deniz/bookbridge/internal/app/models"
	"github.com/deniz/bookbridge/internal/pkg/apperrors"
)

func givenUser(name, phone string) *models.User {
	return &models.User{
		ID:           uuid.New(),
		Phone:        phone,
		Name:         name,
		StudentClass: "9-A",
		Role:         models.RoleStudent,
	}
}

func givenListedBook(t *testing.T, owner *models.User) models.Book {
	t.Helper()

	book, err := lifecycle.NewListing(owner, lifecycle.ListingAttrs{
		Title:      "Mathematics 9",
		Subject:    "Mathematics",
		ClassLevel: "9",
		Author:     "K. Arslan",
		Type:       models.BookTypeSharing,
	}, time.Now())
	require.NoError(t, err)

	book.ID = uuid.New()
	book.CreatedAt = time.Now()

	return book
}

func asActor(u *models.User) lifecycle.Actor {
	return lifecycle.Actor{UID: u.ID, Role: u.Role}
}

func Test_NewListing_StartsWithEmptyWaitlistAndListedHistory(t *testing.T) {
	// arrange
	owner := givenUser("Ali Kaya", "5550000001")

	// act
	book, err := lifecycle.NewListing(owner, lifecycle.ListingAttrs{
		Title: "Physics 10",
		Type:  models.BookTypeDonation,
	}, time.Now())

	// assert
	require.NoError(t, err)
	assert.Empty(t, book.Waitlist)
	require.Len(t, book.History, 1)
	assert.Equal(t, models.ActionListed, book.History[0].Action)
	assert.Equal(t, owner.Name, book.History[0].Owner)
	assert.Equal(t, owner.ID, book.OwnerID)
	assert.Equal(t, owner.Phone, book.Contact)
	assert.Equal(t, models.HandoverStatusAvailable, book.Handover)
}

func Test_NewListing_RejectsEmptyTitle(t *testing.T) {
	owner := givenUser("Ali Kaya", "5550000001")

	_, err := lifecycle.NewListing(owner, lifecycle.ListingAttrs{
		Title: "   ",
		Type:  models.BookTypeSharing,
	}, time.Now())

	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func Test_SubmitRequest_AppendsPendingEntry(t *testing.T) {
	// arrange
	owner := givenUser("Ali Kaya", "5550000001")
	borrower := givenUser("Ayşe Demir", "5550000002")
	book := givenListedBook(t, owner)

	// act
	next, err := lifecycle.SubmitRequest(book, asActor(borrower), borrower, "need for exam")

	// assert
	require.NoError(t, err)
	require.Len(t, next.Waitlist, 1)
	assert.Equal(t, borrower.ID, next.Waitlist[0].UID)
	assert.Equal(t, models.RequestStatusPending, next.Waitlist[0].Status)
	assert.Equal(t, "need for exam", next.Waitlist[0].Message)
	assert.Empty(t, book.Waitlist, "input aggregate must stay unchanged")
}

func Test_SubmitRequest_RejectsOwnBook(t *testing.T) {
	owner := givenUser("Ali Kaya", "5550000001")
	book := givenListedBook(t, owner)

	_, err := lifecycle.SubmitRequest(book, asActor(owner), owner, "mine again")

	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func Test_SubmitRequest_RejectsEmptyMessage(t *testing.T) {
	owner := givenUser("Ali Kaya", "5550000001")
	borrower := givenUser("Ayşe Demir", "5550000002")
	book := givenListedBook(t, owner)

	_, err := lifecycle.SubmitRequest(book, asActor(borrower), borrower, "  ")

	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func Test_SubmitRequest_SameUserOverwritesPreviousEntry(t *testing.T) {
	// arrange
	owner := givenUser("Ali Kaya", "5550000001")
	borrower := givenUser("Ayşe Demir", "5550000002")
	book := givenListedBook(t, owner)

	book, err := lifecycle.SubmitRequest(book, asActor(borrower), borrower, "first try")
	require.NoError(t, err)
	book, _, err = lifecycle.Reject(book, asActor(owner), borrower.ID)
	require.NoError(t, err)

	// act - a rejected request does not block a fresh one
	next, err := lifecycle.SubmitRequest(book, asActor(borrower), borrower, "second try")

	// assert
	require.NoError(t, err)
	require.Len(t, next.Waitlist, 1)
	assert.Equal(t, models.RequestStatusPending, next.Waitlist[0].Status)
	assert.Equal(t, "second try", next.Waitlist[0].Message)
}

func Test_Approve_LeavesOtherRequestsUntouched(t *testing.T) {
	// arrange
	owner := givenUser("Ali Kaya", "5550000001")
	x := givenUser("Ayşe Demir", "5550000002")
	y := givenUser("Mehmet Can", "5550000003")
	book := givenListedBook(t, owner)

	book, err := lifecycle.SubmitRequest(book, asActor(x), x, "need for exam")
	require.NoError(t, err)
	book, err = lifecycle.SubmitRequest(book, asActor(y), y, "me too")
	require.NoError(t, err)

	// act
	next, outcome, err := lifecycle.Approve(book, asActor(owner), x.ID)

	// assert
	require.NoError(t, err)
	assert.Equal(t, lifecycle.OutcomeApplied, outcome)
	require.Len(t, next.Waitlist, 2)
	assert.Equal(t, models.RequestStatusApproved, next.Waitlist[0].Status)
	assert.Equal(t, models.RequestStatusPending, next.Waitlist[1].Status)
}

func Test_Approve_RequiresOwnerOrAdmin(t *testing.T) {
	owner := givenUser("Ali Kaya", "5550000001")
	x := givenUser("Ayşe Demir", "5550000002")
	book := givenListedBook(t, owner)
	book, err := lifecycle.SubmitRequest(book, asActor(x), x, "need it")
	require.NoError(t, err)

	_, _, err = lifecycle.Approve(book, asActor(x), x.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	admin := givenUser("Admin", "5559999999")
	admin.Role = models.RoleAdmin
	_, outcome, err := lifecycle.Approve(book, asActor(admin), x.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.OutcomeApplied, outcome)
}

func Test_Approve_MissingTargetIsSilentNoOp(t *testing.T) {
	// arrange
	owner := givenUser("Ali Kaya", "5550000001")
	x := givenUser("Ayşe Demir", "5550000002")
	book := givenListedBook(t, owner)
	book, err := lifecycle.SubmitRequest(book, asActor(x), x, "need it")
	require.NoError(t, err)

	// act - target uid not on the waitlist
	next, outcome, err := lifecycle.Approve(book, asActor(owner), uuid.New())

	// assert
	require.NoError(t, err)
	assert.Equal(t, lifecycle.OutcomeNoMatch, outcome)
	assert.Equal(t, book.Waitlist, next.Waitlist)
}

func Test_MarkHandedOver_RequiresApprovedStatus(t *testing.T) {
	owner := givenUser("Ali Kaya", "5550000001")
	x := givenUser("Ayşe Demir", "5550000002")
	book := givenListedBook(t, owner)
	book, err := lifecycle.SubmitRequest(book, asActor(x), x, "need it")
	require.NoError(t, err)

	// still pending - handover finds no approved entry
	_, outcome, err := lifecycle.MarkHandedOver(book, asActor(owner), x.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.OutcomeNoMatch, outcome)
}

func Test_ConfirmReceipt_TransfersOwnershipAndResetsHistory(t *testing.T) {
	// arrange - full cycle: listed, requested, approved, handed over
	owner := givenUser("Ali Kaya", "5550000001")
	x := givenUser("Ayşe Demir", "5550000002")
	book := givenListedBook(t, owner)

	book, err := lifecycle.SubmitRequest(book, asActor(x), x, "need for exam")
	require.NoError(t, err)
	book, _, err = lifecycle.Approve(book, asActor(owner), x.ID)
	require.NoError(t, err)
	book, _, err = lifecycle.MarkHandedOver(book, asActor(owner), x.ID)
	require.NoError(t, err)

	// act
	next, outcome, err := lifecycle.ConfirmReceipt(book, asActor(x), x, time.Now())

	// assert
	require.NoError(t, err)
	assert.Equal(t, lifecycle.OutcomeApplied, outcome)
	assert.Equal(t, x.ID, next.OwnerID)
	assert.Equal(t, x.Name, next.CurrentOwner)
	assert.Equal(t, x.Phone, next.Contact)
	assert.Equal(t, models.HandoverStatusAvailable, next.Handover)
	assert.Empty(t, next.Waitlist)
	require.Len(t, next.History, 1)
	assert.Equal(t, models.ActionReceived, next.History[0].Action)
	assert.Equal(t, x.Name, next.History[0].Owner)
}

func Test_ConfirmReceipt_SecondInvocationIsNoOp(t *testing.T) {
	// arrange
	owner := givenUser("Ali Kaya", "5550000001")
	x := givenUser("Ayşe Demir", "5550000002")
	book := givenListedBook(t, owner)
	book, err := lifecycle.SubmitRequest(book, asActor(x), x, "need it")
	require.NoError(t, err)
	book, _, err = lifecycle.Approve(book, asActor(owner), x.ID)
	require.NoError(t, err)
	book, _, err = lifecycle.MarkHandedOver(book, asActor(owner), x.ID)
	require.NoError(t, err)

	book, outcome, err := lifecycle.ConfirmReceipt(book, asActor(x), x, time.Now())
	require.NoError(t, err)
	require.Equal(t, lifecycle.OutcomeApplied, outcome)

	// act - waitlist is already empty, nothing to confirm
	next, outcome, err := lifecycle.ConfirmReceipt(book, asActor(x), x, time.Now())

	// assert
	require.NoError(t, err)
	assert.Equal(t, lifecycle.OutcomeNoMatch, outcome)
	assert.Equal(t, book, next)
}

func Test_ConfirmReceipt_OnlyTheHandedOverBorrowerMayConfirm(t *testing.T) {
	owner := givenUser("Ali Kaya", "5550000001")
	x := givenUser("Ayşe Demir", "5550000002")
	y := givenUser("Mehmet Can", "5550000003")
	book := givenListedBook(t, owner)
	book, err := lifecycle.SubmitRequest(book, asActor(x), x, "need it")
	require.NoError(t, err)
	book, _, err = lifecycle.Approve(book, asActor(owner), x.ID)
	require.NoError(t, err)
	book, _, err = lifecycle.MarkHandedOver(book, asActor(owner), x.ID)
	require.NoError(t, err)

	_, outcome, err := lifecycle.ConfirmReceipt(book, asActor(y), y, time.Now())

	require.NoError(t, err)
	assert.Equal(t, lifecycle.OutcomeNoMatch, outcome)
}

func Test_ConfirmReceipt_DropsPendingRequestsFromOtherUsers(t *testing.T) {
	// arrange - Y still pending at the moment of transfer
	owner := givenUser("Ali Kaya", "5550000001")
	x := givenUser("Ayşe Demir", "5550000002")
	y := givenUser("Mehmet Can", "5550000003")
	book := givenListedBook(t, owner)
	book, err := lifecycle.SubmitRequest(book, asActor(x), x, "need it")
	require.NoError(t, err)
	book, err = lifecycle.SubmitRequest(book, asActor(y), y, "me too")
	require.NoError(t, err)
	book, _, err = lifecycle.Approve(book, asActor(owner), x.ID)
	require.NoError(t, err)
	book, _, err = lifecycle.MarkHandedOver(book, asActor(owner), x.ID)
	require.NoError(t, err)

	// act
	next, _, err := lifecycle.ConfirmReceipt(book, asActor(x), x, time.Now())

	// assert - Y's request is gone, neither rejected nor carried over
	require.NoError(t, err)
	assert.Empty(t, next.Waitlist)
}

func Test_EditMetadata_PatchesOnlyMetadataFields(t *testing.T) {
	// arrange
	owner := givenUser("Ali Kaya", "5550000001")
	x := givenUser("Ayşe Demir", "5550000002")
	book := givenListedBook(t, owner)
	book, err := lifecycle.SubmitRequest(book, asActor(x), x, "need it")
	require.NoError(t, err)

	title := "Mathematics 9 (2nd ed.)"
	subject := "Maths"

	// act
	next, err := lifecycle.EditMetadata(book, asActor(owner), lifecycle.MetadataPatch{
		Title:   &title,
		Subject: &subject,
	})

	// assert
	require.NoError(t, err)
	assert.Equal(t, title, next.Title)
	assert.Equal(t, subject, next.Subject)
	assert.Equal(t, book.Waitlist, next.Waitlist, "edit must not touch the waitlist")
	assert.Equal(t, book.History, next.History, "edit must not touch the history")
}

func Test_EditMetadata_RejectsNonOwner(t *testing.T) {
	owner := givenUser("Ali Kaya", "5550000001")
	stranger := givenUser("Ayşe Demir", "5550000002")
	book := givenListedBook(t, owner)

	title := "hijacked"
	_, err := lifecycle.EditMetadata(book, asActor(stranger), lifecycle.MetadataPatch{Title: &title})

	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func Test_FullLendingScenario(t *testing.T) {
	// The walkthrough: B listed by O, X requests, O approves, O hands over,
	// X confirms receipt and becomes the owner of a fresh cycle.
	owner := givenUser("Ali Kaya", "5550000001")
	x := givenUser("Ayşe Demir", "5550000002")
	book := givenListedBook(t, owner)

	require.Len(t, book.History, 1)
	require.Equal(t, models.ActionListed, book.History[0].Action)
	require.Empty(t, book.Waitlist)
	assert.Equal(t, models.BookStateAvailable, lifecycle.StateOf(&book))

	book, err := lifecycle.SubmitRequest(book, asActor(x), x, "need for exam")
	require.NoError(t, err)
	assert.Equal(t, models.BookStateRequested, lifecycle.StateOf(&book))

	book, _, err = lifecycle.Approve(book, asActor(owner), x.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookStateApproved, lifecycle.StateOf(&book))

	book, _, err = lifecycle.MarkHandedOver(book, asActor(owner), x.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookStateHandedOver, lifecycle.StateOf(&book))

	book, outcome, err := lifecycle.ConfirmReceipt(book, asActor(x), x, time.Now())
	require.NoError(t, err)
	assert.Equal(t, lifecycle.OutcomeApplied, outcome)
	assert.Equal(t, x.ID, book.OwnerID)
	assert.Empty(t, book.Waitlist)
	require.Len(t, book.History, 1)
	assert.Equal(t, models.ActionReceived, book.History[0].Action)
	assert.Equal(t, models.BookStateAvailable, lifecycle.StateOf(&book))
}
