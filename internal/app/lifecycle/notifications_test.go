package lifecycle_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/bookbridge/internal/app/lifecycle"
	"github.com/deniz/bookbridge/internal/app/models"
)

func Test_PendingNotifications_SumsPendingEntriesAcrossOwnedBooks(t *testing.T) {
	// arrange
	owner := givenUser("Ali Kaya", "5550000001")
	x := givenUser("Ayşe Demir", "5550000002")
	y := givenUser("Mehmet Can", "5550000003")

	bookA := givenListedBook(t, owner)
	bookA, err := lifecycle.SubmitRequest(bookA, asActor(x), x, "need it")
	require.NoError(t, err)
	bookA, err = lifecycle.SubmitRequest(bookA, asActor(y), y, "me too")
	require.NoError(t, err)

	bookB := givenListedBook(t, owner)
	bookB, err = lifecycle.SubmitRequest(bookB, asActor(x), x, "this one too")
	require.NoError(t, err)

	notOwned := givenListedBook(t, x)

	// act
	total, items := lifecycle.PendingNotifications([]models.Book{bookA, bookB, notOwned}, owner)

	// assert
	assert.Equal(t, 3, total)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Pending)
	assert.Equal(t, 1, items[1].Pending)
}

func Test_PendingNotifications_ApprovedEntriesNoLongerCount(t *testing.T) {
	// arrange - X and Y pending on the same book
	owner := givenUser("Ali Kaya", "5550000001")
	x := givenUser("Ayşe Demir", "5550000002")
	y := givenUser("Mehmet Can", "5550000003")

	book := givenListedBook(t, owner)
	book, err := lifecycle.SubmitRequest(book, asActor(x), x, "need it")
	require.NoError(t, err)
	book, err = lifecycle.SubmitRequest(book, asActor(y), y, "me too")
	require.NoError(t, err)

	total, _ := lifecycle.PendingNotifications([]models.Book{book}, owner)
	require.Equal(t, 2, total)

	// act - owner approves X only
	book, _, err = lifecycle.Approve(book, asActor(owner), x.ID)
	require.NoError(t, err)

	total, items := lifecycle.PendingNotifications([]models.Book{book}, owner)

	// assert - count drops from 2 to 1, Y stays pending
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, models.RequestStatusPending, book.Waitlist[1].Status)
}

func Test_OwnedBy_FallsBackToLegacyNameAndMobileMatch(t *testing.T) {
	// arrange - legacy record: owner snapshot set, identifier missing
	owner := givenUser("Ali Kaya", "5550000001")
	book := givenListedBook(t, owner)
	book.OwnerID = uuid.Nil
	book.CurrentOwner = owner.Name
	book.Contact = owner.Phone

	// assert
	assert.True(t, lifecycle.OwnedBy(&book, owner))

	other := givenUser("Ayşe Demir", "5550000002")
	assert.False(t, lifecycle.OwnedBy(&book, other))
}

func Test_PendingNotifications_EmptyWhenNothingPending(t *testing.T) {
	owner := givenUser("Ali Kaya", "5550000001")
	book := givenListedBook(t, owner)

	total, items := lifecycle.PendingNotifications([]models.Book{book}, owner)

	assert.Zero(t, total)
	assert.Empty(t, items)
}
