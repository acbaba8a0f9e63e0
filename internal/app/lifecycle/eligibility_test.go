package lifecycle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/bookbridge/internal/app/lifecycle"
	"github.com/deniz/bookbridge/internal/app/models"
)

func Test_Transferred_FollowsHistoryLength(t *testing.T) {
	owner := givenUser("Ali Kaya", "5550000001")
	book := givenListedBook(t, owner)

	assert.False(t, lifecycle.Transferred(&book), "freshly listed book has a single history entry")

	book.History = append(book.History, models.HistoryEvent{Owner: owner.Name, Action: "Edited"})
	assert.True(t, lifecycle.Transferred(&book))
}

func Test_CanEdit_OwnerWhileNotTransferred_AdminAfterwards(t *testing.T) {
	owner := givenUser("Ali Kaya", "5550000001")
	stranger := givenUser("Ayşe Demir", "5550000002")
	admin := givenUser("Admin", "5559999999")
	admin.Role = models.RoleAdmin

	book := givenListedBook(t, owner)

	assert.True(t, lifecycle.CanEdit(&book, asActor(owner)))
	assert.False(t, lifecycle.CanEdit(&book, asActor(stranger)))

	// grow the history past one entry: the book counts as transferred
	book.History = append(book.History, models.HistoryEvent{Owner: "X", Action: models.ActionReceived})

	assert.False(t, lifecycle.CanEdit(&book, asActor(owner)))
	assert.False(t, lifecycle.CanEdit(&book, asActor(stranger)))
	assert.True(t, lifecycle.CanEdit(&book, asActor(admin)))
}

func Test_CanDelete_AdminAlways_OwnerOnlyBeforeTransfer(t *testing.T) {
	owner := givenUser("Ali Kaya", "5550000001")
	admin := givenUser("Admin", "5559999999")
	admin.Role = models.RoleAdmin

	book := givenListedBook(t, owner)
	assert.True(t, lifecycle.CanDelete(&book, asActor(owner)))
	assert.True(t, lifecycle.CanDelete(&book, asActor(admin)))

	book.History = append(book.History, models.HistoryEvent{Owner: "X", Action: models.ActionReceived})
	assert.False(t, lifecycle.CanDelete(&book, asActor(owner)))
	assert.True(t, lifecycle.CanDelete(&book, asActor(admin)))
}

func Test_StateOf_PrefersHandoverOverApprovalOverPending(t *testing.T) {
	owner := givenUser("Ali Kaya", "5550000001")
	x := givenUser("Ayşe Demir", "5550000002")
	y := givenUser("Mehmet Can", "5550000003")
	book := givenListedBook(t, owner)

	book, err := lifecycle.SubmitRequest(book, asActor(x), x, "need it")
	require.NoError(t, err)
	book, err = lifecycle.SubmitRequest(book, asActor(y), y, "me too")
	require.NoError(t, err)
	assert.Equal(t, models.BookStateRequested, lifecycle.StateOf(&book))

	book, _, err = lifecycle.Approve(book, asActor(owner), x.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookStateApproved, lifecycle.StateOf(&book))

	book, _, err = lifecycle.MarkHandedOver(book, asActor(owner), x.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookStateHandedOver, lifecycle.StateOf(&book))

	book, _, err = lifecycle.ConfirmReceipt(book, asActor(x), x, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.BookStateAvailable, lifecycle.StateOf(&book))
}
