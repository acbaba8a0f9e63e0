package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deniz/bookbridge/internal/app/lifecycle"
	"github.com/deniz/bookbridge/internal/app/models"
	"github.com/deniz/bookbridge/internal/app/models/dto"
	"github.com/deniz/bookbridge/internal/app/services"
	"github.com/deniz/bookbridge/internal/middleware"
)

// BookController handles book listing and lifecycle operations
type BookController struct {
	bookService *services.BookService
	logger      zerolog.Logger
}

// NewBookController creates a new BookController
func NewBookController(bookService *services.BookService, logger zerolog.Logger) *BookController {
	return &BookController{
		bookService: bookService,
		logger:      logger,
	}
}

// CreateBook lists a new book
// @Summary List a new book
// @Description Creates a listing owned by the authenticated user. The history starts with a single "Listed" entry.
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBookRequest true "Book details"
// @Success 201 {object} dto.APIResponse{data=dto.BookResponse} "Book listed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /books [post]
func (c *BookController) CreateBook(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.CreateBookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request payload")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	book, err := c.bookService.Create(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.FromBook(book, actor)
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// GetBooks returns a filtered page of listings
// @Summary Browse listings
// @Description Returns books filtered by subject, class level, type or a title/author search, newest first.
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param subject query string false "Subject filter"
// @Param classLevel query string false "Class level filter"
// @Param type query string false "SHARING or DONATION"
// @Param search query string false "Title or author search"
// @Param page query int false "Page number (1-based)"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.BookListResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /books [get]
func (c *BookController) GetBooks(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var filter dto.BookFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid filter parameters")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	resp, err := c.bookService.GetAll(ctx.Request.Context(), actor, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetBook returns a single listing
// @Summary Get a book
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} dto.APIResponse{data=dto.BookResponse}
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id} [get]
func (c *BookController) GetBook(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.bookService.GetByID(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UpdateBook patches the editable metadata of a listing
// @Summary Edit book metadata
// @Description Updates title, subject, author or class level. The original owner may edit until the book transfers; afterwards only admins.
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Param request body dto.UpdateBookRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.BookResponse}
// @Failure 403 {object} dto.ErrorResponse "Not allowed to edit this book"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id} [put]
func (c *BookController) UpdateBook(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request payload")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	book, err := c.bookService.Update(ctx.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.FromBook(book, actor)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DeleteBook removes a listing
// @Summary Delete a book
// @Description The owner may delete until the book transfers; admins always can.
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} dto.APIResponse "Book deleted"
// @Failure 403 {object} dto.ErrorResponse "Not allowed to delete this book"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id} [delete]
func (c *BookController) DeleteBook(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.bookService.Delete(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Book deleted"))
}

// SubmitRequest places the caller on the waitlist
// @Summary Request to borrow a book
// @Description Appends a pending borrow request. A repeated request from the same user replaces the earlier entry.
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Param request body dto.BorrowRequestCreate true "Request message"
// @Success 200 {object} dto.APIResponse{data=dto.BookResponse}
// @Failure 400 {object} dto.ErrorResponse "Own book or empty message"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id}/requests [post]
func (c *BookController) SubmitRequest(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.BorrowRequestCreate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request payload")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	book, err := c.bookService.SubmitRequest(ctx.Request.Context(), actor, id, req.Message)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.FromBook(book, actor)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ApproveRequest approves a pending borrow request
// @Summary Approve a borrow request
// @Description Marks the pending request of the given user as approved. A request that is absent or not pending leaves the book unchanged.
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Param uid path string true "Requester user ID"
// @Success 200 {object} dto.APIResponse{data=dto.BookResponse}
// @Failure 403 {object} dto.ErrorResponse "Only the owner or an admin may manage requests"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id}/requests/{uid}/approve [post]
func (c *BookController) ApproveRequest(ctx *gin.Context) {
	c.waitlistTransition(ctx, c.bookService.Approve, "Request approved", "No matching pending request")
}

// RejectRequest rejects a pending borrow request
// @Summary Reject a borrow request
// @Description Marks the pending request of the given user as rejected. The user may request again later.
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Param uid path string true "Requester user ID"
// @Success 200 {object} dto.APIResponse{data=dto.BookResponse}
// @Failure 403 {object} dto.ErrorResponse "Only the owner or an admin may manage requests"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id}/requests/{uid}/reject [post]
func (c *BookController) RejectRequest(ctx *gin.Context) {
	c.waitlistTransition(ctx, c.bookService.Reject, "Request rejected", "No matching pending request")
}

// HandoverRequest records the physical handover
// @Summary Mark a book as handed over
// @Description Moves the approved request of the given user to handed_over.
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Param uid path string true "Requester user ID"
// @Success 200 {object} dto.APIResponse{data=dto.BookResponse}
// @Failure 403 {object} dto.ErrorResponse "Only the owner or an admin may manage requests"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id}/requests/{uid}/handover [post]
func (c *BookController) HandoverRequest(ctx *gin.Context) {
	c.waitlistTransition(ctx, c.bookService.MarkHandedOver, "Handover recorded", "No matching approved request")
}

// waitlistTransition runs one of the uid-targeting transitions and renders the
// shared response shape. A transition that matched nothing still returns 200
// with the unchanged book; the message tells the outcomes apart.
func (c *BookController) waitlistTransition(
	ctx *gin.Context,
	op func(ctx context.Context, actor lifecycle.Actor, bookID, targetUID uuid.UUID) (*models.Book, lifecycle.Outcome, error),
	appliedMsg, noMatchMsg string,
) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	bookID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	targetUID, ok := parseIDParam(ctx, "uid")
	if !ok {
		return
	}

	book, outcome, err := op(ctx.Request.Context(), actor, bookID, targetUID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := appliedMsg
	if outcome == lifecycle.OutcomeNoMatch {
		message = noMatchMsg
	}

	resp := dto.NewSuccessResponse(dto.FromBook(book, actor))
	resp.Message = message
	ctx.JSON(http.StatusOK, resp)
}

// ConfirmReceipt completes the transfer to the caller
// @Summary Confirm receipt of a book
// @Description The borrower whose request is handed_over confirms physical receipt. Ownership transfers, the waitlist clears and the history restarts with a "Received" entry. Repeating the call changes nothing.
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} dto.APIResponse{data=dto.BookResponse}
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id}/receive [post]
func (c *BookController) ConfirmReceipt(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	book, outcome, err := c.bookService.ConfirmReceipt(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "Receipt confirmed"
	if outcome == lifecycle.OutcomeNoMatch {
		message = "No handover waiting for this user"
	}

	resp := dto.NewSuccessResponse(dto.FromBook(book, actor))
	resp.Message = message
	ctx.JSON(http.StatusOK, resp)
}

// GetNotifications returns the caller's pending-request view
// @Summary Get notifications
// @Description Returns every owned book with pending borrow requests and the total pending count. Recomputed from the current listings on every call.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.NotificationsResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /notifications [get]
func (c *BookController) GetNotifications(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	resp, err := c.bookService.Notifications(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
