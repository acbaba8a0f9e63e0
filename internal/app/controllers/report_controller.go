package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/deniz/bookbridge/internal/app/models/dto"
	"github.com/deniz/bookbridge/internal/app/services"
	"github.com/deniz/bookbridge/internal/middleware"
)

// ReportController handles complaint filing and admin resolution
type ReportController struct {
	reportService *services.ReportService
	logger        zerolog.Logger
}

// NewReportController creates a new ReportController
func NewReportController(reportService *services.ReportService, logger zerolog.Logger) *ReportController {
	return &ReportController{
		reportService: reportService,
		logger:        logger,
	}
}

// CreateReport files a complaint against a book
// @Summary Report a book
// @Description Files a report with a reason. The book itself is untouched until an admin resolves the report.
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Param request body dto.CreateReportRequest true "Report reason"
// @Success 201 {object} dto.APIResponse{data=dto.ReportResponse} "Report filed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id}/report [post]
func (c *ReportController) CreateReport(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	bookID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request payload")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	report, err := c.reportService.Create(ctx.Request.Context(), actor, bookID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.FromReport(report)))
}

// GetReports returns the admin review queue
// @Summary List open reports
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ReportListResponse}
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /admin/reports [get]
func (c *ReportController) GetReports(ctx *gin.Context) {
	reports, err := c.reportService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.ReportListResponse{Reports: make([]dto.ReportResponse, 0, len(reports))}
	for _, report := range reports {
		resp.Reports = append(resp.Reports, dto.FromReport(report))
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DismissReport removes a report without touching the book
// @Summary Dismiss a report
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} dto.APIResponse "Report dismissed"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /admin/reports/{id} [delete]
func (c *ReportController) DismissReport(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.reportService.Dismiss(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Report dismissed"))
}

// ResolveReport deletes the reported book and every report against it
// @Summary Resolve a report by deleting the book
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} dto.APIResponse "Book and reports removed"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Report not found"
// @Router /admin/reports/{id}/delete-book [post]
func (c *ReportController) ResolveReport(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.reportService.ResolveByDeletingBook(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Book and its reports removed"))
}
