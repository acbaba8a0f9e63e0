package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/deniz/bookbridge/internal/app/models/dto"
	"github.com/deniz/bookbridge/internal/app/services"
	"github.com/deniz/bookbridge/internal/middleware"
)

// PostController handles the community board feed
type PostController struct {
	postService *services.PostService
	logger      zerolog.Logger
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, logger zerolog.Logger) *PostController {
	return &PostController{
		postService: postService,
		logger:      logger,
	}
}

// CreatePost appends a board post
// @Summary Create a post
// @Description Appends a post under the caller's name and class. Posts cannot be edited afterwards.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostRequest true "Post text"
// @Success 201 {object} dto.APIResponse{data=dto.PostResponse} "Post created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Router /posts [post]
func (c *PostController) CreatePost(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request payload")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	post, err := c.postService.Create(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.FromPost(post)))
}

// GetPosts returns the whole feed
// @Summary List posts
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.PostListResponse}
// @Router /posts [get]
func (c *PostController) GetPosts(ctx *gin.Context) {
	posts, err := c.postService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.PostListResponse{Posts: make([]dto.PostResponse, 0, len(posts))}
	for _, post := range posts {
		resp.Posts = append(resp.Posts, dto.FromPost(post))
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DeletePost removes a post
// @Summary Delete a post
// @Description Admin moderation only.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} dto.APIResponse "Post deleted"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /admin/posts/{id} [delete]
func (c *PostController) DeletePost(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.postService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Post deleted"))
}
