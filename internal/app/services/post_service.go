package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deniz/bookbridge/internal/app/lifecycle"
	"github.com/deniz/bookbridge/internal/app/models"
	"github.com/deniz/bookbridge/internal/app/models/dto"
	"github.com/deniz/bookbridge/internal/app/repositories"
	"github.com/deniz/bookbridge/internal/pkg/apperrors"
	"github.com/deniz/bookbridge/internal/pkg/realtime"
)

// PostService handles the community board. The feed is append-only; posts are
// never edited and only admins remove them.
type PostService struct {
	postRepo  *repositories.PostRepository
	userRepo  *repositories.UserRepository
	publisher snapshotPublisher
	logger    zerolog.Logger
}

// NewPostService creates a new PostService
func NewPostService(
	postRepo *repositories.PostRepository,
	userRepo *repositories.UserRepository,
	publisher snapshotPublisher,
	logger zerolog.Logger,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		userRepo:  userRepo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *PostService) publishPosts(ctx context.Context) {
	posts, err := s.postRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load posts for snapshot broadcast")
		return
	}
	s.publisher.Publish(realtime.CollectionPosts, posts)
}

// Create appends a post under the acting user's name and class.
func (s *PostService) Create(ctx context.Context, actor lifecycle.Actor, req *dto.CreatePostRequest) (*models.Post, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperrors.NewValidationError("post text is required")
	}

	author, err := s.userRepo.GetByID(ctx, actor.UID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Author: author.Name,
		Class:  author.StudentClass,
		Text:   req.Text,
	}

	id, err := s.postRepo.Create(ctx, post)
	if err != nil {
		return nil, err
	}
	post.ID = id

	s.logger.Info().Str("postID", id.String()).Msg("Post created")
	s.publishPosts(ctx)
	return post, nil
}

// GetAll returns the whole feed, newest first.
func (s *PostService) GetAll(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.GetAll(ctx)
}

// Delete removes a post. Admin moderation only; removing an already deleted
// post is not an error.
func (s *PostService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("postID", id.String()).Msg("Post deleted")
	s.publishPosts(ctx)
	return nil
}
