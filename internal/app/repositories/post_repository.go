package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/bookbridge/internal/app/models"
	"github.com/deniz/bookbridge/internal/pkg/apperrors"
	"github.com/deniz/bookbridge/internal/pkg/logger"
)

// PostRepository handles database operations for community board posts.
type PostRepository struct {
	DB *pgxpool.Pool
}

// NewPostRepository creates a new instance of PostRepository.
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{DB: db}
}

func (r *PostRepository) selectPostQuery() squirrel.SelectBuilder {
	return squirrel.Select("id", "author", "class", "text", "created_at").
		From("posts").
		PlaceholderFormat(squirrel.Dollar)
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var post models.Post
	err := row.Scan(&post.ID, &post.Author, &post.Class, &post.Text, &post.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Msg("Error scanning post row")
		return nil, err
	}
	return &post, nil
}

// Create inserts a new post and returns its generated ID.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) (uuid.UUID, error) {
	sql, args, err := squirrel.Insert("posts").
		Columns("author", "class", "text").
		Values(post.Author, post.Class, post.Text).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create post SQL")
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = r.DB.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create post query")
		return uuid.Nil, err
	}

	return id, nil
}

// GetAll retrieves the whole feed, newest first.
func (r *PostRepository) GetAll(ctx context.Context) ([]*models.Post, error) {
	sqlStr, args, err := r.selectPostQuery().OrderBy("created_at DESC").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all posts SQL")
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all posts query")
		return nil, err
	}
	defer rows.Close()

	posts := make([]*models.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning one post during get all")
			continue
		}
		posts = append(posts, post)
	}

	if err = rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error after iterating through post rows")
		return nil, err
	}

	return posts, nil
}

// Delete removes a post by ID. Admin moderation only.
func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := squirrel.Delete("posts").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete post SQL")
		return err
	}

	_, err = r.DB.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing delete post query")
		return err
	}

	return nil
}
