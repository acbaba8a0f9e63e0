package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository   *UserRepository
	BookRepository   *BookRepository
	ReportRepository *ReportRepository
	PostRepository   *PostRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:   NewUserRepository(db),
		BookRepository:   NewBookRepository(db),
		ReportRepository: NewReportRepository(db),
		PostRepository:   NewPostRepository(db),
	}
}
