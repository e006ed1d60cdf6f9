package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all repository instances
type Repositories struct {
	UserRepository      *UserRepository
	NoticeRepository    *NoticeRepository
	IssueRepository     *IssueRepository
	LostFoundRepository *LostFoundRepository
}

// NewRepositories creates a new Repositories instance with all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:      NewUserRepository(db),
		NoticeRepository:    NewNoticeRepository(db),
		IssueRepository:     NewIssueRepository(db),
		LostFoundRepository: NewLostFoundRepository(db),
	}
}
