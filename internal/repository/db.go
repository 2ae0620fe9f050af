package repository

import (
	"github.com/user/cinelog/internal/store"
)

// Repositories 仓库集合
type Repositories struct {
	Store  *store.Store
	Review *ReviewRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(s *store.Store) *Repositories {
	return &Repositories{
		Store:  s,
		Review: NewReviewRepository(s),
	}
}
