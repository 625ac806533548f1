package repository

import (
	"context"

	"github.com/mywallet/backend/domain"
)

type EntryFilter struct {
	UserID string
	Kind   string
	Limit  int
	Offset int
}

type EntryRepository interface {
	List(ctx context.Context, filter EntryFilter) ([]domain.Entry, error)
	Create(ctx context.Context, entry *domain.Entry) (*domain.Entry, error)
}
