package repository

import (
	"context"

	"app/internal/domain/model"
)

type ReturnListFilter struct {
	Page   int
	Limit  int
	Status string
}

type ReturnRepository interface {
	Create(ctx context.Context, r model.ReturnRequest) error
	FindByID(ctx context.Context, id string) (model.ReturnRequest, error)
	ListAdmin(ctx context.Context, f ReturnListFilter) ([]model.ReturnRequest, int64, error)
	UpdateStatus(ctx context.Context, id string, status model.ReturnStatus) error
}
