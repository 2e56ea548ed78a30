package repository

import (
	"context"

	"app/internal/domain/model"
)

type FAQRepository interface {
	List(ctx context.Context) ([]model.FAQ, error)
	FindByID(ctx context.Context, id int64) (model.FAQ, error)
	Create(ctx context.Context, f model.FAQ) (model.FAQ, error)
	Update(ctx context.Context, f model.FAQ) error
	Delete(ctx context.Context, id int64) error
}
