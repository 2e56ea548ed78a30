package repository

import (
	"context"

	"app/internal/domain/model"
)

type BannerRepository interface {
	//公開側はactiveのみ・position順
	ListActive(ctx context.Context) ([]model.Banner, error)
	List(ctx context.Context) ([]model.Banner, error)
	FindByID(ctx context.Context, id int64) (model.Banner, error)
	Create(ctx context.Context, b model.Banner) (model.Banner, error)
	Update(ctx context.Context, b model.Banner) error
	Delete(ctx context.Context, id int64) error
}
