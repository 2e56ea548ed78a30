package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type BannerGormRepository struct {
	db *gorm.DB
}

func NewBannerGormRepository(db *gorm.DB) *BannerGormRepository {
	return &BannerGormRepository{db: db}
}

func (r *BannerGormRepository) ListActive(ctx context.Context) ([]model.Banner, error) {
	var items []model.Banner
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("position asc").Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.Banner{}, err
	}
	return items, nil
}

func (r *BannerGormRepository) List(ctx context.Context) ([]model.Banner, error) {
	var items []model.Banner
	if err := r.db.WithContext(ctx).Order("position asc").Order("id asc").Find(&items).Error; err != nil {
		return []model.Banner{}, err
	}
	return items, nil
}

func (r *BannerGormRepository) FindByID(ctx context.Context, id int64) (model.Banner, error) {
	var b model.Banner
	err := r.db.WithContext(ctx).First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Banner{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Banner{}, err
	}
	return b, nil
}

func (r *BannerGormRepository) Create(ctx context.Context, b model.Banner) (model.Banner, error) {
	if err := r.db.WithContext(ctx).Create(&b).Error; err != nil {
		return model.Banner{}, err
	}
	return b, nil
}

func (r *BannerGormRepository) Update(ctx context.Context, b model.Banner) error {
	res := r.db.WithContext(ctx).Model(&model.Banner{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"title":     b.Title,
		"image":     b.Image,
		"link":      b.Link,
		"position":  b.Position,
		"is_active": b.IsActive,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *BannerGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Banner{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
