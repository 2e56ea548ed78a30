package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type FAQGormRepository struct {
	db *gorm.DB
}

func NewFAQGormRepository(db *gorm.DB) *FAQGormRepository {
	return &FAQGormRepository{db: db}
}

func (r *FAQGormRepository) List(ctx context.Context) ([]model.FAQ, error) {
	var items []model.FAQ
	if err := r.db.WithContext(ctx).Order("position asc").Order("id asc").Find(&items).Error; err != nil {
		return []model.FAQ{}, err
	}
	return items, nil
}

func (r *FAQGormRepository) FindByID(ctx context.Context, id int64) (model.FAQ, error) {
	var f model.FAQ
	err := r.db.WithContext(ctx).First(&f, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.FAQ{}, repo.ErrNotFound
	}
	if err != nil {
		return model.FAQ{}, err
	}
	return f, nil
}

func (r *FAQGormRepository) Create(ctx context.Context, f model.FAQ) (model.FAQ, error) {
	if err := r.db.WithContext(ctx).Create(&f).Error; err != nil {
		return model.FAQ{}, err
	}
	return f, nil
}

func (r *FAQGormRepository) Update(ctx context.Context, f model.FAQ) error {
	res := r.db.WithContext(ctx).Model(&model.FAQ{}).Where("id = ?", f.ID).Updates(map[string]interface{}{
		"question": f.Question,
		"answer":   f.Answer,
		"position": f.Position,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *FAQGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.FAQ{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
