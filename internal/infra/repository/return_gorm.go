package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ReturnGormRepository struct {
	db *gorm.DB
}

func NewReturnGormRepository(db *gorm.DB) *ReturnGormRepository {
	return &ReturnGormRepository{db: db}
}

func (r *ReturnGormRepository) Create(ctx context.Context, rr model.ReturnRequest) error {
	if err := r.db.WithContext(ctx).Create(&rr).Error; err != nil {
		return err
	}
	return nil
}

func (r *ReturnGormRepository) FindByID(ctx context.Context, id string) (model.ReturnRequest, error) {
	var rr model.ReturnRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ReturnRequest{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ReturnRequest{}, err
	}
	return rr, nil
}

func (r *ReturnGormRepository) ListAdmin(ctx context.Context, f repo.ReturnListFilter) ([]model.ReturnRequest, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.ReturnRequest{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.ReturnRequest{}, 0, err
	}

	var items []model.ReturnRequest
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("created_at desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.ReturnRequest{}, 0, err
	}

	return items, total, nil
}

func (r *ReturnGormRepository) UpdateStatus(ctx context.Context, id string, status model.ReturnStatus) error {
	res := r.db.WithContext(ctx).Model(&model.ReturnRequest{}).
		Where("id = ?", id).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
