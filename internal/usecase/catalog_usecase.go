package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// カテゴリ・バナー・FAQをまとめて面倒を見る
type CatalogUsecase struct {
	categories repo.CategoryRepository
	banners    repo.BannerRepository
	faqs       repo.FAQRepository
}

func NewCatalogUsecase(
	categories repo.CategoryRepository,
	banners repo.BannerRepository,
	faqs repo.FAQRepository,
) *CatalogUsecase {
	return &CatalogUsecase{categories: categories, banners: banners, faqs: faqs}
}

// ---- カテゴリ ----

func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	items, err := u.categories.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

type CategoryInput struct {
	Name string
	Slug string
}

func (u *CatalogUsecase) AdminCreateCategory(ctx context.Context, adminUserID int64, in CategoryInput) (model.Category, error) {
	if adminUserID <= 0 {
		return model.Category{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	name := strings.TrimSpace(in.Name)
	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	if name == "" || slug == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "name and slug required")
	}

	c, err := u.categories.Create(ctx, model.Category{Name: name, Slug: slug})
	if err != nil {
		//slug重複もここに来る
		return model.Category{}, NewHTTPError(http.StatusConflict, "category already exists")
	}
	return c, nil
}

func (u *CatalogUsecase) AdminUpdateCategory(ctx context.Context, adminUserID int64, id int64, in CategoryInput) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	name := strings.TrimSpace(in.Name)
	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	if name == "" || slug == "" {
		return NewHTTPError(http.StatusBadRequest, "name and slug required")
	}

	err := u.categories.Update(ctx, model.Category{ID: id, Name: name, Slug: slug, UpdatedAt: time.Now()})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CatalogUsecase) AdminDeleteCategory(ctx context.Context, adminUserID int64, id int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.categories.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// ---- バナー ----

// 公開側。activeのみposition順
func (u *CatalogUsecase) ListActiveBanners(ctx context.Context) ([]model.Banner, error) {
	items, err := u.banners.ListActive(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *CatalogUsecase) AdminListBanners(ctx context.Context) ([]model.Banner, error) {
	items, err := u.banners.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

type BannerInput struct {
	Title    string
	Image    string
	Link     string
	Position int
	IsActive bool
}

func (u *CatalogUsecase) AdminCreateBanner(ctx context.Context, adminUserID int64, in BannerInput) (model.Banner, error) {
	if adminUserID <= 0 {
		return model.Banner{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Image) == "" {
		return model.Banner{}, NewHTTPError(http.StatusBadRequest, "title and image required")
	}

	b, err := u.banners.Create(ctx, model.Banner{
		Title:    strings.TrimSpace(in.Title),
		Image:    strings.TrimSpace(in.Image),
		Link:     strings.TrimSpace(in.Link),
		Position: in.Position,
		IsActive: in.IsActive,
	})
	if err != nil {
		return model.Banner{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return b, nil
}

func (u *CatalogUsecase) AdminUpdateBanner(ctx context.Context, adminUserID int64, id int64, in BannerInput) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Image) == "" {
		return NewHTTPError(http.StatusBadRequest, "title and image required")
	}

	err := u.banners.Update(ctx, model.Banner{
		ID:        id,
		Title:     strings.TrimSpace(in.Title),
		Image:     strings.TrimSpace(in.Image),
		Link:      strings.TrimSpace(in.Link),
		Position:  in.Position,
		IsActive:  in.IsActive,
		UpdatedAt: time.Now(),
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CatalogUsecase) AdminDeleteBanner(ctx context.Context, adminUserID int64, id int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.banners.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// ---- FAQ ----

func (u *CatalogUsecase) ListFAQs(ctx context.Context) ([]model.FAQ, error) {
	items, err := u.faqs.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

type FAQInput struct {
	Question string
	Answer   string
	Position int
}

func (u *CatalogUsecase) AdminCreateFAQ(ctx context.Context, adminUserID int64, in FAQInput) (model.FAQ, error) {
	if adminUserID <= 0 {
		return model.FAQ{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Question) == "" || strings.TrimSpace(in.Answer) == "" {
		return model.FAQ{}, NewHTTPError(http.StatusBadRequest, "question and answer required")
	}

	f, err := u.faqs.Create(ctx, model.FAQ{
		Question: strings.TrimSpace(in.Question),
		Answer:   strings.TrimSpace(in.Answer),
		Position: in.Position,
	})
	if err != nil {
		return model.FAQ{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return f, nil
}

func (u *CatalogUsecase) AdminUpdateFAQ(ctx context.Context, adminUserID int64, id int64, in FAQInput) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if strings.TrimSpace(in.Question) == "" || strings.TrimSpace(in.Answer) == "" {
		return NewHTTPError(http.StatusBadRequest, "question and answer required")
	}

	err := u.faqs.Update(ctx, model.FAQ{
		ID:        id,
		Question:  strings.TrimSpace(in.Question),
		Answer:    strings.TrimSpace(in.Answer),
		Position:  in.Position,
		UpdatedAt: time.Now(),
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CatalogUsecase) AdminDeleteFAQ(ctx context.Context, adminUserID int64, id int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.faqs.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
