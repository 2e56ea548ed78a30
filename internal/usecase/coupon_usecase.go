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

type CouponUsecase struct {
	coupons repo.CouponRepository
	clock   Clock
}

func NewCouponUsecase(coupons repo.CouponRepository, clock Clock) *CouponUsecase {
	return &CouponUsecase{coupons: coupons, clock: clock}
}

type CouponValidateOutput struct {
	Valid      bool   `json:"valid"`
	Code       string `json:"code"`
	PercentOff int64  `json:"percent_off"`
}

// クーポンコードの検証。大文字小文字は区別しない。
// 無効・期限切れ・存在しないはすべて404扱い（理由は外に漏らさない）
func (u *CouponUsecase) Validate(ctx context.Context, code string) (CouponValidateOutput, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return CouponValidateOutput{}, NewHTTPError(http.StatusBadRequest, "code required")
	}

	c, err := u.coupons.FindByCode(ctx, code)
	if errors.Is(err, repo.ErrNotFound) {
		return CouponValidateOutput{}, NewHTTPError(http.StatusNotFound, "coupon not found")
	}
	if err != nil {
		return CouponValidateOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !c.IsActive {
		return CouponValidateOutput{}, NewHTTPError(http.StatusNotFound, "coupon not found")
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(u.clock.Now()) {
		return CouponValidateOutput{}, NewHTTPError(http.StatusNotFound, "coupon not found")
	}

	return CouponValidateOutput{Valid: true, Code: c.Code, PercentOff: c.PercentOff}, nil
}

func (u *CouponUsecase) AdminList(ctx context.Context) ([]model.Coupon, error) {
	items, err := u.coupons.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

type AdminCouponInput struct {
	Code       string
	PercentOff int64
	IsActive   bool
	ExpiresAt  *time.Time
}

func (u *CouponUsecase) AdminCreate(ctx context.Context, adminUserID int64, in AdminCouponInput) (model.Coupon, error) {
	if adminUserID <= 0 {
		return model.Coupon{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "code required")
	}
	if in.PercentOff < 1 || in.PercentOff > 100 {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "percent_off must be 1-100")
	}

	c, err := u.coupons.Create(ctx, model.Coupon{
		Code:       code,
		PercentOff: in.PercentOff,
		IsActive:   in.IsActive,
		ExpiresAt:  in.ExpiresAt,
	})
	if err != nil {
		//コード重複もここに来る
		return model.Coupon{}, NewHTTPError(http.StatusConflict, "coupon already exists")
	}
	return c, nil
}

func (u *CouponUsecase) AdminUpdate(ctx context.Context, adminUserID int64, id int64, in AdminCouponInput) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		return NewHTTPError(http.StatusBadRequest, "code required")
	}
	if in.PercentOff < 1 || in.PercentOff > 100 {
		return NewHTTPError(http.StatusBadRequest, "percent_off must be 1-100")
	}

	err := u.coupons.Update(ctx, model.Coupon{
		ID:         id,
		Code:       code,
		PercentOff: in.PercentOff,
		IsActive:   in.IsActive,
		ExpiresAt:  in.ExpiresAt,
		UpdatedAt:  u.clock.Now(),
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CouponUsecase) AdminDelete(ctx context.Context, adminUserID int64, id int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.coupons.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
