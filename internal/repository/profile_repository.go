package repository

import (
	"context"

	"app/internal/domain/model"
)

// プロフィールは外部の認証基盤が作る。ここでは更新のみ
type ProfileRepository interface {
	FindByID(ctx context.Context, profileID string) (model.Profile, error)
	FindByEmail(ctx context.Context, email string) (model.Profile, error)
	UpdatePoints(ctx context.Context, profileID string, newBalance int64) error
}
