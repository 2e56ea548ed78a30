package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ReturnUsecase struct {
	returns   repo.ReturnRepository
	orders    repo.OrderRepository
	auditRepo repo.AuditLogRepository
	notifier  Notifier
	idGen     IDGenerator
	clock     Clock
}

func NewReturnUsecase(
	returns repo.ReturnRepository,
	orders repo.OrderRepository,
	auditRepo repo.AuditLogRepository,
	notifier Notifier,
	idGen IDGenerator,
	clock Clock,
) *ReturnUsecase {
	return &ReturnUsecase{
		returns:   returns,
		orders:    orders,
		auditRepo: auditRepo,
		notifier:  notifier,
		idGen:     idGen,
		clock:     clock,
	}
}

type CreateReturnInput struct {
	OrderID   string
	ProfileID string
	Reason    string
}

// 返品依頼を作る。注文本体のステータスは変えない
func (u *ReturnUsecase) Create(ctx context.Context, in CreateReturnInput) (model.ReturnRequest, error) {
	if strings.TrimSpace(in.OrderID) == "" {
		return model.ReturnRequest{}, NewHTTPError(http.StatusBadRequest, "order_id required")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return model.ReturnRequest{}, NewHTTPError(http.StatusBadRequest, "reason required")
	}

	//注文の存在確認
	o, err := u.orders.FindByID(ctx, in.OrderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.ReturnRequest{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return model.ReturnRequest{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()
	rr := model.ReturnRequest{
		ID:        u.idGen.NewID(),
		OrderID:   in.OrderID,
		ProfileID: strings.TrimSpace(in.ProfileID),
		Reason:    strings.TrimSpace(in.Reason),
		Status:    model.ReturnStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.returns.Create(ctx, rr); err != nil {
		return model.ReturnRequest{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//管理者への通知。失敗してもレスポンスは変えない
	u.notifier.NotifyReturnRequested(rr, o)

	return rr, nil
}

func (u *ReturnUsecase) ListAdmin(ctx context.Context, f repo.ReturnListFilter) ([]model.ReturnRequest, int64, error) {
	if f.Page < 1 {
		return nil, 0, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return nil, 0, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.returns.ListAdmin(ctx, f)
	if err != nil {
		return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, total, nil
}

// ステータス更新（管理者）。監査ログも残す
func (u *ReturnUsecase) AdminUpdateStatus(ctx context.Context, actorAdminUserID int64, id string, status string) error {
	if actorAdminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	newStatus := strings.TrimSpace(status)
	switch newStatus {
	case "PENDING", "APPROVED", "REJECTED", "RESOLVED":
		// OK
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	rr, err := u.returns.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if string(rr.Status) == newStatus {
		return nil
	}

	if err := u.returns.UpdateStatus(ctx, id, model.ReturnStatus(newStatus)); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorAdminUserID,
		Action:       model.AuditActionUpdateReturnStatus,
		ResourceType: model.AuditResourceReturn,
		ResourceID:   id,
		BeforeJSON:   `{"status":"` + string(rr.Status) + `"}`,
		AfterJSON:    `{"status":"` + newStatus + `"}`,
		CreatedAt:    u.clock.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}
