package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	auditRepo repo.AuditLogRepository
	notifier  Notifier
	clock     Clock
}

func NewAdminOrderUsecase(tx repo.TransactionManager, auditRepo repo.AuditLogRepository, notifier Notifier, clock Clock) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, auditRepo: auditRepo, notifier: notifier, clock: clock}
}

// 部分更新。nilのフィールドは触らない
type AdminUpdateOrderInput struct {
	Status        *string
	PaymentMethod *string
	ShippingCost  *int64
	Metadata      *string
}

// 注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, OrderOutput{Order: o, Items: items})
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// 部分更新。statusが含まれていて実際に変わったときだけ
// ステータス変更メールを送り、監査ログを残す
func (u *AdminOrderUsecase) Update(ctx context.Context, actorAdminUserID int64, orderID string, in AdminUpdateOrderInput) (model.Order, error) {
	if actorAdminUserID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(orderID) == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var newStatus string
	if in.Status != nil {
		newStatus = strings.TrimSpace(*in.Status)
		switch newStatus {
		case "PROCESSING", "PAID", "SHIPPED", "DELIVERED", "CANCELED":
			// OK
		default:
			return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
	}

	var updated model.Order
	statusChanged := false

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 注文取得
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		fields := map[string]interface{}{}
		if in.Status != nil && string(o.Status) != newStatus {
			fields["status"] = newStatus
			statusChanged = true
		}
		if in.PaymentMethod != nil {
			fields["payment_method"] = *in.PaymentMethod
		}
		if in.ShippingCost != nil {
			fields["shipping_cost"] = *in.ShippingCost
		}
		if in.Metadata != nil {
			fields["metadata"] = *in.Metadata
		}

		//変更なしなら何もしない（200）
		if len(fields) == 0 {
			updated = o
			return nil
		}

		if err := r.Orders().UpdateFields(ctx, orderID, fields); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//監査ログはステータス変更のときだけ
		if statusChanged {
			beforeJSON := `{"status":"` + string(o.Status) + `"}`
			afterJSON := `{"status":"` + newStatus + `"}`
			if err := u.auditRepo.Create(ctx, model.AuditLog{
				ActorUserID:  actorAdminUserID,
				Action:       model.AuditActionUpdateOrder,
				ResourceType: model.AuditResourceOrder,
				ResourceID:   orderID,
				BeforeJSON:   beforeJSON,
				AfterJSON:    afterJSON,
				CreatedAt:    u.clock.Now(),
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		updated = o
		if statusChanged {
			updated.Status = model.OrderStatus(newStatus)
		}
		if in.PaymentMethod != nil {
			updated.PaymentMethod = *in.PaymentMethod
		}
		if in.ShippingCost != nil {
			updated.ShippingCost = *in.ShippingCost
		}
		if in.Metadata != nil {
			updated.Metadata = *in.Metadata
		}
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	//ステータスが変わったときだけ通知。他のフィールド変更では送らない
	if statusChanged {
		u.notifier.NotifyOrderStatus(updated)
	}

	return updated, nil
}
