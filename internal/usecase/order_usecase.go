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

type OrderUsecase struct {
	tx       repo.TransactionManager
	notifier Notifier
	idGen    IDGenerator
	clock    Clock
}

func NewOrderUsecase(tx repo.TransactionManager, notifier Notifier, idGen IDGenerator, clock Clock) *OrderUsecase {
	return &OrderUsecase{tx: tx, notifier: notifier, idGen: idGen, clock: clock}
}

// handler側で正規化済みの明細。product_id/id等の揺れはここまで持ち込まない
type CreateOrderItemInput struct {
	ProductID int64
	Quantity  int64
	Price     int64
	Name      string
	Image     string
	Size      string
}

type CreateOrderInput struct {
	ProfileID     *string
	CustomerEmail string
	Items         []CreateOrderItemInput
	Total         int64
	ShippingCost  int64
	Shipping      model.ShippingAddress
	PaymentMethod string
	PointsUsed    int64
	PointsEarned  int64
	CouponCode    string
	Metadata      string
}

type OrderOutput struct {
	Order model.Order       `json:"order"`
	Items []model.OrderItem `json:"items"`
}

// Createは注文本体と明細を1トランザクションで書く。
// 明細のinsertに失敗したら注文行ごとロールバックする（片方だけ残さない）。
// ポイント調整は同じトランザクション内で行うが、プロフィールが
// 存在しない場合はスキップして注文自体は成功させる
func (u *OrderUsecase) Create(ctx context.Context, in CreateOrderInput) (OrderOutput, error) {
	if len(in.Items) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	if in.Total <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid total")
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity <= 0 {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item")
		}
	}

	now := u.clock.Now()
	order := model.Order{
		ID:            u.idGen.NewID(),
		ProfileID:     in.ProfileID,
		CustomerEmail: strings.TrimSpace(strings.ToLower(in.CustomerEmail)),
		Status:        model.OrderStatusProcessing,
		Total:         in.Total,
		ShippingCost:  in.ShippingCost,
		Shipping:      in.Shipping,
		PaymentMethod: in.PaymentMethod,
		PointsUsed:    in.PointsUsed,
		PointsEarned:  in.PointsEarned,
		CouponCode:    strings.TrimSpace(in.CouponCode),
		Metadata:      in.Metadata,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	items := make([]model.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, model.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.Price,
			Quantity:  it.Quantity,
			Image:     it.Image,
			Size:      it.Size,
			CreatedAt: now,
		})
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().Create(ctx, order); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//注文明細一括作成。失敗したら注文ごとロールバック
		if err := r.OrderItems().CreateBulk(ctx, order.ID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//ポイント調整（会員かつ増減があるときだけ）
		if in.ProfileID != nil && (in.PointsUsed != 0 || in.PointsEarned != 0) {
			p, err := r.Profiles().FindByID(ctx, *in.ProfileID)
			if errors.Is(err, repo.ErrNotFound) {
				//プロフィール無しはスキップ。作成はしない
				return nil
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			//床も上限も設けない（マイナス残高はあり得る）
			newBalance := p.LoyaltyPoints - in.PointsUsed + in.PointsEarned
			if err := r.Profiles().UpdatePoints(ctx, p.ID, newBalance); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	for i := range items {
		items[i].OrderID = order.ID
	}

	//確認メールは非同期。失敗しても注文のレスポンスは変えない
	u.notifier.NotifyOrderConfirmation(order, items)

	return OrderOutput{Order: order, Items: items}, nil
}

func (u *OrderUsecase) Get(ctx context.Context, orderID string) (OrderOutput, error) {
	if strings.TrimSpace(orderID) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = OrderOutput{Order: o, Items: items}
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) ListByEmail(ctx context.Context, email string) ([]OrderOutput, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "email required")
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByEmail(ctx, email, 1, 50)
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

// handlerで期間パラメータのtime.Parseに使う
func ParseDateTimeRFC3339(s string) (*time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false
	}
	return &t, true
}
