package unit

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type ReturnRepoMock struct{ mock.Mock }

func (m *ReturnRepoMock) Create(ctx context.Context, r model.ReturnRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *ReturnRepoMock) FindByID(ctx context.Context, id string) (model.ReturnRequest, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(model.ReturnRequest)
	return r, args.Error(1)
}

func (m *ReturnRepoMock) ListAdmin(ctx context.Context, f repo.ReturnListFilter) ([]model.ReturnRequest, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.ReturnRequest)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ReturnRepoMock) UpdateStatus(ctx context.Context, id string, status model.ReturnStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

var returnTestNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newReturnTestUsecase(returns *ReturnRepoMock, orders *OrderRepoMock, audit *AdminAuditRepoMock, notifier *NotifierMock) *usecase.ReturnUsecase {
	return usecase.NewReturnUsecase(
		returns,
		orders,
		audit,
		notifier,
		&fixedIDGen{id: "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"},
		&fixedClock{now: returnTestNow},
	)
}

func TestReturnUsecase_Create_OrderNotFound(t *testing.T) {
	orders := new(OrderRepoMock)
	orders.On("FindByID", mock.Anything, "missing").Return(model.Order{}, repo.ErrNotFound)

	uc := newReturnTestUsecase(new(ReturnRepoMock), orders, new(AdminAuditRepoMock), new(NotifierMock))

	_, err := uc.Create(context.Background(), usecase.CreateReturnInput{OrderID: "missing", Reason: "broken"})
	assertErrContains(t, err, "order not found")
}

// 作成はPENDINGで始まり、管理者へ通知が飛ぶ
func TestReturnUsecase_Create_Success_NotifiesAdmin(t *testing.T) {
	returns := new(ReturnRepoMock)
	orders := new(OrderRepoMock)
	notifier := new(NotifierMock)

	order := model.Order{ID: "o-1", CustomerEmail: "buyer@example.com"}
	orders.On("FindByID", mock.Anything, "o-1").Return(order, nil)

	returns.On("Create", mock.Anything, mock.MatchedBy(func(r model.ReturnRequest) bool {
		return r.OrderID == "o-1" &&
			r.Status == model.ReturnStatusPending &&
			r.Reason == "wrong size" &&
			r.CreatedAt.Equal(returnTestNow)
	})).Return(nil)

	notifier.On("NotifyReturnRequested", mock.Anything, order).Return()

	uc := newReturnTestUsecase(returns, orders, new(AdminAuditRepoMock), notifier)

	rr, err := uc.Create(context.Background(), usecase.CreateReturnInput{OrderID: "o-1", Reason: " wrong size "})
	assert.NoError(t, err)
	assert.Equal(t, model.ReturnStatusPending, rr.Status)

	returns.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestReturnUsecase_AdminUpdateStatus_InvalidStatus(t *testing.T) {
	uc := newReturnTestUsecase(new(ReturnRepoMock), new(OrderRepoMock), new(AdminAuditRepoMock), new(NotifierMock))

	err := uc.AdminUpdateStatus(context.Background(), 1, "r-1", "MAYBE")
	assertErrContains(t, err, "invalid status")
}

// ステータス更新は監査ログを残す。CreatedAtは注入したclockの時刻
func TestReturnUsecase_AdminUpdateStatus_Success_Audits(t *testing.T) {
	returns := new(ReturnRepoMock)
	audit := new(AdminAuditRepoMock)

	returns.On("FindByID", mock.Anything, "r-1").Return(model.ReturnRequest{
		ID:     "r-1",
		Status: model.ReturnStatusPending,
	}, nil)
	returns.On("UpdateStatus", mock.Anything, "r-1", model.ReturnStatusApproved).Return(nil)

	audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ActorUserID == 7 &&
			l.Action == model.AuditActionUpdateReturnStatus &&
			l.ResourceType == model.AuditResourceReturn &&
			l.ResourceID == "r-1" &&
			l.BeforeJSON == `{"status":"PENDING"}` &&
			l.AfterJSON == `{"status":"APPROVED"}` &&
			l.CreatedAt.Equal(returnTestNow)
	})).Return(nil)

	uc := newReturnTestUsecase(returns, new(OrderRepoMock), audit, new(NotifierMock))

	err := uc.AdminUpdateStatus(context.Background(), 7, "r-1", "APPROVED")
	assert.NoError(t, err)

	returns.AssertExpectations(t)
	audit.AssertExpectations(t)
}

// 同じステータスへの更新は何もしない
func TestReturnUsecase_AdminUpdateStatus_SameStatus_NoOp(t *testing.T) {
	returns := new(ReturnRepoMock)
	audit := new(AdminAuditRepoMock)

	returns.On("FindByID", mock.Anything, "r-1").Return(model.ReturnRequest{
		ID:     "r-1",
		Status: model.ReturnStatusPending,
	}, nil)

	uc := newReturnTestUsecase(returns, new(OrderRepoMock), audit, new(NotifierMock))

	err := uc.AdminUpdateStatus(context.Background(), 7, "r-1", "PENDING")
	assert.NoError(t, err)

	returns.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
