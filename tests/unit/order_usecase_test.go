package unit

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	profiles   repo.ProfileRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *TxReposMock) Profiles() repo.ProfileRepository     { return r.profiles }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByEmail(ctx context.Context, email string, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, email, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateFields(ctx context.Context, orderID string, fields map[string]interface{}) error {
	args := m.Called(ctx, orderID, fields)
	return args.Error(0)
}

func (m *OrderRepoMock) MarkPaid(ctx context.Context, orderID string, paymentRef string, metadata string) error {
	args := m.Called(ctx, orderID, paymentRef, metadata)
	return args.Error(0)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type ProfileRepoMock struct{ mock.Mock }

func (m *ProfileRepoMock) FindByID(ctx context.Context, profileID string) (model.Profile, error) {
	args := m.Called(ctx, profileID)
	p, _ := args.Get(0).(model.Profile)
	return p, args.Error(1)
}

func (m *ProfileRepoMock) FindByEmail(ctx context.Context, email string) (model.Profile, error) {
	args := m.Called(ctx, email)
	p, _ := args.Get(0).(model.Profile)
	return p, args.Error(1)
}

func (m *ProfileRepoMock) UpdatePoints(ctx context.Context, profileID string, newBalance int64) error {
	args := m.Called(ctx, profileID, newBalance)
	return args.Error(0)
}

// =====================
// Notifier mock
// =====================

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) NotifyOrderConfirmation(o model.Order, items []model.OrderItem) {
	m.Called(o, items)
}

func (m *NotifierMock) NotifyOrderStatus(o model.Order) {
	m.Called(o)
}

func (m *NotifierMock) NotifyReturnRequested(r model.ReturnRequest, o model.Order) {
	m.Called(r, o)
}

// =====================
// 固定のidGen/clock
// =====================

type fixedIDGen struct{ id string }

func (g *fixedIDGen) NewID() string { return g.id }

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

// =====================
// Helper: error contains（HTTPErrorの実装詳細に依存しない）
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

// =====================
// Create tests
// =====================

func newOrderTestUsecase(tx *TxManagerMock, notifier *NotifierMock) *usecase.OrderUsecase {
	return usecase.NewOrderUsecase(
		tx,
		notifier,
		&fixedIDGen{id: "11111111-2222-3333-4444-555555555555"},
		&fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	)
}

func TestOrderUsecase_Create_EmptyCart(t *testing.T) {
	tx := new(TxManagerMock)
	notifier := new(NotifierMock)
	uc := newOrderTestUsecase(tx, notifier)

	_, err := uc.Create(context.Background(), usecase.CreateOrderInput{
		CustomerEmail: "a@example.com",
		Total:         1000,
	})
	assertErrContains(t, err, "cart empty")
}

func TestOrderUsecase_Create_InvalidTotal(t *testing.T) {
	tx := new(TxManagerMock)
	notifier := new(NotifierMock)
	uc := newOrderTestUsecase(tx, notifier)

	_, err := uc.Create(context.Background(), usecase.CreateOrderInput{
		CustomerEmail: "a@example.com",
		Items:         []usecase.CreateOrderItemInput{{ProductID: 1, Quantity: 1, Price: 100}},
		Total:         0,
	})
	assertErrContains(t, err, "invalid total")
}

func TestOrderUsecase_Create_InvalidItem(t *testing.T) {
	tx := new(TxManagerMock)
	notifier := new(NotifierMock)
	uc := newOrderTestUsecase(tx, notifier)

	_, err := uc.Create(context.Background(), usecase.CreateOrderInput{
		CustomerEmail: "a@example.com",
		Items:         []usecase.CreateOrderItemInput{{ProductID: 0, Quantity: 1, Price: 100}},
		Total:         100,
	})
	assertErrContains(t, err, "invalid item")
}

// 注文＋明細が1トランザクションで書かれ、確認メールが呼ばれる
func TestOrderUsecase_Create_Success_GuestOrder(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	profilesRepo := new(ProfileRepoMock)
	notifier := new(NotifierMock)

	tx.Repos = &TxReposMock{orders: ordersRepo, orderItems: itemsRepo, profiles: profilesRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orderID := "11111111-2222-3333-4444-555555555555"

	ordersRepo.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.ID == orderID &&
			o.Status == model.OrderStatusProcessing &&
			o.CustomerEmail == "guest@example.com" &&
			o.Total == 150000 &&
			o.ProfileID == nil
	})).Return(nil)

	itemsRepo.On("CreateBulk", mock.Anything, orderID, mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2 && items[0].ProductID == 1 && items[1].Quantity == 3
	})).Return(nil)

	notifier.On("NotifyOrderConfirmation", mock.Anything, mock.Anything).Return()

	uc := newOrderTestUsecase(tx, notifier)

	out, err := uc.Create(ctx, usecase.CreateOrderInput{
		CustomerEmail: " GUEST@example.com ",
		Items: []usecase.CreateOrderItemInput{
			{ProductID: 1, Quantity: 1, Price: 50000, Name: "Tee"},
			{ProductID: 2, Quantity: 3, Price: 30000, Name: "Cap"},
		},
		Total: 150000,
	})
	assert.NoError(t, err)
	assert.Equal(t, orderID, out.Order.ID)
	assert.Equal(t, 2, len(out.Items))
	assert.Equal(t, orderID, out.Items[0].OrderID)

	ordersRepo.AssertExpectations(t)
	itemsRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
	// ゲスト注文ではプロフィールに触らない
	profilesRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

// 明細のinsert失敗はトランザクションごと失敗し、メールも飛ばない
func TestOrderUsecase_Create_ItemInsertFails_RollsBack(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	notifier := new(NotifierMock)

	tx.Repos = &TxReposMock{orders: ordersRepo, orderItems: itemsRepo, profiles: new(ProfileRepoMock)}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	itemsRepo.On("CreateBulk", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db down"))

	uc := newOrderTestUsecase(tx, notifier)

	_, err := uc.Create(ctx, usecase.CreateOrderInput{
		CustomerEmail: "a@example.com",
		Items:         []usecase.CreateOrderItemInput{{ProductID: 1, Quantity: 1, Price: 100}},
		Total:         100,
	})
	assertErrContains(t, err, "db error")

	notifier.AssertNotCalled(t, "NotifyOrderConfirmation", mock.Anything, mock.Anything)
}

// ポイント調整：残高 = 100 - 30 + 10 = 80
func TestOrderUsecase_Create_LoyaltyAdjustment(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	profilesRepo := new(ProfileRepoMock)
	notifier := new(NotifierMock)

	tx.Repos = &TxReposMock{orders: ordersRepo, orderItems: itemsRepo, profiles: profilesRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	profileID := "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"

	ordersRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	itemsRepo.On("CreateBulk", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	profilesRepo.On("FindByID", mock.Anything, profileID).Return(model.Profile{ID: profileID, LoyaltyPoints: 100}, nil)
	profilesRepo.On("UpdatePoints", mock.Anything, profileID, int64(80)).Return(nil)
	notifier.On("NotifyOrderConfirmation", mock.Anything, mock.Anything).Return()

	uc := newOrderTestUsecase(tx, notifier)

	_, err := uc.Create(ctx, usecase.CreateOrderInput{
		ProfileID:     &profileID,
		CustomerEmail: "member@example.com",
		Items:         []usecase.CreateOrderItemInput{{ProductID: 1, Quantity: 1, Price: 100}},
		Total:         100,
		PointsUsed:    30,
		PointsEarned:  10,
	})
	assert.NoError(t, err)

	profilesRepo.AssertExpectations(t)
}

// プロフィールが存在しない場合はポイント調整をスキップして注文は成功
func TestOrderUsecase_Create_MissingProfile_SkipsLoyalty(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	profilesRepo := new(ProfileRepoMock)
	notifier := new(NotifierMock)

	tx.Repos = &TxReposMock{orders: ordersRepo, orderItems: itemsRepo, profiles: profilesRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	profileID := "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"

	ordersRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	itemsRepo.On("CreateBulk", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	profilesRepo.On("FindByID", mock.Anything, profileID).Return(model.Profile{}, repo.ErrNotFound)
	notifier.On("NotifyOrderConfirmation", mock.Anything, mock.Anything).Return()

	uc := newOrderTestUsecase(tx, notifier)

	out, err := uc.Create(ctx, usecase.CreateOrderInput{
		ProfileID:     &profileID,
		CustomerEmail: "member@example.com",
		Items:         []usecase.CreateOrderItemInput{{ProductID: 1, Quantity: 1, Price: 100}},
		Total:         100,
		PointsUsed:    30,
	})
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusProcessing, out.Order.Status)

	//存在しないプロフィールを勝手に作らない
	profilesRepo.AssertNotCalled(t, "UpdatePoints", mock.Anything, mock.Anything, mock.Anything)
}

// マイナス残高も許す（床を設けない）
func TestOrderUsecase_Create_LoyaltyCanGoNegative(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	profilesRepo := new(ProfileRepoMock)
	notifier := new(NotifierMock)

	tx.Repos = &TxReposMock{orders: ordersRepo, orderItems: itemsRepo, profiles: profilesRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	profileID := "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"

	ordersRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	itemsRepo.On("CreateBulk", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	profilesRepo.On("FindByID", mock.Anything, profileID).Return(model.Profile{ID: profileID, LoyaltyPoints: 10}, nil)
	profilesRepo.On("UpdatePoints", mock.Anything, profileID, int64(-20)).Return(nil)
	notifier.On("NotifyOrderConfirmation", mock.Anything, mock.Anything).Return()

	uc := newOrderTestUsecase(tx, notifier)

	_, err := uc.Create(ctx, usecase.CreateOrderInput{
		ProfileID:     &profileID,
		CustomerEmail: "member@example.com",
		Items:         []usecase.CreateOrderItemInput{{ProductID: 1, Quantity: 1, Price: 100}},
		Total:         100,
		PointsUsed:    30,
	})
	assert.NoError(t, err)

	profilesRepo.AssertExpectations(t)
}

// =====================
// Get / ListByEmail
// =====================

func TestOrderUsecase_Get_NotFound(t *testing.T) {
	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo, orderItems: new(OrderItemRepoMock), profiles: new(ProfileRepoMock)}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, "missing-id").Return(model.Order{}, repo.ErrNotFound)

	uc := newOrderTestUsecase(tx, new(NotifierMock))

	_, err := uc.Get(context.Background(), "missing-id")
	assertErrContains(t, err, "not found")
}

func TestOrderUsecase_ListByEmail_EmptyEmail(t *testing.T) {
	uc := newOrderTestUsecase(new(TxManagerMock), new(NotifierMock))

	_, err := uc.ListByEmail(context.Background(), "  ")
	assertErrContains(t, err, "email required")
}
