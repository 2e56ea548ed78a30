package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/notification"
	"app/internal/payment"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envは無くても良い（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Profile{},
		&model.Product{},
		&model.Category{},
		&model.Coupon{},
		&model.Banner{},
		&model.FAQ{},
		&model.Order{},
		&model.OrderItem{},
		&model.ReturnRequest{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	couponRepo := infraRepo.NewCouponGormRepository(gormDB)
	bannerRepo := infraRepo.NewBannerGormRepository(gormDB)
	faqRepo := infraRepo.NewFAQGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	returnRepo := infraRepo.NewReturnGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//通知（SMTP未設定ならno-op）
	mailer := notification.NewSMTPMailer(cfg)
	dispatcher := notification.NewDispatcher(mailer, 64)
	notifier := notification.NewService(dispatcher, cfg.AdminEmail)

	//決済プロバイダ
	jekoClient := payment.NewClient(cfg)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, rtRepo, validator.NewAuthValidator(userRepo))
	productUC := usecase.NewProductUsecase(productRepo, inventoryRepo, auditRepo, clock)
	orderUC := usecase.NewOrderUsecase(txManager, notifier, idGen, clock)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, auditRepo, notifier, clock)
	paymentUC := usecase.NewPaymentUsecase(jekoClient)
	webhookUC := usecase.NewWebhookUsecase(orderRepo, cfg.JekoWebhookSecret, clock)
	returnUC := usecase.NewReturnUsecase(returnRepo, orderRepo, auditRepo, notifier, idGen, clock)
	catalogUC := usecase.NewCatalogUsecase(categoryRepo, bannerRepo, faqRepo)
	couponUC := usecase.NewCouponUsecase(couponRepo, clock)

	//Handler生成
	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC, cfg),
		Product:      handler.NewProductHandler(productUC),
		Order:        handler.NewOrderHandler(orderUC),
		Payment:      handler.NewPaymentHandler(paymentUC, webhookUC),
		Return:       handler.NewReturnHandler(returnUC),
		Catalog:      handler.NewCatalogHandler(catalogUC, couponUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		AdminCatalog: handler.NewAdminCatalogHandler(catalogUC, couponUC),
	}

	srv := server.New(cfg)
	srv.RegisterRoutes(handlers, cfg, userRepo)

	//SIGINT/SIGTERMで止める
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}

	//未送信メールを吐き切ってから終了
	dispatcher.Close()
}
