package main

import (
	"log"
	"time"

	"gallery/internal/config"
	"gallery/internal/domain/model"
	"gallery/internal/handler"
	"gallery/internal/infra/db"
	"gallery/internal/infra/mail"
	infraRepo "gallery/internal/infra/repository"
	"gallery/internal/server"
	"gallery/internal/usecase"
	"gallery/internal/validator"

	"github.com/joho/godotenv"
)

func main() {
	//.envは無くてもよい（環境変数直指定で動く）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.PendingRegistration{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.OneTimeCode{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderStatusHistory{},
		&model.Address{},
		&model.CommissionRequest{},
		&model.AuditLog{},
		&model.InventoryAdjustment{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenGormRepository(gormDB)
	pendingRepo := infraRepo.NewPendingRegistrationGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	otpRepo := infraRepo.NewOneTimeCodeGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	commissionRepo := infraRepo.NewCommissionGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	clock := usecase.RealClock{}

	//確認コードの送信先（SMTP未設定ならコンソール）
	var sender usecase.CodeSender
	if cfg.SMTPHost != "" {
		sender = mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	} else {
		sender = mail.NewConsoleSender()
	}

	authValidator := validator.NewAuthValidator(userRepo)
	shippingValidator := validator.NewShippingValidator()

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, rtRepo, pendingRepo, authValidator, sender, clock)
	productUC := usecase.NewProductUsecase(productRepo, inventoryRepo, auditRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, productRepo)
	otpUC := usecase.NewOtpUsecase(otpRepo, userRepo, sender, clock, time.Duration(cfg.OtpTTLMinutes)*time.Minute)
	checkoutUC := usecase.NewCheckoutUsecase(
		txManager,
		cartRepo,
		cartRepo,
		otpUC,
		shippingValidator,
		usecase.PricingConfig{
			ShippingFlatFee: cfg.ShippingFlatFee,
			TaxRatePercent:  cfg.TaxRatePercent,
		},
		clock,
	)
	orderUC := usecase.NewOrderUsecase(txManager)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, auditRepo, clock)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	commissionUC := usecase.NewCommissionUsecase(commissionRepo, auditRepo, clock)
	analyticsUC := usecase.NewAnalyticsUsecase(orderRepo, orderItemRepo)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:            handler.NewAuthHandler(cfg, userRepo, authUC),
		Product:         handler.NewProductHandler(productUC),
		Cart:            handler.NewCartHandler(cartUC, checkoutUC),
		Order:           handler.NewOrderHandler(orderUC, checkoutUC),
		Address:         handler.NewAddressHandler(addressUC),
		Commission:      handler.NewCommissionHandler(commissionUC),
		AdminProduct:    handler.NewAdminProductHandler(productUC),
		AdminOrder:      handler.NewAdminOrderHandler(adminOrderUC),
		AdminCommission: handler.NewAdminCommissionHandler(commissionUC),
		AdminUser:       handler.NewAdminUserHandler(cfg, userRepo, authUC, auditUC),
		AdminAnalytics:  handler.NewAdminAnalyticsHandler(analyticsUC),
	}

	//Server起動
	if err := server.Start(cfg, userRepo, handlers); err != nil {
		log.Fatalf("server: %v", err)
	}
}
