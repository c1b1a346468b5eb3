package main

import (
	"log"

	"loja/internal/config"
	"loja/internal/domain/model"
	"loja/internal/handler"
	"loja/internal/infra/db"
	infraRepo "loja/internal/infra/repository"
	"loja/internal/server"
	"loja/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	//.envはローカル開発用。無くても起動する
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.StockMovement{},
		&model.Coupon{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Delivery{},
	); err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	stockRepo := infraRepo.NewStockGormRepository(gormDB)
	couponRepo := infraRepo.NewCouponGormRepository(gormDB)
	cartRepo := infraRepo.NewCartItemGormRepository(gormDB)
	deliveryRepo := infraRepo.NewDeliveryGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo)
	productUC := usecase.NewProductUsecase(productRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo, userRepo)
	orderUC := usecase.NewOrderUsecase(txManager, userRepo)
	stockUC := usecase.NewStockUsecase(txManager, stockRepo, productRepo)
	couponUC := usecase.NewCouponUsecase(couponRepo)
	deliveryUC := usecase.NewDeliveryUsecase(deliveryRepo, orderRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:     handler.NewAuthHandler(authUC),
		Product:  handler.NewProductHandler(productUC),
		Cart:     handler.NewCartHandler(cartUC),
		Order:    handler.NewOrderHandler(orderUC),
		Stock:    handler.NewStockHandler(stockUC),
		Coupon:   handler.NewCouponHandler(couponUC),
		Delivery: handler.NewDeliveryHandler(deliveryUC),
	}

	//Server起動
	e := server.New(cfg, handlers)
	if err := server.Start(e, cfg); err != nil {
		log.Fatal(err)
	}
}
