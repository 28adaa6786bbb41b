package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	catalogapp "github.com/shopdesk/backend/internal/application/catalog"
	inventoryapp "github.com/shopdesk/backend/internal/application/inventory"
	partnerapp "github.com/shopdesk/backend/internal/application/partner"
	tradeapp "github.com/shopdesk/backend/internal/application/trade"
	"github.com/shopdesk/backend/internal/domain/inventory"
	"github.com/shopdesk/backend/internal/domain/trade"
	"github.com/shopdesk/backend/internal/infrastructure/cache"
	"github.com/shopdesk/backend/internal/infrastructure/config"
	"github.com/shopdesk/backend/internal/infrastructure/logger"
	"github.com/shopdesk/backend/internal/infrastructure/persistence"
	"github.com/shopdesk/backend/internal/interfaces/http/handler"
	"github.com/shopdesk/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting shopdesk backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected")

	policy, err := inventory.ParseReversalPolicy(cfg.Stock.ReversalPolicy)
	if err != nil {
		log.Fatal("invalid stock reversal policy", zap.Error(err))
	}

	// Redis is optional: if unreachable, product reads simply skip the cache.
	var productCache catalogapp.ProductCache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, product cache disabled", zap.Error(err))
	} else {
		productCache = cache.NewRedisProductCache(redisClient, cfg.Redis.CacheTTL, log)
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr()))
	}
	cancelPing()

	productRepo := persistence.NewGormProductRepository(db.DB)
	serviceRepo := persistence.NewGormServiceRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)

	scope := persistence.NewGormTransactionScope(db.DB, policy, log)
	calc := trade.NewLineCalculator(trade.CalcDefaults{
		Unit:             cfg.Calc.Unit,
		ConversionFactor: decimal.NewFromFloat(cfg.Calc.ConversionFactor),
		TaxRate:          decimal.NewFromFloat(cfg.Calc.TaxRate),
		AppliesTax:       cfg.Calc.AppliesTax,
		Margin:           decimal.NewFromFloat(cfg.Calc.Margin),
	})

	catalogService := catalogapp.NewService(productRepo, serviceRepo, productCache, calc.Defaults(), log)
	partnerService := partnerapp.NewService(supplierRepo, customerRepo, log)
	inventoryService := inventoryapp.NewService(movementRepo)
	purchaseService := tradeapp.NewPurchaseOrderService(scope, calc, log)
	saleService := tradeapp.NewSaleOrderService(scope, calc, tradeapp.SaleOrderConfig{
		ReverseStockOnCancel: cfg.Trade.ReverseStockOnSaleCancel,
	}, log)

	mode := gin.DebugMode
	if cfg.App.IsProduction() {
		mode = gin.ReleaseMode
	}
	engine := router.New(router.Config{Mode: mode}, log,
		handler.NewProductHandler(catalogService),
		handler.NewPartnerHandler(partnerService),
		handler.NewPurchaseOrderHandler(purchaseService),
		handler.NewSaleOrderHandler(saleService),
		handler.NewStockMovementHandler(inventoryService),
	)

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
