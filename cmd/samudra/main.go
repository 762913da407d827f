package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/samudra-erp/samudra-erp/internal/access"
	"github.com/samudra-erp/samudra-erp/internal/app"
	"github.com/samudra-erp/samudra-erp/internal/company"
	"github.com/samudra-erp/samudra-erp/internal/dashboard"
	"github.com/samudra-erp/samudra-erp/internal/document"
	"github.com/samudra-erp/samudra-erp/internal/fulfillment"
	"github.com/samudra-erp/samudra-erp/internal/invoicing"
	"github.com/samudra-erp/samudra-erp/internal/orders"
	"github.com/samudra-erp/samudra-erp/internal/platform/cache"
	"github.com/samudra-erp/samudra-erp/internal/platform/db"
	"github.com/samudra-erp/samudra-erp/internal/returns"
	"github.com/samudra-erp/samudra-erp/internal/shared"
	"github.com/samudra-erp/samudra-erp/internal/terms"
	"github.com/samudra-erp/samudra-erp/internal/users"
	"github.com/samudra-erp/samudra-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService)

	accessRepo := access.NewRepository(dbpool)
	accessService := access.NewService(accessRepo)
	accessHandler := access.NewHandler(logger, accessService)

	termsRepo := terms.NewRepository(dbpool)
	termsService := terms.NewService(termsRepo)
	termsHandler := terms.NewHandler(logger, termsService)

	companyRepo := company.NewRepository(dbpool)
	companyService := company.NewService(companyRepo)
	companyHandler := company.NewHandler(logger, companyService)

	ordersRepo := orders.NewRepository(dbpool)
	ordersService := orders.NewService(ordersRepo)

	fulfillmentRepo := fulfillment.NewRepository(dbpool)
	fulfillmentService := fulfillment.NewService(fulfillmentRepo, ordersService, cfg.StrictFulfillment)

	invoicingRepo := invoicing.NewRepository(dbpool)
	invoicingService := invoicing.NewService(invoicingRepo, ordersService)

	returnsRepo := returns.NewRepository(dbpool)
	returnsService := returns.NewService(returnsRepo, invoicingService, ordersService)

	dashboardRepo := dashboard.NewRepository(dbpool)
	dashboardCache := dashboard.NewCache(redisClient, cfg.DashboardCacheTTL)
	dashboardService := dashboard.NewService(dashboardRepo, dashboardCache, cfg.DueSoonDays)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		TokenResolver: usersService,
		Idempotency:   shared.NewIdempotencyStore(dbpool),

		UsersHandler:     usersHandler,
		AccessHandler:    accessHandler,
		TermsHandler:     termsHandler,
		CompanyHandler:   companyHandler,
		DashboardHandler: dashboardHandler,

		PurchaseOrders: orders.NewHandler(logger, ordersService, orders.KindPurchase),
		SalesOrders:    orders.NewHandler(logger, ordersService, orders.KindSales),

		GoodsReceipts:  fulfillment.NewHandler(logger, fulfillmentService, document.KindReceipt),
		DeliveryOrders: fulfillment.NewHandler(logger, fulfillmentService, document.KindDelivery),

		PurchaseInvoices: invoicing.NewHandler(logger, invoicingService, orders.KindPurchase),
		SalesInvoices:    invoicing.NewHandler(logger, invoicingService, orders.KindSales),

		PurchaseReturns: returns.NewHandler(logger, returnsService, orders.KindPurchase),
		SalesReturns:    returns.NewHandler(logger, returnsService, orders.KindSales),

		JobsHandler: jobsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
