package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/hotel-billing-api/internal/application/service"
	"github.com/sangkips/hotel-billing-api/internal/config"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/database"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/repository"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/handler"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/middleware"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/routes"
	"github.com/sangkips/hotel-billing-api/pkg/broker"
	"github.com/sangkips/hotel-billing-api/pkg/fxrate"
	"github.com/sangkips/hotel-billing-api/pkg/keylock"
	"github.com/sangkips/hotel-billing-api/pkg/printer"
	"github.com/sangkips/hotel-billing-api/pkg/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := database.SeedDefaultData(db, &cfg.Seed); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Exchange rate: serve the fallback until the first fetch succeeds
	fallback, err := decimal.NewFromString(cfg.FX.FallbackRate)
	if err != nil {
		log.Fatalf("Invalid FX_FALLBACK_RATE %q: %v", cfg.FX.FallbackRate, err)
	}
	rates := fxrate.NewCache(
		fxrate.NewHTTPSource(cfg.FX.SourceURL, cfg.FX.QuoteCurrency, cfg.FX.Timeout),
		fallback,
		cfg.FX.RefreshInterval,
		cfg.FX.MaxRetries,
	)
	if err := rates.Init(ctx); err != nil {
		log.Printf("Warning: using fallback exchange rate %s: %v", fallback, err)
	}

	var events broker.Publisher = broker.Null{}
	if cfg.Broker.URL != "" {
		rabbit, err := broker.NewRabbitMQ(cfg.Broker.URL, cfg.Broker.Exchange)
		if err != nil {
			log.Printf("Warning: events disabled, broker unavailable: %v", err)
		} else {
			events = rabbit
		}
	}
	defer events.Close()

	thermalPrinter, err := printer.New(printer.Options{
		Type:         cfg.Printer.Type,
		USBPath:      cfg.Printer.USBPath,
		Address:      cfg.Printer.Address,
		WriteTimeout: cfg.Printer.WriteTimeout,
	})
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter, _ = printer.New(printer.Options{Type: "none"})
	}

	ids, err := utils.NewIDGenerator(cfg.App.NodeID)
	if err != nil {
		log.Fatalf("Failed to create id generator: %v", err)
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.ExpiryHours)

	// Repositories
	tx := repository.NewTransactor(db, repository.TxOptions{
		Timeout:    cfg.Database.QueryTimeout,
		MaxRetries: cfg.Database.MaxRetries,
		Backoff:    cfg.Database.RetryBackoff,
	})
	userRepo := repository.NewUserRepository(db)
	roomTypeRepo := repository.NewRoomTypeRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	menuRepo := repository.NewMenuItemRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager, cfg.JWT.ExpiryHours)
	availabilityService := service.NewAvailabilityService(roomTypeRepo, reservationRepo, rates)
	invoiceService := service.NewInvoiceService(tx, invoiceRepo, events, cfg.Hotel.InvoicePrefix)
	bookingService := service.NewBookingService(
		tx, roomTypeRepo, reservationRepo, availabilityService, invoiceService,
		rates, keylock.New(), cfg.Database.QueryTimeout, ids, events,
	)
	orderService := service.NewOrderService(
		tx, orderRepo, menuRepo, reservationRepo, userRepo, invoiceService,
		rates, ids, events,
	)
	printerService := service.NewPrinterService(thermalPrinter, invoiceRepo,
		service.ReceiptHeader{
			HotelName: cfg.Hotel.Name,
			Address:   cfg.Hotel.Address,
			Phone:     cfg.Hotel.Phone,
		},
		service.ReceiptOptions{
			PaperWidth: cfg.Printer.PaperWidth,
			AutoCut:    cfg.Printer.AutoCut,
			OpenDrawer: cfg.Printer.OpenDrawer,
		},
	)

	rateLimiter := middleware.NewClientRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	defer rateLimiter.Close()

	router := routes.Setup(&routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Booking: handler.NewBookingHandler(bookingService, availabilityService),
		Invoice: handler.NewInvoiceHandler(invoiceService, printerService),
		Pos:     handler.NewPosHandler(orderService),
		FX:      handler.NewFXHandler(rates),
	}, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Starting %s server on port %s (%s)", cfg.App.Name, cfg.App.Port, cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return rates.Run(gctx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := idempotencyRepo.DeleteExpired(gctx); err != nil {
					log.Printf("Failed to purge idempotency keys: %v", err)
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server stopped with error: %v", err)
	}
	log.Println("Server stopped")
}
