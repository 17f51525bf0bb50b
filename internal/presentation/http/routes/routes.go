package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/hotel-billing-api/internal/config"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/handler"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/middleware"
	"github.com/sangkips/hotel-billing-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	Booking *handler.BookingHandler
	Invoice *handler.InvoiceHandler
	Pos     *handler.PosHandler
	FX      *handler.FXHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	api := router.Group("/api")
	if deps.RateLimiter != nil {
		api.Use(deps.RateLimiter.Middleware())
	}
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	registerPublicRoutes(api, h, deps, idempotent)

	staff := api.Group("")
	staff.Use(middleware.AuthMiddleware(deps.JWTManager))
	staff.Use(middleware.RequireRole(enum.StaffRoles...))
	staff.Use(idempotent)

	registerBookingRoutes(staff, h)
	registerInvoiceRoutes(staff, h)
	registerPosRoutes(staff, h)

	return router
}

func registerPublicRoutes(api *gin.RouterGroup, h *Handlers, deps *Deps, idempotent gin.HandlerFunc) {
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/fx-rate", h.FX.Rate)
	api.GET("/booking/available", h.Booking.Available)

	// Guests may book without an account; a valid token attaches the owner.
	api.POST("/booking",
		middleware.OptionalAuthMiddleware(deps.JWTManager),
		idempotent,
		h.Booking.Create,
	)
}

func registerBookingRoutes(staff *gin.RouterGroup, h *Handlers) {
	booking := staff.Group("/booking")
	{
		booking.GET("", h.Booking.List)
		booking.GET("/:id", h.Booking.Get)
		booking.PUT("/:id", h.Booking.Update)
	}
}

func registerInvoiceRoutes(staff *gin.RouterGroup, h *Handlers) {
	invoice := staff.Group("/invoice")
	{
		invoice.GET("", h.Invoice.List)
		invoice.GET("/printer", h.Invoice.PrinterStatus)
		invoice.GET("/:id", h.Invoice.Get)
		invoice.POST("/:id/print", h.Invoice.Print)
		invoice.POST("/apply-discount", h.Invoice.ApplyDiscount)
		invoice.POST("/apply-vat", h.Invoice.ApplyVAT)
		invoice.POST("/reset-invoice", h.Invoice.Reset)
		invoice.POST("/finalize-invoice/:id", h.Invoice.Finalize)
	}
}

func registerPosRoutes(staff *gin.RouterGroup, h *Handlers) {
	pos := staff.Group("/pos")
	{
		pos.GET("", h.Pos.List)
		pos.GET("/menu", h.Pos.Menu)
		pos.GET("/:id", h.Pos.Get)
		pos.POST("/create-pos", h.Pos.CreateForBooking)
		pos.POST("/create-pos-walkin", h.Pos.CreateWalkIn)
		pos.POST("/create-pos-member", h.Pos.CreateForMember)
	}
}
