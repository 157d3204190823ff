package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shopthebarber/marketplace-api/internal/audit"
	"github.com/shopthebarber/marketplace-api/internal/config"
	"github.com/shopthebarber/marketplace-api/internal/handlers"
	infraRepo "github.com/shopthebarber/marketplace-api/internal/infra/repository"
	"github.com/shopthebarber/marketplace-api/internal/middleware"
	"github.com/shopthebarber/marketplace-api/internal/notify"
	ucBooking "github.com/shopthebarber/marketplace-api/internal/usecase/booking"
	ucFees "github.com/shopthebarber/marketplace-api/internal/usecase/fees"
	ucPromo "github.com/shopthebarber/marketplace-api/internal/usecase/promo"
	ucReview "github.com/shopthebarber/marketplace-api/internal/usecase/review"
	"github.com/shopthebarber/marketplace-api/internal/webhook"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	queue *notify.Queue,
	cfg *config.Config,
	log *zap.Logger,
	loc *time.Location,
) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingRepository(db)
	feesStore := infraRepo.NewFeesStore(db)
	promoStore := infraRepo.NewPromoStore(db)
	webhookStore := infraRepo.NewWebhookStore(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	deduper := webhook.NewDeduper(rdb, log)

	// ======================================================
	// USE CASES
	// ======================================================
	validateAvailabilityUC := ucBooking.NewValidateAvailability(bookingRepo)

	createBookingUC := ucBooking.NewCreateBooking(
		bookingRepo,
		validateAvailabilityUC,
		queue,
		auditDispatcher,
		log,
		loc,
	)

	cancelBookingUC := ucBooking.NewCancelBooking(bookingRepo, auditDispatcher)
	completeBookingUC := ucBooking.NewCompleteBooking(bookingRepo, auditDispatcher)

	feesEngine := ucFees.NewEngine(feesStore, auditDispatcher)
	promoValidator := ucPromo.NewValidator(promoStore, auditDispatcher)
	submitReviewUC := ucReview.NewSubmitReview(db)

	reconciler := webhook.NewReconciler(
		cfg.StripeWebhookSecret,
		webhookStore,
		deduper,
		auditDispatcher,
		queue,
		log,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	availabilityHandler := handlers.NewAvailabilityHandler(validateAvailabilityUC)
	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		cancelBookingUC,
		completeBookingUC,
		feesEngine,
		bookingRepo,
	)
	feesHandler := handlers.NewFeesHandler(feesEngine)
	promoHandler := handlers.NewPromoHandler(promoValidator)
	reviewHandler := handlers.NewReviewHandler(submitReviewUC)
	shiftHandler := handlers.NewShiftHandler(db)
	checkoutHandler := handlers.NewCheckoutHandler(db, cfg)
	payoutHandler := handlers.NewPayoutHandler(db, auditDispatcher)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	webhookHandler := handlers.NewWebhookHandler(reconciler)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// WEBHOOKS (signature-verified, no JWT)
		// ------------------------------
		api.POST("/webhooks/payment", webhookHandler.Handle)

		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.POST("/validate-availability", availabilityHandler.Validate)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.POST("/bookings", bookingHandler.Create)
			secured.GET("/bookings/:id", bookingHandler.Get)
			secured.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)
			secured.PATCH("/bookings/:id/complete", bookingHandler.Complete)
			secured.GET("/barbers/:barberId/bookings", bookingHandler.ListForBarber)

			secured.POST("/calculate-fees", feesHandler.Handle)
			secured.POST("/validate-promo-code", promoHandler.Validate)
			secured.POST("/reviews", reviewHandler.Create)

			secured.GET("/me/shifts", shiftHandler.Get)
			secured.PUT("/me/shifts", shiftHandler.Update)

			secured.POST("/checkout/booking", checkoutHandler.CheckoutBooking)
			secured.POST("/checkout/cart", checkoutHandler.CheckoutCart)

			admin := secured.Group("/")
			admin.Use(middleware.RequireRole("admin"))
			{
				admin.POST("/payouts", payoutHandler.Create)
				admin.GET("/payouts", payoutHandler.List)
				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
