package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/malehdhliso/chartedart-backend/api/controllers"
	"github.com/malehdhliso/chartedart-backend/api/middleware"
	"github.com/malehdhliso/chartedart-backend/internal/auth"
	"github.com/malehdhliso/chartedart-backend/internal/cart"
	"github.com/malehdhliso/chartedart-backend/internal/competitions"
	"github.com/malehdhliso/chartedart-backend/internal/events"
	"github.com/malehdhliso/chartedart-backend/internal/initiatives"
	"github.com/malehdhliso/chartedart-backend/internal/media"
	"github.com/malehdhliso/chartedart-backend/internal/orders"
	"github.com/malehdhliso/chartedart-backend/internal/variants"
	"github.com/malehdhliso/chartedart-backend/pkg/config"
	"github.com/malehdhliso/chartedart-backend/pkg/db"
	"github.com/malehdhliso/chartedart-backend/pkg/enums"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
	"github.com/malehdhliso/chartedart-backend/pkg/redis"
	"github.com/malehdhliso/chartedart-backend/pkg/storage/gcs"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gcsP gcs.Pinger,
	authService auth.Service,
	registerService auth.RegisterService,
	variantService variants.Service,
	cartService cart.Service,
	competitionService competitions.Service,
	orderService orders.Service,
	eventService events.Service,
	initiativeService initiatives.Service,
	mediaService media.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient, gcsP))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
			Post("/register", controllers.AuthRegister(registerService, authService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/auth/login", controllers.AdminAuthLogin(authService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Get("/orders", controllers.AdminOrderList(orderService, logg))
			r.Patch("/orders/{orderID}/status", controllers.AdminOrderSetStatus(orderService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public reads. A bearer token is honored when present so that
		// per-caller fields (voted_by_me, my_status, cart count) fill in.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))

			r.Get("/variants", controllers.VariantList(variantService, logg))
			r.Get("/competitions", controllers.CompetitionList(competitionService, logg))
			r.Get("/competitions/{competitionID}", controllers.CompetitionGet(competitionService, logg))
			r.Get("/competitions/{competitionID}/entries", controllers.CompetitionEntries(competitionService, logg))
			r.Get("/events", controllers.EventList(eventService, logg))
			r.Get("/initiatives", controllers.InitiativeList(initiativeService, logg))
			r.Get("/initiatives/{initiativeID}", controllers.InitiativeGet(initiativeService, logg))
			r.Get("/initiatives/{initiativeID}/collage", controllers.InitiativeCollageList(initiativeService, logg))
			r.Get("/cart/count", controllers.CartItemCount(cartService, logg))
		})

		// Authenticated workflows.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Post("/variants/resolve", controllers.VariantResolve(variantService, logg))
			r.Get("/cart", controllers.CartGet(cartService, logg))
			r.Post("/cart/items", controllers.CartAddItem(cartService, logg))
			r.Post("/competitions/{competitionID}/submissions", controllers.CompetitionSubmit(competitionService, logg))
			r.Post("/competitions/entries/{entryID}/vote", controllers.CompetitionVote(competitionService, logg))
			r.Post("/events/{eventID}/rsvp", controllers.EventRSVP(eventService, logg))
			r.Post("/initiatives/{initiativeID}/collage", controllers.InitiativeCollageSubmit(initiativeService, logg))
			r.Get("/orders", controllers.OrderListMine(orderService, logg))
			r.Post("/orders", controllers.OrderSubmit(orderService, logg))
			r.Post("/media/upload", controllers.MediaUpload(mediaService, logg))
			r.Post("/media/validate", controllers.MediaValidate(logg))
		})
	})

	return r
}
