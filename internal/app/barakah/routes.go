package barakah

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/barakahtool/barakah-backend/internal/config"
	accesscheck "github.com/barakahtool/barakah-backend/internal/http/handlers/access/check"
	accesscheckemail "github.com/barakahtool/barakah-backend/internal/http/handlers/access/checkemail"
	accesslist "github.com/barakahtool/barakah-backend/internal/http/handlers/access/list"
	admingrant "github.com/barakahtool/barakah-backend/internal/http/handlers/admin/grant"
	adminrevoke "github.com/barakahtool/barakah-backend/internal/http/handlers/admin/revoke"
	adminusers "github.com/barakahtool/barakah-backend/internal/http/handlers/admin/users"
	authlogin "github.com/barakahtool/barakah-backend/internal/http/handlers/auth/login"
	authme "github.com/barakahtool/barakah-backend/internal/http/handlers/auth/me"
	authregister "github.com/barakahtool/barakah-backend/internal/http/handlers/auth/register"
	checkoutcreate "github.com/barakahtool/barakah-backend/internal/http/handlers/checkout/create"
	"github.com/barakahtool/barakah-backend/internal/http/handlers/health"
	paymentverify "github.com/barakahtool/barakah-backend/internal/http/handlers/payment/verify"
	paymentwebhook "github.com/barakahtool/barakah-backend/internal/http/handlers/payment/webhook"
	productlist "github.com/barakahtool/barakah-backend/internal/http/handlers/product/list"
	productread "github.com/barakahtool/barakah-backend/internal/http/handlers/product/read"
	sessioncreate "github.com/barakahtool/barakah-backend/internal/http/handlers/session/create"
	sessionremove "github.com/barakahtool/barakah-backend/internal/http/handlers/session/remove"
	sessionvalidate "github.com/barakahtool/barakah-backend/internal/http/handlers/session/validate"
	usagelog "github.com/barakahtool/barakah-backend/internal/http/handlers/usage/log"
	userread "github.com/barakahtool/barakah-backend/internal/http/handlers/user/read"
	userupsert "github.com/barakahtool/barakah-backend/internal/http/handlers/user/upsert"
	"github.com/barakahtool/barakah-backend/internal/http/middlewarectx"
	"github.com/barakahtool/barakah-backend/internal/paymentprovider"
	accessservice "github.com/barakahtool/barakah-backend/internal/services/access"
	authservice "github.com/barakahtool/barakah-backend/internal/services/auth"
	catalogservice "github.com/barakahtool/barakah-backend/internal/services/catalog"
	checkoutservice "github.com/barakahtool/barakah-backend/internal/services/checkout"
	reconcileservice "github.com/barakahtool/barakah-backend/internal/services/reconcile"
	usageservice "github.com/barakahtool/barakah-backend/internal/services/usage"
	userservice "github.com/barakahtool/barakah-backend/internal/services/user"
	"github.com/barakahtool/barakah-backend/internal/storage/repository"
)

// Services объединяет бизнес-логику приложения для передачи в маршруты.
type Services struct {
	Catalog   *catalogservice.Service
	User      *userservice.Service
	Checkout  *checkoutservice.Service
	Reconcile *reconcileservice.Service
	Access    *accessservice.Service
	Auth      *authservice.Service
	Usage     *usageservice.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	db *repository.Storage, s *Services,
	verifier *paymentprovider.WebhookVerifier, jwtMaker middlewarectx.TokenParser) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Stripe-Signature"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authLimiter := rate.NewLimiter(rate.Limit(5), 10)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/users", userupsert.New(logger, s.User).ServeHTTP)
		r.Get("/users/email/{email}", userread.New(logger, s.User).ServeHTTP)
		r.Get("/products", productlist.New(logger, s.Catalog).ServeHTTP)
		r.Get("/products/type/{type}", productread.New(logger, s.Catalog).ServeHTTP)

		r.Post("/stripe/create-checkout-session", checkoutcreate.New(logger, s.Checkout).ServeHTTP)
		r.Post("/stripe/verify-payment", paymentverify.New(logger, s.Reconcile).ServeHTTP)
		// Webhook endpoint (без аутентификации, подпись проверяется в обработчике)
		r.Post("/stripe/webhook", paymentwebhook.New(logger, verifier, s.Reconcile).ServeHTTP)

		r.Get("/access/{user_uid}/{product_type}", accesscheck.New(logger, s.Access).ServeHTTP)
		r.Get("/access/{user_uid}", accesslist.New(logger, s.Access).ServeHTTP)
		r.Post("/access/check", accesscheckemail.New(logger, s.Access).ServeHTTP)

		r.Post("/usage", usagelog.New(logger, s.Usage).ServeHTTP)

		r.Post("/sessions", sessioncreate.New(logger, s.Auth).ServeHTTP)
		r.Post("/sessions/validate", sessionvalidate.New(logger, s.Auth).ServeHTTP)
		r.Delete("/sessions/{token}", sessionremove.New(logger, s.Auth).ServeHTTP)

		// Эндпоинты аутентификации с ограничением частоты
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(authLimiter, logger))
			r.Post("/auth/register", authregister.New(logger, s.Auth).ServeHTTP)
			r.Post("/auth/login", authlogin.New(logger, s.Auth).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Get("/auth/me", authme.New(logger, s.Auth, s.Access).ServeHTTP)

			// Административные операции
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Post("/admin/grant-access", admingrant.New(logger, s.Access).ServeHTTP)
				r.Post("/admin/revoke-access", adminrevoke.New(logger, s.Access).ServeHTTP)
				r.Get("/admin/users", adminusers.New(logger, s.User).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
