package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-storefront/internal/config"
	"go-storefront/internal/handler"
	"go-storefront/internal/middleware"
	"go-storefront/internal/model"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Audit   *handler.AuditHandler
	Product *handler.ProductHandler
	Cart    *handler.CartHandler
	Health  *handler.HealthHandler
	Docs    *handler.DocsHandler
}

func New(cfg *config.Config, gate *middleware.SessionGate, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", h.Health.Live)
	r.Get("/health/ready", h.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", h.Docs.OpenAPI)
	r.Get("/swagger", h.Docs.SwaggerUI)

	adminOnly := gate.RequireRoles(model.RoleAdmin)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
			auth.Post("/logout", h.Auth.Logout)

			auth.Group(func(session chi.Router) {
				session.Use(gate.Authenticate)
				session.Get("/check", h.Auth.Check)
				session.Get("/me", h.Auth.Me)
				session.Put("/me/username", h.Auth.UpdateUsername)
				session.Put("/me/password", h.Auth.UpdatePassword)
			})
		})

		api.Route("/users", func(users chi.Router) {
			users.Use(gate.Authenticate, adminOnly)
			users.Get("/", h.User.List)
			users.Put("/{id}/role", h.User.ChangeRole)
			users.Delete("/{id}", h.User.Delete)
		})

		api.With(gate.Authenticate, adminOnly).Get("/audit", h.Audit.List)

		api.Route("/products", func(products chi.Router) {
			products.Get("/", h.Product.List)
			products.Get("/{id}", h.Product.Get)
			products.With(gate.Authenticate, adminOnly).Post("/", h.Product.Create)
			products.With(gate.Authenticate, adminOnly).Put("/{id}", h.Product.Update)
			products.With(gate.Authenticate, adminOnly).Delete("/{id}", h.Product.Delete)
		})

		api.Route("/cart", func(cart chi.Router) {
			cart.Use(gate.Authenticate)
			cart.Get("/", h.Cart.Get)
			cart.Post("/", h.Cart.Add)
			cart.Put("/", h.Cart.Update)
			cart.Delete("/{product_id}", h.Cart.Remove)
		})
	})

	return r
}
