package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"utilhub/internal/http/handlers"
	"utilhub/internal/middleware"
)

func NewRouter(app *handlers.App, countryLookup middleware.CountryLookup) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(app.Logger))
	r.Use(middleware.CORS(app.Cfg.CORSOrigins))
	r.Use(middleware.RateLimit(app.Cfg.RateLimitPerMin, time.Minute))
	r.Use(middleware.Locale(app.Cfg.DefaultLocale, countryLookup))

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/signup", app.Signup)
		r.Post("/signin", app.Signin)
		r.Post("/signout", app.Signout)
	})

	r.With(middleware.AuthJWT(app.Cfg.JWTSecret)).Get("/v1/me", app.Me)

	r.Route("/v1/todos", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(app.Cfg.JWTSecret))
		r.Get("/", app.TodosList)
		r.Post("/", app.TodosAdd)
		r.Patch("/{id}/toggle", app.TodosToggle)
		r.Delete("/{id}", app.TodosDelete)
	})

	r.Route("/v1/chat", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(app.Cfg.JWTSecret))
		r.Get("/messages", app.ChatMessages)
		r.Post("/messages", app.ChatSend)
		r.Get("/stream", app.ChatStream)
	})

	r.Post("/v1/calc", app.Calculate)
	r.Get("/v1/convert", app.Convert)
	r.Get("/v1/convert/units", app.ConvertUnits)

	r.Get("/v1/products", app.Products)

	r.Route("/v1/payments", func(r chi.Router) {
		r.With(middleware.AuthJWT(app.Cfg.JWTSecret)).Post("/checkout", app.PaymentsCheckout)
		r.Get("/success", app.PaymentsSuccess)
		r.Get("/fail", app.PaymentsFail)
	})

	r.NotFound(func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
		app.NotFound(w, req)
	})

	return r
}
