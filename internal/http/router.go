package http

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/unrolled/secure"

	"github.com/MrJamesThe3rd/stockroom/internal/auth"
	"github.com/MrJamesThe3rd/stockroom/internal/config"
	authHttp "github.com/MrJamesThe3rd/stockroom/internal/http/auth"
	"github.com/MrJamesThe3rd/stockroom/internal/http/health"
	"github.com/MrJamesThe3rd/stockroom/internal/http/importcsv"
	"github.com/MrJamesThe3rd/stockroom/internal/http/invoice"
	"github.com/MrJamesThe3rd/stockroom/internal/http/product"
	"github.com/MrJamesThe3rd/stockroom/internal/http/render"
	"github.com/MrJamesThe3rd/stockroom/internal/http/report"
	"github.com/MrJamesThe3rd/stockroom/internal/http/transaction"
)

type Handlers struct {
	Auth         *authHttp.Handler
	Products     *product.Handler
	Transactions *transaction.Handler
	Invoices     *invoice.Handler
	Reports      *report.Handler
	Import       *importcsv.Handler
}

func New(cfg *config.Config, tokens *auth.Tokens, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "no-referrer",
	}).Handler)
	corsOpts := cors.Options{
		AllowedOrigins:     cfg.CORS.AllowedOrigins,
		AllowedMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:     []string{"Content-Type", "Authorization"},
		ExposedHeaders:     []string{"Content-Length"},
		MaxAge:             600,
		OptionsPassthrough: true,
	}
	router.Use(cors.Handler(corsOpts))
	router.Use(noContentOptions(corsOpts))

	router.NotFound(notFound)
	router.MethodNotAllowed(notFound)

	router.Get(cfg.App.HealthPath, health.Status)

	authenticate := authHttp.Authenticate(tokens)
	adminOnly := authHttp.RequireRole(auth.RoleAdmin)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", h.Auth.Routes)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Route("/products", h.Products.Routes)
			r.Route("/transactions", h.Transactions.Routes)
			r.Route("/invoices", h.Invoices.Routes)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)

				r.Route("/reports", h.Reports.Routes)
				r.Route("/import", h.Import.Routes)
			})
		})
	})

	return router
}

// noContentOptions answers every OPTIONS request with 204. cors only handles real preflights, so
// a bare OPTIONS gets the allowed origin, methods and headers here.
func noContentOptions(opts cors.Options) func(http.Handler) http.Handler {
	methods := strings.Join(opts.AllowedMethods, ", ")
	headers := strings.Join(opts.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(opts.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			if h.Get("Access-Control-Allow-Origin") == "" {
				if origin := allowedOrigin(opts.AllowedOrigins, r.Header.Get("Origin")); origin != "" {
					h.Set("Access-Control-Allow-Origin", origin)
					h.Set("Access-Control-Allow-Methods", methods)
					h.Set("Access-Control-Allow-Headers", headers)
					h.Set("Access-Control-Max-Age", maxAge)
				}
			}

			w.WriteHeader(http.StatusNoContent)
		})
	}
}

func allowedOrigin(allowed []string, origin string) string {
	if slices.Contains(allowed, "*") {
		return "*"
	}

	if origin != "" && slices.Contains(allowed, origin) {
		return origin
	}

	return ""
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	render.Error(w, http.StatusNotFound, "Not Found")
}
