package handlers

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
)

type RouterOptions struct {
	Static   fs.FS
	Sessions sessions.Store
	// Guard is optional; when set it wraps every submitting action.
	Guard *SubmitGuard
	// Middlewares run after the base chain, e.g. CSRF protection.
	Middlewares []func(http.Handler) http.Handler
}

func NewRouter(h *ConsoleHandler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeadersMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	if opts.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(opts.Static)))
	}

	r.Group(func(r chi.Router) {
		for _, mw := range opts.Middlewares {
			r.Use(mw)
		}
		r.Use(SessionMiddleware(opts.Sessions))

		guard := func(fn http.HandlerFunc) http.Handler {
			if opts.Guard == nil {
				return fn
			}
			return opts.Guard.Middleware(fn)
		}

		r.Get("/", h.Index)
		r.Get("/tabs/{tab}", h.ShowTab)

		r.Post("/products/refresh", h.RefreshProducts)
		r.Method(http.MethodPost, "/products", guard(h.CreateProduct))
		r.Post("/products/{id}/edit", h.EditProduct)
		r.Post("/products/{id}/delete", h.DeleteProduct)

		r.Post("/inventory/check", h.CheckInventory)
		r.Post("/inventory/browse", h.BrowseSKUs)
		r.Post("/inventory/browse/hide", h.HideSKUs)
		r.Post("/inventory/select", h.SelectSKU)

		r.Post("/orders/rows", h.EditOrderRows)
		r.Method(http.MethodPost, "/orders", guard(h.SubmitOrder))

		r.Post("/notifications/{id}/dismiss", h.DismissNotification)
	})
	return r
}
