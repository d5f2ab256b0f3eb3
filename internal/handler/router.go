package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	custommiddleware "github.com/mmeshcher/delivery-system/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса доставки еды.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{h.allowedOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "auth-token", "Authorization"},
	}))
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Metrics)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/createuser", h.CreateUser)
		r.Post("/login", h.Login)
		r.Post("/getlocation", h.GetLocation)
		r.Post("/foodData", h.FoodData)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Post("/getuser", h.GetUser)
			r.Post("/orderData", h.OrderData)
			r.Post("/myOrderData", h.MyOrderData)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
