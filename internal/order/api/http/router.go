package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	platformhealth "github.com/shestoi/GoOrderSync/platform/health/http"
)

// NewRouter создаёт и настраивает HTTP роутер для order сервиса
// readiness — проверка готовности (БД); brokerConnected — независимая
// проверка соединения с брокером для /health/rabbitmq
func NewRouter(handler *Handler, readiness func() bool, brokerConnected func() bool) chi.Router {
	router := chi.NewRouter()

	router.Route("/api/v1/orders", func(r chi.Router) {
		r.Get("/", handler.GetOrders)
		r.Post("/", handler.PostOrders)
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			handler.GetOrdersId(w, r, chi.URLParam(r, "id"))
		})
	})

	router.Get("/health", platformhealth.Handler(readiness))
	router.Get("/health/rabbitmq", platformhealth.CheckHandler("rabbitmq", brokerConnected))

	return router
}
