package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/shestoi/GoOrderSync/internal/customer/repository"
	"github.com/shestoi/GoOrderSync/internal/customer/service"
)

// Handler содержит HTTP-обработчики для customer сервиса
type Handler struct {
	customerService *service.CustomerService
	logger          *zap.Logger
}

// NewHandler создаёт новый HTTP handler
func NewHandler(customerService *service.CustomerService, logger *zap.Logger) *Handler {
	return &Handler{
		customerService: customerService,
		logger:          logger,
	}
}

// CustomerResponse представляет покупателя в HTTP ответе.
// Формат совпадает с тем, что order сервис читает при проверке
// precondition-а перед созданием заказа.
type CustomerResponse struct {
	CustomerName string `json:"customer_name"`
	Address      string `json:"address"`
	OrdersCount  int    `json:"orders_count"`
}

// GetCustomersId обрабатывает GET /api/v1/customers/{id}
func (h *Handler) GetCustomersId(w http.ResponseWriter, r *http.Request, rawID string) {
	ctx := r.Context()

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Customer not found"})
		return
	}

	customer, err := h.customerService.GetCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Customer not found"})
			return
		}
		h.logger.Error("failed to get customer", zap.Error(err), zap.Int64("customer_id", id))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, CustomerResponse{
		CustomerName: customer.Name,
		Address:      customer.Address,
		OrdersCount:  customer.OrdersCount,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
