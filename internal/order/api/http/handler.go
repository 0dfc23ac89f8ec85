package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/shestoi/GoOrderSync/internal/order/client/customer"
	"github.com/shestoi/GoOrderSync/internal/order/repository"
	"github.com/shestoi/GoOrderSync/internal/order/service"
)

// Handler содержит HTTP-обработчики для order сервиса
// Зависит от service слоя, но не знает о деталях реализации (брокер, БД)
type Handler struct {
	orderService *service.OrderService
	logger       *zap.Logger
}

// NewHandler создаёт новый HTTP handler
func NewHandler(orderService *service.OrderService, logger *zap.Logger) *Handler {
	return &Handler{
		orderService: orderService,
		logger:       logger,
	}
}

// OrderParams представляет параметры заказа в HTTP запросе
type OrderParams struct {
	CustomerID  *int64   `json:"customer_id"`
	ProductName *string  `json:"product_name"`
	Quantity    *int     `json:"quantity"`
	Price       *float64 `json:"price"`
	Status      *string  `json:"status"`
}

// CreateOrderRequest представляет HTTP запрос на создание заказа
type CreateOrderRequest struct {
	Order *OrderParams `json:"order"`
}

// OrderResponse представляет заказ в HTTP ответе
type OrderResponse struct {
	ID          int64   `json:"id"`
	CustomerID  int64   `json:"customer_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
	CreatedAt   string  `json:"created_at"`
}

// CreateOrderResponse представляет HTTP ответ на создание заказа
type CreateOrderResponse struct {
	Order    OrderResponse `json:"order"`
	Customer customer.Info `json:"customer"`
	EventID  string        `json:"event_id,omitempty"`
}

func orderResponse(order repository.Order) OrderResponse {
	return OrderResponse{
		ID:          order.ID,
		CustomerID:  order.CustomerID,
		ProductName: order.ProductName,
		Quantity:    order.Quantity,
		Price:       order.Price,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount(),
		CreatedAt:   order.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// PostOrders обрабатывает POST /api/v1/orders - создание нового заказа
func (h *Handler) PostOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqBody CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		h.logger.Warn("invalid order request json", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": []string{"Invalid JSON"}})
		return
	}
	if reqBody.Order == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": []string{"Order params are required"}})
		return
	}

	params := reqBody.Order
	input := service.CreateOrderInput{}
	if params.CustomerID != nil {
		input.CustomerID = *params.CustomerID
	}
	if params.ProductName != nil {
		input.ProductName = *params.ProductName
	}
	if params.Quantity != nil {
		input.Quantity = *params.Quantity
	}
	if params.Price != nil {
		input.Price = *params.Price
	}
	if params.Status != nil {
		input.Status = *params.Status
	}

	res := h.orderService.CreateOrder(ctx, input)
	if !res.Success() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": res.Errors})
		return
	}

	writeJSON(w, http.StatusCreated, CreateOrderResponse{
		Order:    orderResponse(res.Order),
		Customer: res.Customer,
		EventID:  res.EventID,
	})
}

// GetOrders обрабатывает GET /api/v1/orders - список заказов
// Поддерживает фильтр ?customer_id=
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var customerID int64
	if raw := r.URL.Query().Get("customer_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid customer_id"})
			return
		}
		customerID = id
	}

	orders, err := h.orderService.ListOrders(ctx, customerID)
	if err != nil {
		h.logger.Error("failed to list orders", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	resp := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, orderResponse(order))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetOrdersId обрабатывает GET /api/v1/orders/{id} - получение заказа по ID
func (h *Handler) GetOrdersId(w http.ResponseWriter, r *http.Request, rawID string) {
	ctx := r.Context()

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Order not found"})
		return
	}

	order, err := h.orderService.GetOrder(ctx, service.GetOrderInput{OrderID: id})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Order not found"})
			return
		}
		h.logger.Error("failed to get order", zap.Error(err), zap.Int64("order_id", id))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, orderResponse(order))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
