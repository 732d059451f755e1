// Package http exposes the store over a JSON REST API. It is a thin
// presentation layer: every rule lives in the services, and this package
// only translates requests, actors, and errors.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/markstore/backend/internal/entity"
	"github.com/markstore/backend/internal/service"
)

// Handler handles HTTP requests for the store.
type Handler struct {
	identity  *service.IdentityService
	catalog   *service.CatalogService
	cart      *service.CartService
	checkout  *service.CheckoutService
	orders    *service.OrderService
	analytics *service.AnalyticsService
}

func NewHandler(
	identity *service.IdentityService,
	catalog *service.CatalogService,
	cart *service.CartService,
	checkout *service.CheckoutService,
	orders *service.OrderService,
	analytics *service.AnalyticsService,
) *Handler {
	return &Handler{
		identity:  identity,
		catalog:   catalog,
		cart:      cart,
		checkout:  checkout,
		orders:    orders,
		analytics: analytics,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("GET /api/me", h.auth(h.handleMe))
	mux.HandleFunc("PUT /api/me", h.auth(h.handleUpdateMe))
	mux.HandleFunc("GET /api/me/stats", h.auth(h.handleMyStats))

	mux.HandleFunc("GET /api/products", h.handleListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.handleGetProduct)
	mux.HandleFunc("GET /api/categories", h.handleCategories)
	mux.HandleFunc("POST /api/admin/products", h.admin(h.handleCreateProduct))
	mux.HandleFunc("PUT /api/admin/products/{id}", h.admin(h.handleUpdateProduct))
	mux.HandleFunc("DELETE /api/admin/products/{id}", h.admin(h.handleDeleteProduct))

	mux.HandleFunc("GET /api/cart", h.auth(h.handleGetCart))
	mux.HandleFunc("POST /api/cart/items", h.auth(h.handleAddCartItem))
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.auth(h.handleRemoveCartItem))
	mux.HandleFunc("DELETE /api/cart", h.auth(h.handleClearCart))
	mux.HandleFunc("POST /api/checkout", h.auth(h.handleCheckout))

	mux.HandleFunc("GET /api/orders", h.auth(h.handleMyOrders))
	mux.HandleFunc("GET /api/orders/{id}", h.auth(h.handleGetOrder))
	mux.HandleFunc("GET /api/admin/orders", h.admin(h.handleAllOrders))
	mux.HandleFunc("GET /api/admin/orders/summary", h.admin(h.handleOrdersSummary))
	mux.HandleFunc("PUT /api/admin/orders/{id}/status", h.admin(h.handleSetOrderStatus))

	mux.HandleFunc("GET /api/admin/users", h.admin(h.handleListUsers))
	mux.HandleFunc("PUT /api/admin/users/{id}/role", h.admin(h.handleSetRole))
	mux.HandleFunc("PUT /api/admin/users/{id}/password", h.admin(h.handleResetPassword))
	mux.HandleFunc("DELETE /api/admin/users/{id}", h.admin(h.handleDeleteUser))

	mux.HandleFunc("GET /api/analytics/summary", h.handleAnalyticsSummary)
	mux.HandleFunc("GET /api/analytics/categories", h.handleCategoryTree)
	mux.HandleFunc("GET /api/analytics/sales", h.admin(h.handleSales))
}

// --- auth ---

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  entity.User `json:"user"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.identity.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.identity.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, actorFrom(r))
}

func (h *Handler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.identity.UpdateProfile(r.Context(), actorFrom(r), service.ProfileInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) handleMyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orders.Stats(r.Context(), actorFrom(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// --- catalog ---

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.ProductFilter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
	}
	filter.MinPrice, _ = strconv.ParseInt(q.Get("min_price"), 10, 64)
	filter.MaxPrice, _ = strconv.ParseInt(q.Get("max_price"), 10, 64)

	respondJSON(w, http.StatusOK, h.catalog.Products(r.Context(), filter))
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	product, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Categories(r.Context()))
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var p entity.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	p.ID = 0 // the catalog allocates ids

	stored, err := h.catalog.Upsert(r.Context(), actorFrom(r), p)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, stored)
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	var p entity.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	p.ID = id

	stored, err := h.catalog.Upsert(r.Context(), actorFrom(r), p)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stored)
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.catalog.Delete(r.Context(), actorFrom(r), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- cart ---

type cartResponse struct {
	Lines []entity.CartItem `json:"lines"`
	Total int64             `json:"total"`
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)

	cart, err := h.cart.Cart(r.Context(), actor)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	total, err := h.cart.Total(r.Context(), actor)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse{Lines: cart.Lines, Total: total})
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (h *Handler) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.cart.AddItem(r.Context(), actorFrom(r), req.ProductID, req.Quantity); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.cart.RemoveItem(r.Context(), actorFrom(r), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context(), actorFrom(r)); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- checkout ---

type checkoutRequest struct {
	Address      string `json:"address"`
	DeliveryDate string `json:"delivery_date"` // 2006-01-02
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	deliveryDate := time.Now()
	if req.DeliveryDate != "" {
		parsed, err := time.Parse("2006-01-02", req.DeliveryDate)
		if err != nil {
			http.Error(w, "invalid delivery_date, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		deliveryDate = parsed
	}

	order, err := h.checkout.Commit(r.Context(), actorFrom(r), req.Address, deliveryDate)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

// --- orders ---

func (h *Handler) handleMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.OrdersForUser(r.Context(), actorFrom(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	order, err := h.orders.Order(r.Context(), actorFrom(r), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *Handler) handleAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.AllOrders(r.Context(), actorFrom(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handler) handleOrdersSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.orders.Summary(r.Context(), actorFrom(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleSetOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.orders.SetStatus(r.Context(), actorFrom(r), id, entity.OrderStatus(req.Status)); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- users (admin) ---

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.identity.Users(r.Context(), actorFrom(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *Handler) handleSetRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req struct {
		IsAdmin bool `json:"is_admin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.identity.SetRole(r.Context(), actorFrom(r), id, req.IsAdmin); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.identity.ResetPassword(r.Context(), actorFrom(r), id, req.Password); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.identity.DeleteUser(r.Context(), actorFrom(r), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- analytics ---

func (h *Handler) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.analytics.Analysis(r.Context()))
}

func (h *Handler) handleCategoryTree(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.analytics.CategoryTree(r.Context()))
}

func (h *Handler) handleSales(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.analytics.PerProductSales(r.Context()))
}

// --- helpers ---

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondError maps domain failures to HTTP statuses. Anything outside the
// taxonomy is a 500 with a generic body.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entity.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, entity.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, entity.ErrProductNotFound),
		errors.Is(err, entity.ErrOrderNotFound),
		errors.Is(err, entity.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrInsufficientStock),
		errors.Is(err, entity.ErrEmptyCart),
		errors.Is(err, entity.ErrUsernameTaken):
		status = http.StatusConflict
	case errors.Is(err, entity.ErrInvalidQuantity),
		errors.Is(err, entity.ErrInvalidInput),
		errors.Is(err, entity.ErrUsernameTooShort),
		errors.Is(err, entity.ErrPasswordTooShort):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		http.Error(w, "internal server error", status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
