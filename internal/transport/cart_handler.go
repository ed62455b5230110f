package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddToCartRequest represents the add-to-cart payload
type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// CartHandler handles HTTP requests for cart operations
type CartHandler struct {
	store  repository.Store
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(store repository.Store, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		store:  store,
		logger: logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/cart/{userID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/", h.AddItem)
		r.Delete("/item/{productID}", h.RemoveItem)
	})
}

// Get handles retrieving a user's cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	cart, err := h.store.GetCart(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get cart", zap.Error(err), zap.String("user_id", userID))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, cart)
}

// AddItem handles adding a product to a user's cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req AddToCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add to cart validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := h.store.AddToCart(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		h.logger.Debug("Failed to add to cart",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("product_id", req.ProductID),
		)
		middleware.RespondWithError(w, storeErrorStatus(err), err.Error())
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, cart)
}

// RemoveItem handles removing a product line from a user's cart
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	productID := chi.URLParam(r, "productID")

	cart, err := h.store.RemoveFromCart(r.Context(), userID, productID)
	if err != nil {
		h.logger.Debug("Failed to remove from cart",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("product_id", productID),
		)
		middleware.RespondWithError(w, storeErrorStatus(err), err.Error())
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, cart)
}
