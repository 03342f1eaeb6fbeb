package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ddkspices/storefront/internal/api/middleware"
	appErrors "github.com/ddkspices/storefront/internal/errors"
	"github.com/ddkspices/storefront/internal/models"
	service "github.com/ddkspices/storefront/internal/services"
	"github.com/ddkspices/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	cartService    *service.CartService
	catalogService *service.CatalogService
	validator      *validator.Validate
}

func NewCartHandler(cartService *service.CartService, catalogService *service.CatalogService) *CartHandler {
	return &CartHandler{
		cartService:    cartService,
		catalogService: catalogService,
		validator:      validator.New(),
	}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, h.cartService.View())
	}
}

// AddItem resolves the catalog item and adds one unit of it to the cart.
// Adding itself cannot fail; the only error surface is an unknown product id.
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.AddItemRequest
		if err := decodeJSONBody(w, r, &req); err != nil {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		product, err := h.catalogService.GetProduct(req.ProductID)
		if err != nil {
			logger.Warn("Add to cart for unknown product", slog.Int("product_id", req.ProductID))
			response.Error(w, err)

			return
		}

		view := h.cartService.AddItem(r.Context(), product)

		logger.Info("Item added to cart", slog.Int("product_id", product.ID), slog.Int("item_count", view.Totals.ItemCount))
		response.Success(w, http.StatusOK, view)
	}
}

func (h *CartHandler) ChangeQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ChangeQuantityRequest
		if err := decodeJSONBody(w, r, &req); err != nil {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		view := h.cartService.ChangeQuantity(r.Context(), req.ProductID, req.Delta)

		response.Success(w, http.StatusOK, view)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			response.Error(w, appErrors.BadRequestError("Invalid product id"))
			return
		}

		view := h.cartService.RemoveItem(r.Context(), id)

		response.Success(w, http.StatusOK, view)
	}
}
