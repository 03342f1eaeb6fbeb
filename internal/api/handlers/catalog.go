package handlers

import (
	"net/http"

	service "github.com/ddkspices/storefront/internal/services"
	"github.com/ddkspices/storefront/internal/utils/response"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, h.catalogService.ListProducts())
	}
}
