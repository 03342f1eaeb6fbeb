package service

import (
	"github.com/ddkspices/storefront/internal/catalog"
	"github.com/ddkspices/storefront/internal/errors"
	"github.com/ddkspices/storefront/internal/models"
)

type CatalogService struct{}

func NewCatalogService() *CatalogService {
	return &CatalogService{}
}

func (s *CatalogService) ListProducts() []models.Product {
	return catalog.List()
}

func (s *CatalogService) GetProduct(id int) (models.Product, error) {
	product, ok := catalog.Lookup(id)
	if !ok {
		return models.Product{}, errors.NotFoundError("Product not found")
	}

	return product, nil
}
