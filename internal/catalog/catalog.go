// Package catalog holds the static DDK Spices product list. The catalog is
// read-only for the lifetime of the process; the cart copies the fields it
// needs from a product at add time and never reads the catalog again.
package catalog

import "github.com/ddkspices/storefront/internal/models"

var products = []models.Product{
	{ID: 1, Name: "Lal Mirch Powder", Desc: "Taaza aur tez lal mirch", Price: "₹150", Weight: "500g", Image: "https://storage.googleapis.com/ai-studio-assets/ddk-spices/red-chilli.png"},
	{ID: 2, Name: "Haldi Powder", Desc: "Pure aur khoobsurat haldi", Price: "₹120", Weight: "500g", Image: "https://storage.googleapis.com/ai-studio-assets/ddk-spices/turmeric.png"},
	{ID: 3, Name: "Cinnamon Powder", Desc: "Khushbudaar dalchini", Price: "₹180", Weight: "500g", Image: "https://storage.googleapis.com/ai-studio-assets/ddk-spices/cinnamon.png"},
	{ID: 4, Name: "Black Lemon Powder", Desc: "Unique aur chatpata", Price: "₹220", Weight: "500g", Image: "https://storage.googleapis.com/ai-studio-assets/ddk-spices/black-lemon.png"},
	{ID: 5, Name: "Garam Masala", Desc: "Special recipe garam masala", Price: "₹250", Weight: "500g", Image: "https://storage.googleapis.com/ai-studio-assets/ddk-spices/garam-masala.png"},
	{ID: 6, Name: "Sabji Masala", Desc: "Har sabji perfect banaye", Price: "₹140", Weight: "500g", Image: "https://storage.googleapis.com/ai-studio-assets/ddk-spices/sabji-masala.png"},
}

// List returns the products in display order.
func List() []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)

	return out
}

// Lookup returns the product with the given id.
func Lookup(id int) (models.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}

	return models.Product{}, false
}
