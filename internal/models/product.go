package models

// Product is a sellable catalog item. Only ID, Name, Price and Weight reach
// the cart; the rest is presentation data for the storefront.
type Product struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Desc   string `json:"desc"`
	Price  string `json:"price"`
	Weight string `json:"weight"`
	Image  string `json:"image,omitempty"`
}
