// Package catalog holds the product listing domain: the reference data
// (categories, brands, cards) and the product CRUD operations sellers use.
package catalog

// Product is the payload for creating a listing. Inventory quantity and
// price live alongside the product description.
type Product struct {
	ID          int64   `json:"id_product,omitempty"`
	BrandID     int64   `json:"id_brand"`
	CategoryID  int64   `json:"id_category"`
	CardID      int64   `json:"id_card,omitempty"`
	SellerID    int64   `json:"id_user,omitempty"`
	Name        string  `json:"product_name"`
	Description string  `json:"description"`
	Condition   string  `json:"condition"`
	Language    string  `json:"language"`
	ImageURL    string  `json:"image_url,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// ProductUpdate carries the mutable fields of an existing listing.
type ProductUpdate struct {
	ID          int64   `json:"id_product"`
	Name        string  `json:"product_name"`
	Description string  `json:"description"`
	Condition   string  `json:"condition"`
	Language    string  `json:"language"`
	ImageURL    string  `json:"image_url,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// Category is a top-level grouping of cards.
type Category struct {
	ID   int64  `json:"id_category"`
	Name string `json:"category_name"`
}

// Brand is a game publisher within a category.
type Brand struct {
	ID         int64  `json:"id_brand"`
	CategoryID int64  `json:"id_category"`
	Name       string `json:"brand_name"`
}

// Card is a reference card listings can be attached to.
type Card struct {
	ID      int64  `json:"id_card"`
	BrandID int64  `json:"id_brand"`
	Name    string `json:"card_name"`
	Set     string `json:"card_set,omitempty"`
}

// ProductInfo is a listing joined with its seller and reference data, as
// returned by the product detail queries.
type ProductInfo struct {
	Product
	SellerUsername string `json:"seller_username"`
	BrandName      string `json:"brand_name"`
	CategoryName   string `json:"category_name"`
	CardName       string `json:"card_name,omitempty"`
}
