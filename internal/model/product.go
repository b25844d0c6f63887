package model

import "time"

type Product struct {
	ProductID     int64    `json:"productid"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	DiscountPrice float64  `json:"discount_price"`
	CategoryID    int64    `json:"categoryid"`
	CategoryName  string   `json:"category,omitempty"`
	CategorySlug  string   `json:"category_slug,omitempty"`
	Brand         string   `json:"brand"`
	Stock         int      `json:"stock"`
	SKU           string   `json:"sku"`
	ImageURLs     []string `json:"images"`
	Tags          []string `json:"tags"`
	Ratings       float64  `json:"ratings"`
	NumOfReviews  int      `json:"num_of_reviews"`
	IsFeatured    bool     `json:"is_featured"`
	IsActive      bool     `json:"is_active"`
	CreatedBy     int64    `json:"created_by"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	DeletedAt *time.Time `json:"-"`
}

// FinalPrice is the discounted price when a discount is set.
func (p *Product) FinalPrice() float64 {
	if p.DiscountPrice > 0 && p.DiscountPrice < p.Price {
		return p.DiscountPrice
	}
	return p.Price
}

func (p *Product) Validate() error {
	var v ValidationError
	if p.Name == "" {
		v.add("name", "Please enter product name")
	} else if len(p.Name) > 200 {
		v.add("name", "Product name cannot exceed 200 characters")
	}
	if p.Description == "" {
		v.add("description", "Please enter product description")
	} else if len(p.Description) > 2000 {
		v.add("description", "Description cannot exceed 2000 characters")
	}
	if p.Price < 0 {
		v.add("price", "Price cannot be negative")
	}
	if p.CategoryID == 0 {
		v.add("category", "Please select a category")
	}
	if p.Brand == "" {
		v.add("brand", "Please enter product brand")
	}
	if p.Stock < 0 {
		v.add("stock", "Stock cannot be negative")
	}
	if p.SKU == "" {
		v.add("sku", "Please enter product SKU")
	}
	return v.orNil()
}

type Category struct {
	CategoryID  int64  `json:"categoryid"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image,omitempty"`
	ParentID    *int64 `json:"parentid,omitempty"`
	IsActive    bool   `json:"is_active"`
	Featured    bool   `json:"featured"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func (c *Category) Validate() error {
	var v ValidationError
	if c.Name == "" {
		v.add("name", "Please enter category name")
	}
	if len(c.Description) > 500 {
		v.add("description", "Description cannot exceed 500 characters")
	}
	return v.orNil()
}

// Pagination is list metadata shared by catalog and order listings.
type Pagination struct {
	Total       int `json:"total"`
	Pages       int `json:"pages"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
}
