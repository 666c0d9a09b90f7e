// internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidID    = errors.New("product: invalid id")
	ErrInvalidTitle = errors.New("product: invalid title")
	ErrInvalidPrice = errors.New("product: price must be >= 0")
	ErrInvalidStock = errors.New("product: stock must be >= 0")
)

// Rating is an aggregate review score carried on the product document.
type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Product mirrors the products/{id} document.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Stock       int       `json:"stock"`
	Rating      Rating    `json:"rating"`
	CreatedAt   time.Time `json:"createdAt"`
}

// New validates and builds a product.
func New(id, title string, price float64, description, category, imageURL string, stock int, now time.Time) (*Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidID
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidTitle
	}

	if price < 0 {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}

	return &Product{
		ID:          id,
		Title:       title,
		Price:       price,
		Description: strings.TrimSpace(description),
		Category:    strings.TrimSpace(category),
		ImageURL:    strings.TrimSpace(imageURL),
		Stock:       stock,
		CreatedAt:   now,
	}, nil
}
