// internal/domain/product/repository_port.go
package product

import "context"

// Page is one catalog page plus the cursor for the next one.
type Page struct {
	Items []Product `json:"items"`
	// NextCursor is the document id to pass as startAfter for the next page.
	// Empty when this is the last page.
	NextCursor string `json:"nextCursor,omitempty"`
	// Total is the total number of products matching the (unfiltered)
	// collection; recomputed per query like the original storefront did.
	Total int `json:"total"`
}

// ListParams drive the ordered/paginated catalog query.
type ListParams struct {
	Category   string
	Limit      int
	StartAfter string // document id cursor
}

// Repository is the products collection port.
// GetByID follows the nil policy: (nil, nil) when the doc is absent.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, p ListParams) (*Page, error)
	All(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, pr *Product) error
	Update(ctx context.Context, pr *Product) error
	Delete(ctx context.Context, id string) error
	SetImageURL(ctx context.Context, id, imageURL string) error
}
