// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	proddom "storefront/internal/domain/product"
)

const defaultPageSize = 6

// ProductRepositoryFS implements product.Repository on Firestore.
//
// Collection design:
// - collection: products
// - docId: product id (uuid for products created by this app)
// - ordered queries run on createdAt desc (catalog pagination)
type ProductRepositoryFS struct {
	Client *firestore.Client
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("products")
}

// GetByID returns (nil, nil) if not found (nil policy).
func (r *ProductRepositoryFS) GetByID(ctx context.Context, id string) (*proddom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}

	pid := strings.TrimSpace(id)
	if pid == "" {
		return nil, errors.New("product_repository_fs: id is empty")
	}

	snap, err := r.col().Doc(pid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	p := productFromSnapshot(snap)
	return &p, nil
}

// List runs the ordered/paginated catalog query:
// orderBy createdAt desc, optional category filter, limit, startAfter
// document-id cursor.
func (r *ProductRepositoryFS) List(ctx context.Context, params proddom.ListParams) (*proddom.Page, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	q := r.col().Query.OrderBy("createdAt", firestore.Desc)
	if cat := strings.TrimSpace(params.Category); cat != "" {
		q = q.Where("category", "==", cat)
	}

	if cursor := strings.TrimSpace(params.StartAfter); cursor != "" {
		// resolve the cursor doc; an unknown cursor restarts from the top
		// rather than erroring (stable pagination UX)
		cursorSnap, err := r.col().Doc(cursor).Get(ctx)
		if err != nil {
			if status.Code(err) != codes.NotFound {
				return nil, err
			}
		} else {
			q = q.StartAfter(cursorSnap.Data()["createdAt"])
		}
	}

	// fetch one extra doc to learn whether a next page exists
	iter := q.Limit(limit + 1).Documents(ctx)
	defer iter.Stop()

	items := make([]proddom.Product, 0, limit)
	hasMore := false
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("product_repository_fs: list: %w", err)
		}
		if len(items) == limit {
			hasMore = true
			break
		}
		items = append(items, productFromSnapshot(snap))
	}

	total, err := r.count(ctx)
	if err != nil {
		return nil, err
	}

	page := &proddom.Page{Items: items, Total: total}
	if hasMore && len(items) > 0 {
		page.NextCursor = items[len(items)-1].ID
	}
	return page, nil
}

// All returns every product ordered newest-first (admin listing).
func (r *ProductRepositoryFS) All(ctx context.Context) ([]proddom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}

	snaps, err := r.col().Query.OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("product_repository_fs: all: %w", err)
	}

	out := make([]proddom.Product, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, productFromSnapshot(snap))
	}
	return out, nil
}

func (r *ProductRepositoryFS) Create(ctx context.Context, p *proddom.Product) error {
	return r.set(ctx, p)
}

func (r *ProductRepositoryFS) Update(ctx context.Context, p *proddom.Product) error {
	return r.set(ctx, p)
}

func (r *ProductRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("product_repository_fs: firestore client is nil")
	}

	pid := strings.TrimSpace(id)
	if pid == "" {
		return errors.New("product_repository_fs: id is empty")
	}

	_, err := r.col().Doc(pid).Delete(ctx)
	return err
}

// SetImageURL updates only the imageUrl field (after a storage upload).
func (r *ProductRepositoryFS) SetImageURL(ctx context.Context, id, imageURL string) error {
	if r == nil || r.Client == nil {
		return errors.New("product_repository_fs: firestore client is nil")
	}

	pid := strings.TrimSpace(id)
	if pid == "" {
		return errors.New("product_repository_fs: id is empty")
	}

	_, err := r.col().Doc(pid).Update(ctx, []firestore.Update{
		{Path: "imageUrl", Value: strings.TrimSpace(imageURL)},
	})
	return err
}

func (r *ProductRepositoryFS) set(ctx context.Context, p *proddom.Product) error {
	if r == nil || r.Client == nil {
		return errors.New("product_repository_fs: firestore client is nil")
	}
	if p == nil {
		return errors.New("product_repository_fs: product is nil")
	}

	pid := strings.TrimSpace(p.ID)
	if pid == "" {
		return errors.New("product_repository_fs: product.ID is empty")
	}

	// Overwrite full doc (simple & predictable).
	_, err := r.col().Doc(pid).Set(ctx, productDocFromDomain(p))
	return err
}

func (r *ProductRepositoryFS) count(ctx context.Context) (int, error) {
	// the original storefront derives the page count by reading the whole
	// collection; keep that but fetch document names only
	snaps, err := r.col().Select().Documents(ctx).GetAll()
	if err != nil {
		return 0, fmt.Errorf("product_repository_fs: count: %w", err)
	}
	return len(snaps), nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type productDoc struct {
	Title       string    `firestore:"title"`
	Price       float64   `firestore:"price"`
	Description string    `firestore:"description"`
	Category    string    `firestore:"category"`
	ImageURL    string    `firestore:"imageUrl"`
	Stock       int       `firestore:"stock"`
	Rating      ratingDoc `firestore:"rating"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

type ratingDoc struct {
	Average float64 `firestore:"average"`
	Count   int     `firestore:"count"`
}

func productDocFromDomain(p *proddom.Product) productDoc {
	return productDoc{
		Title:       strings.TrimSpace(p.Title),
		Price:       p.Price,
		Description: strings.TrimSpace(p.Description),
		Category:    strings.TrimSpace(p.Category),
		ImageURL:    strings.TrimSpace(p.ImageURL),
		Stock:       p.Stock,
		Rating:      ratingDoc{Average: p.Rating.Average, Count: p.Rating.Count},
		CreatedAt:   p.CreatedAt,
	}
}

// productFromSnapshot parses raw doc data with backward compatibility:
// documents written by earlier revisions may miss stock/rating or store
// price as an integer.
func productFromSnapshot(snap *firestore.DocumentSnapshot) proddom.Product {
	p := proddom.Product{ID: snap.Ref.ID}

	raw := snap.Data()
	if raw == nil {
		return p
	}

	p.Title = asString(raw["title"])
	p.Price = asFloat(raw["price"])
	p.Description = asString(raw["description"])
	p.Category = asString(raw["category"])
	p.ImageURL = asString(raw["imageUrl"])
	p.Stock = asInt(raw["stock"])

	if m, ok := raw["rating"].(map[string]any); ok {
		p.Rating.Average = asFloat(m["average"])
		p.Rating.Count = asInt(m["count"])
	}

	if t, ok := asTime(raw["createdAt"]); ok {
		p.CreatedAt = t
	}
	return p
}
