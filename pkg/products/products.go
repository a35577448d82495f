// Package products implements the storefront product operations on top of
// the RPC gateway: paged catalog queries, validated edits with best-effort
// variant name propagation, and deletion.
package products

import (
	"context"
	"strings"

	"github.com/vendra/vendra/pkg/gateway"
	"github.com/vendra/vendra/pkg/rpc"
)

const (
	// Model is the remote product template model.
	Model = "product.template"

	// VariantModel is the remote product variant model, touched only by name
	// propagation.
	VariantModel = "product.product"

	// DefaultLimit is the catalog page size.
	DefaultLimit = 40

	// DefaultOrder lists the most recently modified products first.
	DefaultOrder = "write_date desc"
)

// ListFields are the fields requested for catalog listings.
var ListFields = []string{
	"name", "list_price", "currency_id", "description_sale",
	"image_256", "sale_ok", "active", "default_code",
}

// DetailFields are the fields requested for a single product view.
var DetailFields = []string{
	"name", "list_price", "currency_id", "description_sale",
	"image_1920", "image_512", "image_256", "sale_ok", "active", "default_code",
}

// Product is the typed catalog view of a remote record. Raw carries the full
// record for fields the view does not surface.
type Product struct {
	ID          int64
	Name        string
	Code        string
	Price       float64
	Description string
	Active      bool
	Raw         rpc.Record
}

// FromRecord builds the typed view of a product record.
func FromRecord(rec rpc.Record) Product {
	return Product{
		ID:          rec.ID(),
		Name:        rec.String("name"),
		Code:        rec.String("default_code"),
		Price:       rec.Float("list_price"),
		Description: rec.String("description_sale"),
		Active:      rec.Bool("active"),
		Raw:         rec,
	}
}

// Service exposes the product operations.
type Service struct {
	gw *gateway.Gateway
}

// NewService creates a product service on the gateway.
func NewService(gw *gateway.Gateway) *Service {
	return &Service{gw: gw}
}

// FetchOptions tune a catalog query. The zero value lists the first page of
// active, sale-enabled products, most recently written first.
type FetchOptions struct {
	// Limit caps the page size; zero means DefaultLimit.
	Limit int

	// Search matches name or internal reference, case-insensitively. Blank
	// after trimming adds no clause.
	Search string

	// CategoryID restricts results to a category subtree.
	CategoryID int64

	// IncludeInactive lifts the active-only restriction.
	IncludeInactive bool

	// Order overrides DefaultOrder.
	Order string
}

// buildDomain assembles the catalog filter for the options.
func buildDomain(opts FetchOptions) gateway.Domain {
	d := gateway.Domain{}.Add(gateway.Condition("sale_ok", "=", true))
	if !opts.IncludeInactive {
		d = d.Add(gateway.Condition("active", "=", true))
	}
	if opts.CategoryID > 0 {
		d = d.Add(gateway.Condition("categ_id", "child_of", opts.CategoryID))
	}
	if search := strings.TrimSpace(opts.Search); search != "" {
		d = d.Or(
			gateway.Condition("name", "ilike", search),
			gateway.Condition("default_code", "ilike", search),
		)
	}
	return d
}

// Fetch lists catalog products matching the options.
func (s *Service) Fetch(ctx context.Context, opts FetchOptions) ([]Product, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	order := opts.Order
	if order == "" {
		order = DefaultOrder
	}

	records, err := s.gw.SearchRead(ctx, Model, buildDomain(opts), ListFields, &gateway.QueryOptions{
		Limit: limit,
		Order: order,
	})
	if err != nil {
		return nil, err
	}

	catalog := make([]Product, 0, len(records))
	for _, rec := range records {
		catalog = append(catalog, FromRecord(rec))
	}
	return catalog, nil
}

// Get reads a single product, nil when it does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	rec, err := s.gw.ReadOne(ctx, Model, id, DetailFields)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	p := FromRecord(rec)
	return &p, nil
}
