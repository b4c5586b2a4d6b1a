package domain

import "context"

// SearchParams carries one catalog search request.
type SearchParams struct {
	Query    string
	Category string
	Sort     SortOption
	Page     int
	PageSize int
}

// SearchResult is one page of catalog search results plus the server's total.
type SearchResult struct {
	Products []Product
	Count    int
}

// CatalogClient defines the interface for the remote product catalog.
type CatalogClient interface {
	SearchProducts(ctx context.Context, params SearchParams) (*SearchResult, error)
	GetProductByCode(ctx context.Context, code string) (*Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
	Suggest(ctx context.Context, fragment string) ([]Suggestion, error)
}

// CartStorage defines the interface for durable cart persistence. The whole
// state is read at startup and overwritten wholesale on every mutation.
type CartStorage interface {
	Load(ctx context.Context) (*CartState, error)
	Save(ctx context.Context, state *CartState) error
}
