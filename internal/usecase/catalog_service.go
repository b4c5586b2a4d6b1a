package usecase

import (
	"context"
	"log"
	"sync"

	"github.com/foodexplorer/backend/internal/domain"
	"github.com/foodexplorer/backend/internal/events"
)

// CatalogResultSet is a read snapshot of the accumulated product list.
type CatalogResultSet struct {
	Items            []domain.Product   `json:"items"`
	TotalCount       int                `json:"totalCount"`
	Status           domain.FetchStatus `json:"status"`
	Error            string             `json:"error,omitempty"`
	LastAppliedQuery domain.QueryState  `json:"lastAppliedQuery"`
}

// ProductSlot is a read snapshot of the single-product fetch state.
type ProductSlot struct {
	Product *domain.Product    `json:"product,omitempty"`
	Status  domain.FetchStatus `json:"status"`
	Error   string             `json:"error,omitempty"`
}

// CategorySlot is a read snapshot of the category-list fetch state.
type CategorySlot struct {
	Categories []domain.Category  `json:"categories"`
	Status     domain.FetchStatus `json:"status"`
	Error      string             `json:"error,omitempty"`
}

// SuggestionSet is a read snapshot of the latest suggestion fetch.
type SuggestionSet struct {
	Query  string              `json:"query"`
	Items  []domain.Suggestion `json:"items"`
	Status domain.FetchStatus  `json:"status"`
	Error  string              `json:"error,omitempty"`
}

// CatalogServiceConfig holds configuration for the catalog service.
type CatalogServiceConfig struct {
	PageSize int
}

// CatalogService owns the query state and the accumulated result set. All
// state mutates under one mutex; fetches run on the caller's goroutine and
// apply their result against the query fingerprint captured at issue time,
// so an out-of-order reply can never corrupt fresher state.
type CatalogService struct {
	client   domain.CatalogClient
	broker   *events.Broker
	pageSize int

	mu    sync.Mutex
	query domain.QueryState

	// list slot
	items              []domain.Product
	seen               map[string]struct{}
	totalCount         int
	listStatus         domain.FetchStatus
	listErr            string
	appliedFingerprint string
	appliedQuery       domain.QueryState

	// selected product slot
	selected       *domain.Product
	selectedStatus domain.FetchStatus
	selectedErr    string

	// categories slot
	categories       []domain.Category
	categoriesStatus domain.FetchStatus
	categoriesErr    string

	// suggestions slot
	suggestFragment string
	suggestions     []domain.Suggestion
	suggestStatus   domain.FetchStatus
	suggestErr      string
}

// NewCatalogService creates a catalog service with dependencies.
func NewCatalogService(client domain.CatalogClient, broker *events.Broker, cfg CatalogServiceConfig) *CatalogService {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 24
	}

	return &CatalogService{
		client:           client,
		broker:           broker,
		pageSize:         pageSize,
		query:            domain.DefaultQuery(),
		seen:             make(map[string]struct{}),
		listStatus:       domain.StatusIdle,
		selectedStatus:   domain.StatusIdle,
		categoriesStatus: domain.StatusIdle,
		suggestStatus:    domain.StatusIdle,
	}
}

func (s *CatalogService) publish(topic string) {
	if s.broker != nil {
		s.broker.Publish(topic, nil)
	}
}

// SetSearch updates the free-text search and resets the page to 1.
func (s *CatalogService) SetSearch(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.Search = text
	s.query.Page = 1
}

// SetCategory updates the category filter and resets the page to 1.
// An empty category means "any".
func (s *CatalogService) SetCategory(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.Category = id
	s.query.Page = 1
}

// SetSort updates the sort order and resets the page to 1.
func (s *CatalogService) SetSort(option domain.SortOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.Sort = option
	s.query.Page = 1
}

// SetPage sets the page without touching any other field. Pages below 1 are
// clamped to 1.
func (s *CatalogService) SetPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 {
		n = 1
	}
	s.query.Page = n
}

// ResetQuery restores the default query.
func (s *CatalogService) ResetQuery() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = domain.DefaultQuery()
}

// Query returns a snapshot of the current query state.
func (s *CatalogService) Query() domain.QueryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Results returns a snapshot of the accumulated result set.
func (s *CatalogService) Results() CatalogResultSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.Product, len(s.items))
	copy(items, s.items)

	return CatalogResultSet{
		Items:            items,
		TotalCount:       s.totalCount,
		Status:           s.listStatus,
		Error:            s.listErr,
		LastAppliedQuery: s.appliedQuery,
	}
}

// Loading reports whether a list fetch is in flight.
func (s *CatalogService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listStatus == domain.StatusLoading
}

// FetchProducts issues a list fetch for the current query state and applies
// the result. Safe to call while another fetch is in flight: only the reply
// matching the latest fingerprint is merged.
func (s *CatalogService) FetchProducts(ctx context.Context) error {
	s.mu.Lock()
	q := s.query
	s.listStatus = domain.StatusLoading
	s.mu.Unlock()

	result, err := s.client.SearchProducts(ctx, domain.SearchParams{
		Query:    q.Search,
		Category: q.Category,
		Sort:     q.Sort,
		Page:     q.Page,
		PageSize: s.pageSize,
	})
	if err != nil {
		s.applyListError(q, err)
		return err
	}

	s.applyListResult(q, result)
	return nil
}

// LoadNextPage increments the page and fetches it. While a list fetch is in
// flight it is a no-op: single-flight backpressure for the scroll trigger.
func (s *CatalogService) LoadNextPage(ctx context.Context) error {
	s.mu.Lock()
	if s.listStatus == domain.StatusLoading {
		s.mu.Unlock()
		return nil
	}
	s.query.Page++
	s.mu.Unlock()

	return s.FetchProducts(ctx)
}

// applyListResult merges a successful fetch keyed by the query used to issue
// it. A reply whose fingerprint no longer matches the current query state is
// stale and discarded wholesale. A current reply landing on a result set
// built from a different fingerprint is applied as page 1.
func (s *CatalogService) applyListResult(q domain.QueryState, result *domain.SearchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q.Fingerprint() != s.query.Fingerprint() {
		log.Printf("[Catalog] Discarding stale result for superseded query (page %d)", q.Page)
		return
	}

	effectivePage := q.Page
	if q.Fingerprint() != s.appliedFingerprint {
		effectivePage = 1
	}

	if effectivePage <= 1 {
		s.items = append([]domain.Product(nil), result.Products...)
		s.seen = make(map[string]struct{}, len(result.Products))
		for _, p := range result.Products {
			s.seen[p.Code] = struct{}{}
		}
	} else {
		for _, p := range result.Products {
			if _, dup := s.seen[p.Code]; dup {
				continue
			}
			s.items = append(s.items, p)
			s.seen[p.Code] = struct{}{}
		}
	}

	// Server totals can shift between pages; the latest response wins.
	s.totalCount = result.Count
	s.listStatus = domain.StatusSucceeded
	s.listErr = ""
	s.appliedFingerprint = q.Fingerprint()
	q.Page = effectivePage
	s.appliedQuery = q

	s.publish(events.TopicCatalog)
}

// applyListError records a failed list fetch. Previously accumulated items
// stay visible; stale failures from superseded queries are ignored.
func (s *CatalogService) applyListError(q domain.QueryState, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q.Fingerprint() != s.query.Fingerprint() {
		return
	}

	// A failed load-more rolls the page back so the next attempt retries the
	// same page instead of silently skipping it.
	if q.Page > 1 && s.query.Page == q.Page {
		s.query.Page--
	}

	s.listStatus = domain.StatusFailed
	s.listErr = err.Error()
	s.publish(events.TopicCatalog)
}

// FetchProductByCode fetches a single product into its own slot. List state
// is never touched: a detail-page failure must not affect catalog browsing.
func (s *CatalogService) FetchProductByCode(ctx context.Context, code string) (ProductSlot, error) {
	s.mu.Lock()
	s.selectedStatus = domain.StatusLoading
	s.selectedErr = ""
	s.mu.Unlock()

	product, err := s.client.GetProductByCode(ctx, code)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.selectedStatus = domain.StatusFailed
		s.selectedErr = err.Error()
	} else {
		s.selected = product
		s.selectedStatus = domain.StatusSucceeded
	}
	s.publish(events.TopicProduct)

	return ProductSlot{Product: s.selected, Status: s.selectedStatus, Error: s.selectedErr}, err
}

// SelectedProduct returns a snapshot of the single-product slot.
func (s *CatalogService) SelectedProduct() ProductSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ProductSlot{Product: s.selected, Status: s.selectedStatus, Error: s.selectedErr}
}

// FetchCategories fetches the category listing into its own slot.
func (s *CatalogService) FetchCategories(ctx context.Context) (CategorySlot, error) {
	s.mu.Lock()
	s.categoriesStatus = domain.StatusLoading
	s.categoriesErr = ""
	s.mu.Unlock()

	categories, err := s.client.ListCategories(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.categoriesStatus = domain.StatusFailed
		s.categoriesErr = err.Error()
	} else {
		s.categories = categories
		s.categoriesStatus = domain.StatusSucceeded
	}
	s.publish(events.TopicCategories)

	return s.categorySlotLocked(), err
}

// Categories returns a snapshot of the category slot.
func (s *CatalogService) Categories() CategorySlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categorySlotLocked()
}

func (s *CatalogService) categorySlotLocked() CategorySlot {
	categories := make([]domain.Category, len(s.categories))
	copy(categories, s.categories)
	return CategorySlot{Categories: categories, Status: s.categoriesStatus, Error: s.categoriesErr}
}

// Suggest fetches lightweight suggestions for a fragment. Suggestion fetches
// are superseded, not merged: only the reply matching the most recently
// requested fragment is applied, so an out-of-order reply cannot flicker
// older suggestions over newer ones.
func (s *CatalogService) Suggest(ctx context.Context, fragment string) error {
	s.mu.Lock()
	s.suggestFragment = fragment
	s.suggestStatus = domain.StatusLoading
	s.suggestErr = ""
	s.mu.Unlock()

	suggestions, err := s.client.Suggest(ctx, fragment)

	s.mu.Lock()
	defer s.mu.Unlock()

	if fragment != s.suggestFragment {
		// A newer fragment was requested while this one was in flight.
		return nil
	}

	if err != nil {
		s.suggestStatus = domain.StatusFailed
		s.suggestErr = err.Error()
		s.publish(events.TopicSuggestions)
		return err
	}

	s.suggestions = suggestions
	s.suggestStatus = domain.StatusSucceeded
	s.publish(events.TopicSuggestions)
	return nil
}

// Suggestions returns a snapshot of the latest suggestion set.
func (s *CatalogService) Suggestions() SuggestionSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.Suggestion, len(s.suggestions))
	copy(items, s.suggestions)

	return SuggestionSet{
		Query:  s.suggestFragment,
		Items:  items,
		Status: s.suggestStatus,
		Error:  s.suggestErr,
	}
}
