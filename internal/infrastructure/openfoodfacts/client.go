package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/foodexplorer/backend/internal/domain"
	"golang.org/x/time/rate"
)

// errStatusNotFound marks an HTTP 404. Only the barcode lookup maps it to
// domain.ErrNotFound; every other endpoint surfaces it as a fetch failure.
var errStatusNotFound = fmt.Errorf("%w: status 404", domain.ErrFetchFailed)

// minSuggestFragment is the shortest fragment the suggest lookup accepts.
const minSuggestFragment = 2

// Client handles communication with the Open Food Facts API
type Client struct {
	httpClient   *http.Client
	baseURL      string
	userAgent    string
	suggestLimit int
	rateLimiter  *rate.Limiter
}

// ClientConfig holds construction parameters for the catalog client
type ClientConfig struct {
	BaseURL           string
	UserAgent         string
	SuggestLimit      int
	RequestsPerSecond float64
	BurstLimit        int
}

// NewClient creates a new Open Food Facts API client
func NewClient(cfg ClientConfig) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 0.16 // ~10 requests per minute, per OFF API etiquette
	}
	burst := cfg.BurstLimit
	if burst <= 0 {
		burst = 5
	}
	suggestLimit := cfg.SuggestLimit
	if suggestLimit <= 0 {
		suggestLimit = 8
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:      cfg.BaseURL,
		userAgent:    cfg.UserAgent,
		suggestLimit: suggestLimit,
		rateLimiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// getJSON executes a rate-limited GET request and decodes the JSON body into
// out. Transport failures, non-2xx statuses, and malformed payloads all wrap
// domain.ErrFetchFailed. No retries here: retry policy belongs to the caller.
func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", domain.ErrFetchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errStatusNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", domain.ErrFetchFailed, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", domain.ErrFetchFailed, err)
	}

	return nil
}

// searchURL builds the search.pl request URL. Empty query/category are
// omitted entirely, meaning "no constraint".
func (c *Client) searchURL(params domain.SearchParams) string {
	values := url.Values{}
	values.Set("action", "process")
	values.Set("json", "true")

	if params.Query != "" {
		values.Set("search_terms", params.Query)
	}
	if params.Category != "" {
		values.Set("tagtype_0", "categories")
		values.Set("tag_contains_0", "contains")
		values.Set("tag_0", params.Category)
	}

	sortBy, sortOrder := sortKey(params.Sort)
	values.Set("sort_by", sortBy)
	values.Set("sort_order", sortOrder)

	page := params.Page
	if page < 1 {
		page = 1
	}
	values.Set("page", strconv.Itoa(page))
	values.Set("page_size", strconv.Itoa(params.PageSize))

	return fmt.Sprintf("%s/cgi/search.pl?%s", c.baseURL, values.Encode())
}

// sortKey maps a sort option to the server's ordering key. Unrecognized
// options fall back to popularity.
func sortKey(sort domain.SortOption) (by, order string) {
	switch sort {
	case domain.SortNameAsc:
		return "product_name", "asc"
	case domain.SortNameDesc:
		return "product_name", "desc"
	case domain.SortGradeAsc:
		return "nutrition_grade_fr", "asc"
	case domain.SortGradeDesc:
		return "nutrition_grade_fr", "desc"
	default:
		return "popularity_key", "desc"
	}
}

// SearchProducts fetches one page of catalog search results
func (c *Client) SearchProducts(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	var payload searchResponse
	if err := c.getJSON(ctx, c.searchURL(params), &payload); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(payload.Products))
	for i := range payload.Products {
		products = append(products, mapProduct(&payload.Products[i]))
	}

	return &domain.SearchResult{
		Products: products,
		Count:    payload.Count,
	}, nil
}

// GetProductByCode fetches a single product by barcode
func (c *Client) GetProductByCode(ctx context.Context, code string) (*domain.Product, error) {
	if code == "" {
		return nil, domain.ErrInvalidRequest
	}

	reqURL := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(code))

	var payload productResponse
	if err := c.getJSON(ctx, reqURL, &payload); err != nil {
		if errors.Is(err, errStatusNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	// The product endpoint reports misses with status 0 inside a 200 body.
	if payload.Status != 1 || payload.Product == nil {
		return nil, domain.ErrNotFound
	}

	product := mapProduct(payload.Product)
	if product.Code == "" {
		product.Code = code
	}
	return &product, nil
}

// ListCategories fetches the catalog's category listing
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var payload categoriesResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/categories.json", c.baseURL), &payload); err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(payload.Tags))
	for _, tag := range payload.Tags {
		categories = append(categories, domain.Category{
			ID:           tag.ID,
			Name:         tag.Name,
			ProductCount: tag.Products,
		})
	}
	return categories, nil
}

// Suggest fetches a short list of lightweight products matching the fragment.
// Fragments shorter than two runes are rejected before any request is issued.
func (c *Client) Suggest(ctx context.Context, fragment string) ([]domain.Suggestion, error) {
	if utf8.RuneCountInString(fragment) < minSuggestFragment {
		return nil, domain.ErrInvalidRequest
	}

	params := domain.SearchParams{
		Query:    fragment,
		Sort:     domain.SortPopularity,
		Page:     1,
		PageSize: c.suggestLimit,
	}

	var payload searchResponse
	if err := c.getJSON(ctx, c.searchURL(params), &payload); err != nil {
		return nil, err
	}

	suggestions := make([]domain.Suggestion, 0, len(payload.Products))
	for i := range payload.Products {
		p := &payload.Products[i]
		suggestions = append(suggestions, domain.Suggestion{
			Code:     p.Code,
			Name:     p.ProductName,
			ImageURL: p.ImageURL,
			Brand:    p.Brands,
		})
	}

	log.Printf("[OFF] Suggest %q returned %d products", fragment, len(suggestions))
	return suggestions, nil
}
