package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/foodexplorer/backend/internal/domain"
	"github.com/foodexplorer/backend/internal/events"
	"github.com/foodexplorer/backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog *usecase.CatalogService
	cart    *usecase.CartService
	trigger *usecase.ScrollTrigger
	broker  *events.Broker
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog *usecase.CatalogService, cart *usecase.CartService, trigger *usecase.ScrollTrigger, broker *events.Broker) *Handler {
	return &Handler{
		catalog: catalog,
		cart:    cart,
		trigger: trigger,
		broker:  broker,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "foodexplorer-backend",
		"version": "1.0.0",
	})
}

// GetCatalog returns the current query state and accumulated result set
func (h *Handler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"query":   h.catalog.Query(),
		"results": h.catalog.Results(),
	})
}

// queryRequest carries mutations to the query state. Absent fields leave the
// corresponding parameter untouched.
type queryRequest struct {
	Search   *string `json:"search"`
	Category *string `json:"category"`
	Sort     *string `json:"sort"`
}

// UpdateQuery applies query mutations and fetches page 1 of the new query
func (h *Handler) UpdateQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Search != nil {
		h.catalog.SetSearch(*req.Search)
	}
	if req.Category != nil {
		h.catalog.SetCategory(*req.Category)
	}
	if req.Sort != nil {
		h.catalog.SetSort(domain.SortOption(*req.Sort))
	}

	if err := h.catalog.FetchProducts(c.Request.Context()); err != nil {
		h.catalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   h.catalog.Query(),
		"results": h.catalog.Results(),
	})
}

// ResetQuery restores the default query and refetches
func (h *Handler) ResetQuery(c *gin.Context) {
	h.catalog.ResetQuery()

	if err := h.catalog.FetchProducts(c.Request.Context()); err != nil {
		h.catalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   h.catalog.Query(),
		"results": h.catalog.Results(),
	})
}

// LoadMore fetches the next page of the current query
func (h *Handler) LoadMore(c *gin.Context) {
	if err := h.catalog.LoadNextPage(c.Request.Context()); err != nil {
		h.catalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   h.catalog.Query(),
		"results": h.catalog.Results(),
	})
}

// attachRequest names the sentinel to observe
type attachRequest struct {
	SentinelID string `json:"sentinelId" binding:"required"`
}

// AttachSentinel registers a sentinel observation for the scroll trigger
func (h *Handler) AttachSentinel(c *gin.Context) {
	var req attachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sentinelId is required"})
		return
	}

	h.trigger.Attach(req.SentinelID)
	c.JSON(http.StatusOK, gin.H{"observing": h.trigger.Observing()})
}

// ReleaseSentinel drops the current sentinel observation
func (h *Handler) ReleaseSentinel(c *gin.Context) {
	h.trigger.Release()
	c.Status(http.StatusNoContent)
}

// SentinelVisibility feeds one visibility event to the scroll trigger
func (h *Handler) SentinelVisibility(c *gin.Context) {
	var event usecase.VisibilityEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.trigger.OnVisibility(c.Request.Context(), event); err != nil {
		h.catalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   h.catalog.Query(),
		"results": h.catalog.Results(),
	})
}

// GetProduct fetches a single product by barcode into the selected slot
func (h *Handler) GetProduct(c *gin.Context) {
	code := c.Param("code")

	slot, err := h.catalog.FetchProductByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found", "selected": slot})
			return
		}
		h.catalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"selected": slot})
}

// GetCategories fetches and returns the category listing
func (h *Handler) GetCategories(c *gin.Context) {
	slot, err := h.catalog.FetchCategories(c.Request.Context())
	if err != nil {
		h.catalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": slot})
}

// Suggest fetches suggestions for a name fragment
func (h *Handler) Suggest(c *gin.Context) {
	fragment := c.Query("q")

	if err := h.catalog.Suggest(c.Request.Context(), fragment); err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fragment must be at least 2 characters"})
			return
		}
		h.catalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": h.catalog.Suggestions()})
}

// GetCart returns the cart state
func (h *Handler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.cart.State())
}

// addItemRequest carries an add-to-cart mutation
type addItemRequest struct {
	Product  domain.Product `json:"product" binding:"required"`
	Quantity int            `json:"quantity"`
}

// AddCartItem adds a product snapshot to the cart
func (h *Handler) AddCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.cart.AddItem(c.Request.Context(), req.Product, req.Quantity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product code is required"})
		return
	}

	c.JSON(http.StatusOK, h.cart.State())
}

// RemoveCartItem deletes a cart line unconditionally
func (h *Handler) RemoveCartItem(c *gin.Context) {
	h.cart.RemoveItem(c.Request.Context(), c.Param("code"))
	c.JSON(http.StatusOK, h.cart.State())
}

// IncrementCartItem raises a line's quantity by 1
func (h *Handler) IncrementCartItem(c *gin.Context) {
	h.cart.IncrementQuantity(c.Request.Context(), c.Param("code"))
	c.JSON(http.StatusOK, h.cart.State())
}

// DecrementCartItem lowers a line's quantity by 1, floored at 1
func (h *Handler) DecrementCartItem(c *gin.Context) {
	h.cart.DecrementQuantity(c.Request.Context(), c.Param("code"))
	c.JSON(http.StatusOK, h.cart.State())
}

// ClearCart empties the cart
func (h *Handler) ClearCart(c *gin.Context) {
	h.cart.ClearCart(c.Request.Context())
	c.JSON(http.StatusOK, h.cart.State())
}

// StreamEvents streams state-change notifications as server-sent events until
// the client disconnects
func (h *Handler) StreamEvents(c *gin.Context) {
	sub := h.broker.Subscribe()
	defer h.broker.Unsubscribe(sub)

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-sub:
			if !ok {
				return false
			}
			c.SSEvent("message", event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// catalogError maps a catalog failure onto the response. The failure is also
// recorded in the relevant status slot, so the body carries current state.
func (h *Handler) catalogError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{
		"error":   err.Error(),
		"results": h.catalog.Results(),
	})
}
