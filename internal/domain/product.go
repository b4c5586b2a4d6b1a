package domain

// Nutriment holds a single nutrient value as reported per 100g of product.
type Nutriment struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// Product is a read-only snapshot of a catalog entry. Code is the barcode and
// the sole identity key across all collections.
type Product struct {
	Code            string               `json:"code"`
	Name            string               `json:"name"`
	ImageURL        string               `json:"imageUrl,omitempty"`
	Brand           string               `json:"brand,omitempty"`
	NutritionGrade  string               `json:"nutritionGrade,omitempty"` // "a".."e", empty if ungraded
	Categories      []string             `json:"categories,omitempty"`
	IngredientsText string               `json:"ingredientsText,omitempty"`
	Nutriments      map[string]Nutriment `json:"nutriments,omitempty"`
}

// Category is one entry of the catalog's category listing.
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProductCount int    `json:"productCount"`
}

// Suggestion is a lightweight product summary returned by the suggest lookup.
type Suggestion struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
	Brand    string `json:"brand,omitempty"`
}

// FetchStatus is the lifecycle state of one logical fetch operation.
type FetchStatus string

const (
	StatusIdle      FetchStatus = "idle"
	StatusLoading   FetchStatus = "loading"
	StatusSucceeded FetchStatus = "succeeded"
	StatusFailed    FetchStatus = "failed"
)
