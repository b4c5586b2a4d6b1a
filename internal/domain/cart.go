package domain

// CartLine is one cart entry: a product snapshot plus its quantity.
// Quantity is always >= 1; a line that would drop to zero is removed instead.
type CartLine struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	ImageURL       string `json:"imageUrl,omitempty"`
	Brand          string `json:"brand,omitempty"`
	NutritionGrade string `json:"nutritionGrade,omitempty"`
	Quantity       int    `json:"quantity"`
}

// CartState is the full cart. Items preserve insertion order; TotalItems is
// always the sum of line quantities.
type CartState struct {
	Items      []CartLine `json:"items"`
	TotalItems int        `json:"totalItems"`
}

// EmptyCart returns a cart with no lines.
func EmptyCart() CartState {
	return CartState{Items: []CartLine{}}
}

// LineFromProduct builds a cart line snapshot from a catalog product.
func LineFromProduct(p Product, quantity int) CartLine {
	return CartLine{
		Code:           p.Code,
		Name:           p.Name,
		ImageURL:       p.ImageURL,
		Brand:          p.Brand,
		NutritionGrade: p.NutritionGrade,
		Quantity:       quantity,
	}
}
