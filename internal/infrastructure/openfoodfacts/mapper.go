package openfoodfacts

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/foodexplorer/backend/internal/domain"
)

// searchResponse is the envelope of /cgi/search.pl
type searchResponse struct {
	Products []offProduct `json:"products"`
	Count    int          `json:"count"`
}

// productResponse is the envelope of /api/v0/product/{code}.json. Status 1
// means found; anything else is a miss, even with a 200 response.
type productResponse struct {
	Status  int         `json:"status"`
	Product *offProduct `json:"product"`
}

// categoriesResponse is the envelope of /categories.json
type categoriesResponse struct {
	Tags []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Products int    `json:"products"`
	} `json:"tags"`
}

// offProduct is the raw catalog payload shape. Nutriments arrive as one flat
// map mixing numeric values, unit strings and serving-size variants.
type offProduct struct {
	Code             string          `json:"code"`
	ProductName      string          `json:"product_name"`
	ImageURL         string          `json:"image_url"`
	Brands           string          `json:"brands"`
	NutritionGradeFr string          `json:"nutrition_grade_fr"`
	CategoriesTags   []string        `json:"categories_tags"`
	IngredientsText  string          `json:"ingredients_text"`
	Nutriments       json.RawMessage `json:"nutriments"`
}

// mapProduct converts a raw catalog payload into the domain model
func mapProduct(raw *offProduct) domain.Product {
	return domain.Product{
		Code:            raw.Code,
		Name:            raw.ProductName,
		ImageURL:        raw.ImageURL,
		Brand:           raw.Brands,
		NutritionGrade:  normalizeGrade(raw.NutritionGradeFr),
		Categories:      raw.CategoriesTags,
		IngredientsText: raw.IngredientsText,
		Nutriments:      mapNutriments(raw.Nutriments),
	}
}

// normalizeGrade lowercases the grade and drops the catalog's non-grade
// placeholders ("unknown", "not-applicable").
func normalizeGrade(grade string) string {
	grade = strings.ToLower(strings.TrimSpace(grade))
	switch grade {
	case "a", "b", "c", "d", "e":
		return grade
	default:
		return ""
	}
}

// mapNutriments extracts per-100g nutrient values from the flat nutriments
// map, pairing each "<name>_100g" entry with its "<name>_unit" if present.
// Anything non-numeric or otherwise malformed is skipped, not fatal.
func mapNutriments(raw json.RawMessage) map[string]domain.Nutriment {
	if len(raw) == 0 {
		return nil
	}

	var flat map[string]json.RawMessage
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil
	}

	nutriments := make(map[string]domain.Nutriment)
	for key, value := range flat {
		name, ok := strings.CutSuffix(key, "_100g")
		if !ok || name == "" {
			continue
		}

		// Values occasionally arrive as quoted numbers.
		var amount float64
		if err := json.Unmarshal(value, &amount); err != nil {
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				continue
			}
			amount, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				continue
			}
		}

		nutriment := domain.Nutriment{Value: amount}
		if unitRaw, ok := flat[name+"_unit"]; ok {
			var unit string
			if err := json.Unmarshal(unitRaw, &unit); err == nil {
				nutriment.Unit = unit
			}
		}
		nutriments[name] = nutriment
	}

	if len(nutriments) == 0 {
		return nil
	}
	return nutriments
}
