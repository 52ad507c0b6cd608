// internal/restaurants/features.go
// Projects static restaurant attributes into the shared taxonomy space so
// they can be compared to user preference vectors with a plain dot product.

package restaurants

import "github.com/sfuqua6/foodie/internal/taxonomy"

// priceOptions maps a price level (1..4) to its taxonomy option id.
var priceOptions = map[int]string{
	1: "budget_friendly",
	2: "moderate",
	3: "upscale_worth_it",
	4: "price_no_object",
}

// tagCategories are the categories whose options may appear as free-form
// restaurant tags.
var tagCategories = []string{"atmosphere", "service", "dietary", "adventure"}

// FeatureVector builds the restaurant's L2-normalized feature vector in
// the canonical taxonomy layout. Attributes outside the taxonomy are
// dropped; a restaurant with no recognizable attributes yields the zero
// vector ("no signal").
func FeatureVector(r *Restaurant) taxonomy.Vector {
	v := taxonomy.NewVector()

	if slot, ok := taxonomy.Slot("cuisine", r.CuisineType); ok {
		v[slot] = 1
	}

	if opt, ok := priceOptions[r.PriceLevel]; ok {
		if slot, ok := taxonomy.Slot("price", opt); ok {
			v[slot] = 1
		}
	}

	for _, tag := range r.Tags {
		for _, cat := range tagCategories {
			if slot, ok := taxonomy.Slot(cat, tag); ok {
				v[slot] = 1
				break
			}
		}
	}

	return v.Normalize()
}
