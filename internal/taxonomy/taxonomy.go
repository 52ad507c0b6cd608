// internal/taxonomy/taxonomy.go
// Canonical preference taxonomy shared by the survey, restaurant features
// and similarity subsystems. The category order here fixes the layout of
// every preference/feature vector, so it must never be reordered without
// recomputing all stored vectors.

package taxonomy

// Category describes one survey round: the options a player can pick from
// and how many selections the round accepts.
type Category struct {
	Name          string
	Options       []string
	MinSelections int
	MaxSelections int
}

// Categories is the canonical taxonomy in vector order.
var Categories = []Category{
	{
		Name: "cuisine",
		Options: []string{
			"italian", "mexican", "chinese", "japanese", "indian",
			"thai", "american", "french", "mediterranean", "korean",
			"vietnamese", "middle_eastern",
		},
		MinSelections: 1,
		MaxSelections: 5,
	},
	{
		Name: "atmosphere",
		Options: []string{
			"romantic", "casual", "upscale", "family_friendly",
			"lively", "quiet", "outdoor", "cozy",
		},
		MinSelections: 1,
		MaxSelections: 4,
	},
	{
		Name: "price",
		Options: []string{
			"budget_friendly", "moderate", "upscale_worth_it",
			"price_no_object", "happy_hour", "deal_seeker",
		},
		MinSelections: 1,
		MaxSelections: 3,
	},
	{
		Name: "service",
		Options: []string{
			"fast_casual", "full_service", "takeout",
			"buffet", "food_truck", "fine_dining",
		},
		MinSelections: 1,
		MaxSelections: 3,
	},
	{
		Name: "dietary",
		Options: []string{
			"vegetarian_friendly", "vegan_options", "gluten_free",
			"keto_friendly", "healthy_options", "comfort_food",
			"no_restrictions",
		},
		MinSelections: 1,
		MaxSelections: 4,
	},
	{
		Name: "adventure",
		Options: []string{
			"stick_to_favorites", "mild_adventurer", "food_explorer",
			"extreme_foodie", "try_anything_once",
		},
		MinSelections: 1,
		MaxSelections: 2,
	},
}

// TotalRounds is the number of survey rounds (one per category).
const TotalRounds = 6

var (
	categoryIndex map[string]int
	slotIndex     map[string]map[string]int
	categoryBase  []int
	vectorSize    int
)

func init() {
	categoryIndex = make(map[string]int, len(Categories))
	slotIndex = make(map[string]map[string]int, len(Categories))
	categoryBase = make([]int, len(Categories))

	offset := 0
	for i, cat := range Categories {
		categoryIndex[cat.Name] = i
		categoryBase[i] = offset
		opts := make(map[string]int, len(cat.Options))
		for j, opt := range cat.Options {
			opts[opt] = j
		}
		slotIndex[cat.Name] = opts
		offset += len(cat.Options)
	}
	vectorSize = offset
}

// VectorSize is the dimensionality of the shared preference/feature space.
func VectorSize() int {
	return vectorSize
}

// CategoryByName looks up a category definition.
func CategoryByName(name string) (Category, bool) {
	idx, ok := categoryIndex[name]
	if !ok {
		return Category{}, false
	}
	return Categories[idx], true
}

// Slot returns the flat vector index for (category, option), or false if
// either is outside the canonical taxonomy.
func Slot(category, option string) (int, bool) {
	opts, ok := slotIndex[category]
	if !ok {
		return 0, false
	}
	j, ok := opts[option]
	if !ok {
		return 0, false
	}
	return categoryBase[categoryIndex[category]] + j, true
}

// IsKnownOption reports whether option belongs to category.
func IsKnownOption(category, option string) bool {
	_, ok := Slot(category, option)
	return ok
}
