// Package catalog holds the closed allergen and dietary-preference tables the
// pipeline classifies against. The tables are static domain data: they are
// compiled once at init and shared read-only by every component.
package catalog

import "regexp"

// Allergens is the closed catalog of the 14 declarable allergens. Explicit
// tags outside this set are ignored everywhere.
var Allergens = []string{
	"en:milk", "en:eggs", "en:fish", "en:crustaceans", "en:molluscs",
	"en:peanuts", "en:nuts", "en:soybeans", "en:gluten", "en:celery",
	"en:mustard", "en:sesame-seeds", "en:sulphur-dioxide-and-sulphites", "en:lupin",
}

var allergenSet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(Allergens))
	for _, a := range Allergens {
		s[a] = struct{}{}
	}
	return s
}()

// IsKnownAllergen reports whether tag is one of the 14 catalog allergens.
func IsKnownAllergen(tag string) bool {
	_, ok := allergenSet[tag]
	return ok
}

// KeywordMapping binds one whole-word keyword pattern to the allergen it
// implies. Matching is case-insensitive substring search; every matching
// entry contributes (union semantics, never first-match-wins).
type KeywordMapping struct {
	Pattern  *regexp.Regexp
	Allergen string
}

func keyword(expr, allergen string) KeywordMapping {
	return KeywordMapping{Pattern: regexp.MustCompile(`(?i)` + expr), Allergen: allergen}
}

// IngredientKeywords maps ingredient-name keywords to allergen identifiers.
var IngredientKeywords = []KeywordMapping{
	keyword(`\bmilk\b`, "en:milk"),
	keyword(`\bbutter\b`, "en:milk"),
	keyword(`\bcheese\b`, "en:milk"),
	keyword(`\bcream\b`, "en:milk"),
	keyword(`\byogurt\b`, "en:milk"),
	keyword(`\bcasein(?:ate)?\b`, "en:milk"),
	keyword(`\bwhey\b`, "en:milk"),
	keyword(`\blactose\b`, "en:milk"),
	keyword(`\begg(s)?\b`, "en:eggs"),
	keyword(`\bovalbumin\b`, "en:eggs"),
	keyword(`\blysozyme\b`, "en:eggs"),
	keyword(`\balbumin\b`, "en:eggs"),
	keyword(`\bfish\b`, "en:fish"),
	keyword(`\bsalmon\b`, "en:fish"),
	keyword(`\btuna\b`, "en:fish"),
	keyword(`\bcod\b`, "en:fish"),
	keyword(`\banchovy\b`, "en:fish"),
	keyword(`\btrout\b`, "en:fish"),
	keyword(`\bhaddock\b`, "en:fish"),
	keyword(`\bshrimp\b`, "en:crustaceans"),
	keyword(`\bprawn(s)?\b`, "en:crustaceans"),
	keyword(`\bcrab\b`, "en:crustaceans"),
	keyword(`\blobster\b`, "en:crustaceans"),
	keyword(`\bcrayfish\b`, "en:crustaceans"),
	keyword(`\bkrill\b`, "en:crustaceans"),
	keyword(`\bmollusc(s)?\b`, "en:molluscs"),
	keyword(`\bmussel(s)?\b`, "en:molluscs"),
	keyword(`\boyster(s)?\b`, "en:molluscs"),
	keyword(`\bsquid\b`, "en:molluscs"),
	keyword(`\boctopus\b`, "en:molluscs"),
	keyword(`\bsnail(s)?\b`, "en:molluscs"),
	keyword(`\bclam(s)?\b`, "en:molluscs"),
	keyword(`\bscallop(s)?\b`, "en:molluscs"),
	keyword(`\bpeanut(s)?\b`, "en:peanuts"),
	keyword(`\barachis\b`, "en:peanuts"),
	keyword(`\bnut(s)?\b`, "en:nuts"),
	keyword(`\balmond(s)?\b`, "en:nuts"),
	keyword(`\bhazelnut(s)?\b`, "en:nuts"),
	keyword(`\bwalnut(s)?\b`, "en:nuts"),
	keyword(`\bcashew(s)?\b`, "en:nuts"),
	keyword(`\bpecan(s)?\b`, "en:nuts"),
	keyword(`\bbrazil nut(s)?\b`, "en:nuts"),
	keyword(`\bpistachio(s)?\b`, "en:nuts"),
	keyword(`\bmacadamia(s)?\b`, "en:nuts"),
	keyword(`\bqueensland nut(s)?\b`, "en:nuts"),
	keyword(`\bsoy\b`, "en:soybeans"),
	keyword(`\bsoya\b`, "en:soybeans"),
	keyword(`\blecithin\b`, "en:soybeans"),
	keyword(`\btofu\b`, "en:soybeans"),
	keyword(`\bedamame\b`, "en:soybeans"),
	keyword(`\bmiso\b`, "en:soybeans"),
	keyword(`\btempeh\b`, "en:soybeans"),
	keyword(`\bbean curd\b`, "en:soybeans"),
	keyword(`\bwheat\b`, "en:gluten"),
	keyword(`\bgluten\b`, "en:gluten"),
	keyword(`\bbarley\b`, "en:gluten"),
	keyword(`\brye\b`, "en:gluten"),
	keyword(`\boat(s)?\b`, "en:gluten"),
	keyword(`\bspelt\b`, "en:gluten"),
	keyword(`\bkamut\b`, "en:gluten"),
	keyword(`\bkhorasan wheat\b`, "en:gluten"),
	keyword(`\bsemolina\b`, "en:gluten"),
	keyword(`\bdurum\b`, "en:gluten"),
	keyword(`\bcouscous\b`, "en:gluten"),
	keyword(`\btriticale\b`, "en:gluten"),
	keyword(`\bflour\b`, "en:gluten"),
	keyword(`\bcelery\b`, "en:celery"),
	keyword(`\bceleriac\b`, "en:celery"),
	keyword(`\bmustard\b`, "en:mustard"),
	keyword(`\bsesame\b`, "en:sesame-seeds"),
	keyword(`\btahini\b`, "en:sesame-seeds"),
	keyword(`\bsulphite(s)?\b`, "en:sulphur-dioxide-and-sulphites"),
	keyword(`\bsulfite(s)?\b`, "en:sulphur-dioxide-and-sulphites"),
	keyword(`\bsulphur dioxide\b`, "en:sulphur-dioxide-and-sulphites"),
	keyword(`\bsulfur dioxide\b`, "en:sulphur-dioxide-and-sulphites"),
	keyword(`\bE22[0-8]\b`, "en:sulphur-dioxide-and-sulphites"),
	keyword(`\blupin(s)?\b`, "en:lupin"),
}

// DietaryPreference describes one preference: the label synonyms that mark a
// product as suitable, and the allergen/category identifiers an ingredient
// conflicts with. Conflict sets may carry identifiers beyond the allergen
// catalog (meat, honey, gelatin); those act purely as lookup keys.
type DietaryPreference struct {
	Name      string
	Synonyms  map[string]struct{}
	Conflicts map[string]struct{}
}

func set(values ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// DietaryPreferences is the closed catalog of the 4 supported preferences.
var DietaryPreferences = []DietaryPreference{
	{
		Name:     "vegan",
		Synonyms: set("en:vegan", "vegan"),
		Conflicts: set(
			"en:non-vegan", "en:milk", "en:eggs", "en:fish", "en:crustaceans", "en:molluscs",
			"en:meat", "en:dairy", "en:honey", "en:collagen", "en:gelatin", "en:cheese",
		),
	},
	{
		Name:     "vegetarian",
		Synonyms: set("en:vegetarian", "vegetarian"),
		Conflicts: set(
			"en:non-vegetarian", "en:fish", "en:crustaceans", "en:molluscs", "en:meat",
			"en:collagen", "en:gelatin",
		),
	},
	{
		Name:      "gluten_free",
		Synonyms:  set("en:gluten-free", "gluten-free", "sans gluten"),
		Conflicts: set("en:gluten"),
	},
	{
		Name:      "lactose_free",
		Synonyms:  set("en:lactose-free", "lactose-free", "sans lactose"),
		Conflicts: set("en:milk", "en:lactose"),
	},
}
