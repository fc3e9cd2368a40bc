package domain

import "fmt"

// =============================================================================
// Built-in Dictionaries
// =============================================================================

// DefaultCropCategories are the built-in crop/animal trigger terms, grouped by
// crop category. Adding a category is a configuration change here; there is no
// runtime mutation API.
func DefaultCropCategories() []Category {
	return []Category{
		{Name: "cereals", Terms: []string{"maize", "corn", "rice", "wheat", "millet", "sorghum", "barley", "oats"}},
		{Name: "vegetables", Terms: []string{"tomato", "cabbage", "onion", "carrot", "kale", "spinach", "pepper", "eggplant", "cucumber"}},
		{Name: "tubers", Terms: []string{"potato", "cassava", "yam", "sweet potato"}},
		{Name: "legumes", Terms: []string{"bean", "pea", "lentil", "groundnut", "peanut", "soybean"}},
		{Name: "fruits", Terms: []string{"banana", "plantain", "mango", "papaya", "avocado", "orange", "pineapple"}},
		{Name: "cash_crops", Terms: []string{"coffee", "tea", "cotton", "tobacco", "sugarcane"}},
		{Name: "livestock", Terms: []string{"chicken", "cattle", "cow", "pig", "goat", "sheep", "duck", "turkey", "rabbit"}},
		{Name: "poultry", Terms: []string{"poultry", "hen", "rooster", "chick", "egg", "broiler", "layer"}},
		{Name: "aquaculture", Terms: []string{"fish", "tilapia", "catfish", "pond"}},
	}
}

// DefaultGeneralCategories are the built-in general-topic trigger terms.
func DefaultGeneralCategories() []Category {
	return []Category{
		{Name: "soil", Terms: []string{"soil", "erosion", "fertility", "compost", "manure", "organic matter"}},
		{Name: "weather", Terms: []string{"weather", "rain", "rainfall", "drought", "climate", "temperature", "season"}},
		{Name: "water", Terms: []string{"water", "irrigation", "watering", "moisture", "drainage"}},
		{Name: "pests", Terms: []string{"pest", "insect", "bug", "aphid", "worm", "beetle"}},
		{Name: "diseases", Terms: []string{"disease", "fungus", "blight", "rot", "wilt", "virus"}},
		{Name: "weeds", Terms: []string{"weed", "grass", "invasive"}},
		{Name: "fertilizer", Terms: []string{"fertilizer", "fertiliser", "nutrient", "npk", "nitrogen", "phosphorus", "potassium"}},
		{Name: "farming_practices", Terms: []string{"planting", "harvest", "harvesting", "pruning", "mulching", "spacing", "rotation"}},
		{Name: "general_advice", Terms: []string{"farming", "agriculture", "crop", "farm", "grow", "cultivate"}},
	}
}

// DefaultKeywordDictionary builds the built-in two-namespace dictionary.
// The built-in data is known-valid; a failure here is a programming error.
func DefaultKeywordDictionary() *KeywordDictionary {
	crop, err := NewDictionary(NamespaceCrop, DefaultCropCategories())
	if err != nil {
		panic(fmt.Sprintf("built-in crop dictionary: %v", err))
	}
	general, err := NewDictionary(NamespaceGeneral, DefaultGeneralCategories())
	if err != nil {
		panic(fmt.Sprintf("built-in general dictionary: %v", err))
	}
	kd, err := NewKeywordDictionary(crop, general)
	if err != nil {
		panic(fmt.Sprintf("built-in keyword dictionary: %v", err))
	}
	return kd
}
