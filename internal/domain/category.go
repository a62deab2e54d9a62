package domain

type Category string

const (
	CategoryBeverages Category = "beverages"
	CategorySnacks    Category = "snacks"
	CategoryCandy     Category = "candy"
	CategoryBundles   Category = "bundles"
)

// DefaultCategory is used for products stored without a recognized category
const DefaultCategory = CategoryBundles

type CategoryInfo struct {
	Key  Category `json:"key"`
	Name string   `json:"name"`
	Icon string   `json:"icon"`
}

// registry order is the display order
var registry = []CategoryInfo{
	{Key: CategoryBeverages, Name: "Beverages", Icon: "🥤"},
	{Key: CategorySnacks, Name: "Snacks", Icon: "🍿"},
	{Key: CategoryCandy, Name: "Candy", Icon: "🍭"},
	{Key: CategoryBundles, Name: "Bundles", Icon: "📦"},
}

// Categories returns the fixed category registry in display order
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(registry))
	copy(out, registry)
	return out
}

func LookupCategory(key Category) (CategoryInfo, bool) {
	for _, c := range registry {
		if c.Key == key {
			return c, true
		}
	}
	return CategoryInfo{}, false
}

func (c Category) Valid() bool {
	_, ok := LookupCategory(c)
	return ok
}

// ParseCategory maps a stored value to a registry key, falling back to DefaultCategory
func ParseCategory(raw string) Category {
	c := Category(raw)
	if c.Valid() {
		return c
	}
	return DefaultCategory
}
