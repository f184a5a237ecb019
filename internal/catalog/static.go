package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"outfit-studio/internal/models"
)

//go:embed static/catalog.json
var staticCatalogJSON []byte

// StaticCatalog is the outfit collection bundled with the build.
type StaticCatalog struct {
	Items   []models.OutfitItem `json:"items"`
	Outfits []models.Outfit     `json:"outfits"`

	itemsByID map[string]models.OutfitItem
}

// ParseStatic decodes and validates a static catalog document.
func ParseStatic(data []byte) (*StaticCatalog, error) {
	var sc StaticCatalog
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to decode static catalog: %w", err)
	}

	sc.itemsByID = make(map[string]models.OutfitItem, len(sc.Items))
	for _, item := range sc.Items {
		if item.ID == "" {
			return nil, fmt.Errorf("static item %q has no id", item.Name)
		}
		if len(item.Keywords) == 0 {
			return nil, fmt.Errorf("static item %s has no keywords", item.ID)
		}
		sc.itemsByID[item.ID] = item
	}

	seen := make(map[string]bool, len(sc.Outfits))
	for _, outfit := range sc.Outfits {
		if outfit.ID == "" || seen[outfit.ID] {
			return nil, fmt.Errorf("static outfit %q has a missing or duplicate id", outfit.Name)
		}
		seen[outfit.ID] = true
		for _, ref := range outfit.Items {
			if _, ok := sc.itemsByID[ref.ItemID]; !ok {
				return nil, fmt.Errorf("static outfit %s references unknown item %s", outfit.ID, ref.ItemID)
			}
		}
	}

	return &sc, nil
}

var (
	bundledOnce sync.Once
	bundled     *StaticCatalog
	bundledErr  error
)

// Bundled returns the embedded static catalog.
func Bundled() (*StaticCatalog, error) {
	bundledOnce.Do(func() {
		bundled, bundledErr = ParseStatic(staticCatalogJSON)
	})
	return bundled, bundledErr
}

// Item looks up an item by id.
func (sc *StaticCatalog) Item(id string) (models.OutfitItem, bool) {
	item, ok := sc.itemsByID[id]
	return item, ok
}

// ItemKeywords flattens the keywords of an outfit's items, in item order.
func (sc *StaticCatalog) ItemKeywords(outfit models.Outfit) []string {
	var keywords []string
	for _, ref := range outfit.Items {
		if item, ok := sc.itemsByID[ref.ItemID]; ok {
			keywords = append(keywords, item.Keywords...)
		}
	}
	return keywords
}

// Outfit looks up a predefined outfit by id.
func (sc *StaticCatalog) Outfit(id string) (models.Outfit, bool) {
	for _, outfit := range sc.Outfits {
		if outfit.ID == id {
			return outfit, true
		}
	}
	return models.Outfit{}, false
}
