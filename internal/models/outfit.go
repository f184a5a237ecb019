package models

// OutfitItem is a single garment from the bundled item table.
type OutfitItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"` // Tops, Bottoms, Shoes, Dresses, ...
	ImageRef string   `json:"image_ref"`
	Keywords []string `json:"keywords"`
}

// ItemRef points a predefined outfit at an entry of the item table.
type ItemRef struct {
	ItemID string `json:"item_id"`
	Label  string `json:"label"`
}

// Outfit is a predefined outfit bundled with the app.
type Outfit struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	PreviewImageRef string    `json:"preview_image_ref"`
	Keywords        []string  `json:"keywords"`
	Items           []ItemRef `json:"items"`
}

// RemoteOutfit is a record of the backend outfit collection, as served by
// GET /getAllOutfits. Items are raw storage file identifiers.
type RemoteOutfit struct {
	ID       string   `json:"_id,omitempty"`
	Name     string   `json:"name"`
	File     string   `json:"file"`
	Keywords []string `json:"keywords"`
	Items    []string `json:"items"`
}

// Key returns the identity used to match generated records against this
// outfit. Records without an id fall back to the display name.
func (o RemoteOutfit) Key() string {
	if o.ID != "" {
		return o.ID
	}
	return o.Name
}
