package models

type CardKind string

const (
	CardKindCreate CardKind = "create"
	CardKindOutfit CardKind = "outfit"
)

type CardSource string

const (
	CardSourceStatic CardSource = "static"
	CardSourceRemote CardSource = "remote"
)

const (
	CreateCardID    = "create"
	CreateCardTitle = "Create Your Own Look"
)

// CreateCardKeywords is the fixed keyword set of the create card.
var CreateCardKeywords = []string{"create", "new", "custom", "design"}

// Card is the view-model unit of the home deck. A card is either the single
// create card or an outfit card built from a static or remote outfit.
type Card struct {
	Kind          CardKind      `json:"kind"`
	Source        CardSource    `json:"source,omitempty"`
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	PreviewSource string        `json:"preview_source,omitempty"`
	Keywords      []string      `json:"keywords,omitempty"`
	ItemKeywords  []string      `json:"item_keywords,omitempty"`
	Remote        *RemoteOutfit `json:"remote,omitempty"`
}

// NewCreateCard returns the create pseudo-card.
func NewCreateCard() Card {
	return Card{
		Kind:     CardKindCreate,
		ID:       CreateCardID,
		Title:    CreateCardTitle,
		Keywords: append([]string(nil), CreateCardKeywords...),
	}
}

func (c Card) IsCreate() bool {
	return c.Kind == CardKindCreate
}

// MatchKey returns the identity a GeneratedRecord's OutfitID is compared with:
// the remote outfit key for remote cards, the card id otherwise.
func (c Card) MatchKey() string {
	if c.Remote != nil {
		return c.Remote.Key()
	}
	return c.ID
}
