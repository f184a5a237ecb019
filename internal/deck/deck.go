// Package deck tracks the view state of the horizontally snapping card deck:
// which card is centered, whether a shuffle is in flight, and which cards are
// displayed under the current filter.
package deck

import (
	"outfit-studio/internal/filter"
	"outfit-studio/internal/models"
)

type State int

const (
	StateIdle State = iota
	StateShuffling
)

func (s State) String() string {
	switch s {
	case StateShuffling:
		return "shuffling"
	default:
		return "idle"
	}
}

// Haptics emits a single feedback pulse.
type Haptics interface {
	Pulse()
}

// HapticsFunc adapts a function to Haptics.
type HapticsFunc func()

func (f HapticsFunc) Pulse() { f() }

type noHaptics struct{}

func (noHaptics) Pulse() {}

// Deck is not safe for concurrent use; its owner serializes calls.
type Deck struct {
	state       State
	activeIndex int
	haptics     Haptics

	original  []models.Card
	displayed []models.Card
	filter    models.FilterState
}

// New returns an idle deck with no cards. A nil haptics discards pulses.
func New(haptics Haptics) *Deck {
	if haptics == nil {
		haptics = noHaptics{}
	}
	return &Deck{
		haptics: haptics,
		filter:  models.DefaultFilterState(),
	}
}

// Reset seeds both the original and the displayed list, e.g. after a catalog
// load, and clears the filter.
func (d *Deck) Reset(cards []models.Card) {
	d.original = cards
	d.displayed = cards
	d.filter = models.DefaultFilterState()
	d.activeIndex = firstOutfitIndex(cards)
}

// OnViewableCardsChanged records the lowest visible index as active. A pulse
// fires only when the active index actually changes.
func (d *Deck) OnViewableCardsChanged(viewable []int) {
	if len(viewable) == 0 {
		return
	}
	lowest := viewable[0]
	for _, idx := range viewable[1:] {
		if idx < lowest {
			lowest = idx
		}
	}
	if lowest == d.activeIndex {
		return
	}
	d.activeIndex = lowest
	d.haptics.Pulse()
}

// RequestShuffle rebuilds the deck with reshuffle. It is refused unless the
// deck is idle. A shuffle always clears the active filter.
func (d *Deck) RequestShuffle(reshuffle func() []models.Card) bool {
	if d.state != StateIdle {
		return false
	}
	d.state = StateShuffling
	defer func() { d.state = StateIdle }()

	cards := reshuffle()
	d.original = cards
	d.displayed = cards
	d.filter = models.DefaultFilterState()
	d.activeIndex = firstOutfitIndex(cards)
	return true
}

// RequestFilterApply displays the original cards that pass state. It is
// refused while a shuffle is in flight.
func (d *Deck) RequestFilterApply(state models.FilterState, records []models.GeneratedRecord) bool {
	if d.state != StateIdle {
		return false
	}
	d.filter = state
	d.displayed = filter.Apply(d.original, state, records)
	return true
}

// ClearFilter restores the unfiltered cards.
func (d *Deck) ClearFilter() bool {
	if d.state != StateIdle {
		return false
	}
	d.filter = models.DefaultFilterState()
	d.displayed = filter.Clear(d.original)
	return true
}

func (d *Deck) State() State { return d.state }

func (d *Deck) IsShuffling() bool { return d.state == StateShuffling }

func (d *Deck) ActiveIndex() int { return d.activeIndex }

func (d *Deck) Original() []models.Card { return d.original }

func (d *Deck) Displayed() []models.Card { return d.displayed }

func (d *Deck) Filter() models.FilterState { return d.filter }

// IsEmptyResult reports the "no results" view state: a filter is active and
// nothing passed it.
func (d *Deck) IsEmptyResult() bool {
	return !d.filter.IsDefault() && len(d.displayed) == 0
}

// ActiveCard returns the centered card, if any.
func (d *Deck) ActiveCard() (models.Card, bool) {
	if d.activeIndex < 0 || d.activeIndex >= len(d.displayed) {
		return models.Card{}, false
	}
	return d.displayed[d.activeIndex], true
}

// firstOutfitIndex is 1 when a card follows the create card, else 0.
func firstOutfitIndex(cards []models.Card) int {
	if len(cards) > 1 {
		return 1
	}
	return 0
}
