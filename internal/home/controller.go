// Package home is the screen-level controller of the outfit deck. It owns
// the catalog, the filter state and the deck, and serializes every mutation
// to them.
package home

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"outfit-studio/internal/catalog"
	"outfit-studio/internal/deck"
	"outfit-studio/internal/models"
	"outfit-studio/internal/session"
)

type LoadState int

const (
	LoadIdle LoadState = iota
	LoadLoading
	LoadReady
)

func (s LoadState) String() string {
	switch s {
	case LoadLoading:
		return "loading"
	case LoadReady:
		return "ready"
	default:
		return "idle"
	}
}

// LoadOutcome reports what a Load call did.
type LoadOutcome struct {
	// Applied is false when a newer load was issued before this one resolved.
	Applied    bool
	Provenance catalog.Provenance
	Cards      int
	Dropped    int
	Fallback   error
}

type Controller struct {
	session *session.Session
	loader  *catalog.Loader
	logger  *zap.Logger

	mu        sync.Mutex
	deck      *deck.Deck
	source    catalog.Source
	hasSource bool
	loadState LoadState
	issued    uint64 // last issued load token
}

func NewController(sess *session.Session, loader *catalog.Loader, haptics deck.Haptics, logger *zap.Logger) *Controller {
	if sess == nil {
		sess = session.Anonymous()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		session: sess,
		loader:  loader,
		logger:  logger,
		deck:    deck.New(haptics),
	}
}

// Load fetches the catalog and seeds the deck. When several loads overlap,
// only the most recently issued one is applied.
func (c *Controller) Load(ctx context.Context) LoadOutcome {
	c.mu.Lock()
	c.issued++
	token := c.issued
	c.loadState = LoadLoading
	c.mu.Unlock()

	result := c.loader.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	outcome := LoadOutcome{
		Provenance: result.Source.Provenance,
		Cards:      len(result.Cards),
		Dropped:    result.Dropped,
		Fallback:   result.FallbackReason,
	}
	if token != c.issued {
		c.logger.Debug("discarding superseded catalog load",
			zap.Uint64("token", token), zap.Uint64("latest", c.issued))
		return outcome
	}

	c.source = result.Source
	c.hasSource = true
	c.deck.Reset(result.Cards)
	c.loadState = LoadReady
	outcome.Applied = true
	return outcome
}

// Shuffle reshuffles the already fetched catalog. It is a no-op before the
// first load and while a load is in flight.
func (c *Controller) Shuffle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasSource || c.loadState == LoadLoading {
		return false
	}
	return c.deck.RequestShuffle(func() []models.Card {
		return c.loader.Reshuffle(c.source).Cards
	})
}

func (c *Controller) ApplyFilter(state models.FilterState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deck.RequestFilterApply(state, c.session.GeneratedRecords())
}

func (c *Controller) ClearFilter() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deck.ClearFilter()
}

func (c *Controller) OnViewable(indices []int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deck.OnViewableCardsChanged(indices)
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadState == LoadLoading
}

func (c *Controller) LoadState() LoadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadState
}

// Snapshot is a consistent copy of the view state.
type Snapshot struct {
	Displayed   []models.Card
	Filter      models.FilterState
	ActiveIndex int
	Shuffling   bool
	Empty       bool
	LoadState   LoadState
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Displayed:   append([]models.Card(nil), c.deck.Displayed()...),
		Filter:      c.deck.Filter(),
		ActiveIndex: c.deck.ActiveIndex(),
		Shuffling:   c.deck.IsShuffling(),
		Empty:       c.deck.IsEmptyResult(),
		LoadState:   c.loadState,
	}
}

func (c *Controller) Session() *session.Session {
	return c.session
}
