package catalog

import (
	"context"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"
	"outfit-studio/internal/models"
)

// DefaultAssetBase prefixes bundled image references of static outfits.
const DefaultAssetBase = "asset://"

// Loader produces the card list of the home deck from a remote outfit source,
// falling back to the bundled static catalog.
type Loader struct {
	source    OutfitSource
	resolver  ImageResolver
	static    *StaticCatalog
	assetBase string
	logger    *zap.Logger

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

type Option func(*Loader)

// WithRand makes shuffling deterministic.
func WithRand(r *rand.Rand) Option {
	return func(l *Loader) {
		l.rng = r
	}
}

// WithStatic replaces the bundled static catalog.
func WithStatic(sc *StaticCatalog) Option {
	return func(l *Loader) {
		l.static = sc
	}
}

// WithAssetBase sets the prefix used to resolve bundled preview images.
func WithAssetBase(base string) Option {
	return func(l *Loader) {
		l.assetBase = base
	}
}

// NewLoader creates a loader. A nil source always yields the static catalog;
// a nil resolver accepts any non-empty file id as a URL.
func NewLoader(source OutfitSource, resolver ImageResolver, logger *zap.Logger, opts ...Option) *Loader {
	if resolver == nil {
		resolver = passthroughResolver
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loader{
		source:    source,
		resolver:  resolver,
		assetBase: DefaultAssetBase,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.rng == nil {
		l.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if l.static == nil {
		sc, err := Bundled()
		if err != nil {
			logger.Error("bundled static catalog is invalid", zap.Error(err))
			sc = &StaticCatalog{}
		}
		l.static = sc
	}
	return l
}

// Fetch returns the source collection: the remote one when it is reachable
// and non-empty, the static one otherwise. The second value is the reason for
// falling back, nil for a remote source.
func (l *Loader) Fetch(ctx context.Context) (Source, error) {
	if l.source == nil {
		return l.staticSource(), nil
	}

	outfits, err := l.source.FetchOutfits(ctx)
	if err != nil {
		l.logger.Warn("outfit fetch failed, using static catalog", zap.Error(err))
		return l.staticSource(), err
	}
	if len(outfits) == 0 {
		l.logger.Warn("outfit collection empty, using static catalog")
		return l.staticSource(), ErrEmptyCollection
	}

	return Source{Provenance: ProvenanceRemote, Remote: outfits}, nil
}

// Load fetches the source collection and builds a freshly shuffled card list.
// It never fails; fetch problems are reported through Result.FallbackReason.
func (l *Loader) Load(ctx context.Context) Result {
	src, reason := l.Fetch(ctx)
	result := l.Reshuffle(src)
	result.FallbackReason = reason
	return result
}

// Reshuffle rebuilds the card list from an already fetched source, without
// any network call.
func (l *Loader) Reshuffle(src Source) Result {
	result := Result{Source: src}

	switch src.Provenance {
	case ProvenanceRemote:
		outfits := append([]models.RemoteOutfit(nil), src.Remote...)
		l.shuffle(len(outfits), func(i, j int) { outfits[i], outfits[j] = outfits[j], outfits[i] })
		result.Cards = make([]models.Card, 0, len(outfits)+1)
		result.Cards = append(result.Cards, models.NewCreateCard())
		for _, outfit := range outfits {
			card, ok := l.remoteCard(outfit)
			if !ok {
				result.Dropped++
				continue
			}
			result.Cards = append(result.Cards, card)
		}
	default:
		outfits := append([]models.Outfit(nil), src.Static...)
		l.shuffle(len(outfits), func(i, j int) { outfits[i], outfits[j] = outfits[j], outfits[i] })
		result.Cards = make([]models.Card, 0, len(outfits)+1)
		result.Cards = append(result.Cards, models.NewCreateCard())
		for _, outfit := range outfits {
			result.Cards = append(result.Cards, l.staticCard(outfit))
		}
	}

	if result.Dropped > 0 {
		l.logger.Debug("dropped outfits with unresolvable images", zap.Int("dropped", result.Dropped))
	}
	return result
}

// shuffle is a Fisher-Yates shuffle over n elements.
func (l *Loader) shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := n - 1; i > 0; i-- {
		j := l.rng.IntN(i + 1)
		swap(i, j)
	}
}

func (l *Loader) remoteCard(outfit models.RemoteOutfit) (models.Card, bool) {
	preview, err := l.resolver.ResolveURL(outfit.File)
	if err != nil || preview == "" {
		return models.Card{}, false
	}
	ref := outfit
	ref.Keywords = append([]string(nil), outfit.Keywords...)
	ref.Items = append([]string(nil), outfit.Items...)
	return models.Card{
		Kind:          models.CardKindOutfit,
		Source:        models.CardSourceRemote,
		ID:            outfit.Key(),
		Title:         outfit.Name,
		PreviewSource: preview,
		Keywords:      append([]string(nil), outfit.Keywords...),
		Remote:        &ref,
	}, true
}

func (l *Loader) staticCard(outfit models.Outfit) models.Card {
	return models.Card{
		Kind:          models.CardKindOutfit,
		Source:        models.CardSourceStatic,
		ID:            outfit.ID,
		Title:         outfit.Name,
		PreviewSource: l.assetBase + outfit.PreviewImageRef,
		Keywords:      append([]string(nil), outfit.Keywords...),
		ItemKeywords:  l.static.ItemKeywords(outfit),
	}
}

func (l *Loader) staticSource() Source {
	return Source{
		Provenance: ProvenanceStatic,
		Static:     append([]models.Outfit(nil), l.static.Outfits...),
	}
}
