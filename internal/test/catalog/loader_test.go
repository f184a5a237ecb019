package catalog_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"outfit-studio/internal/catalog"
	"outfit-studio/internal/models"
)

type sourceFunc func(ctx context.Context) ([]models.RemoteOutfit, error)

func (f sourceFunc) FetchOutfits(ctx context.Context) ([]models.RemoteOutfit, error) {
	return f(ctx)
}

func staticSource(outfits ...models.RemoteOutfit) catalog.OutfitSource {
	return sourceFunc(func(ctx context.Context) ([]models.RemoteOutfit, error) {
		return outfits, nil
	})
}

func seeded(seed uint64) catalog.Option {
	return catalog.WithRand(rand.New(rand.NewPCG(seed, seed)))
}

func remoteOutfits() []models.RemoteOutfit {
	return []models.RemoteOutfit{
		{ID: "1", Name: "Linen Days", File: "outfits/linen.png", Keywords: []string{"linen", "male"}},
		{ID: "2", Name: "City Nights", File: "outfits/city.png", Keywords: []string{"party", "female"}},
		{Name: "Gym Ready", File: "https://cdn.example.com/gym.png", Keywords: []string{"sport"}},
		{ID: "4", Name: "Rainy Day", File: "outfits/rain.png", Keywords: []string{"coat"}},
		{ID: "5", Name: "Picnic", File: "outfits/picnic.png", Keywords: []string{"casual"}},
	}
}

func cardIDs(cards []models.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestLoader_RemoteSource(t *testing.T) {
	loader := catalog.NewLoader(staticSource(remoteOutfits()...), nil, zap.NewNop(), seeded(1))

	result := loader.Load(context.Background())

	assert.Equal(t, catalog.ProvenanceRemote, result.Source.Provenance)
	assert.NoError(t, result.FallbackReason)
	assert.Zero(t, result.Dropped)
	require.Len(t, result.Cards, 6)
	assert.True(t, result.Cards[0].IsCreate())
	assert.ElementsMatch(t, []string{"create", "1", "2", "Gym Ready", "4", "5"}, cardIDs(result.Cards))

	for _, card := range result.Cards[1:] {
		assert.Equal(t, models.CardKindOutfit, card.Kind)
		assert.Equal(t, models.CardSourceRemote, card.Source)
		require.NotNil(t, card.Remote)
		assert.Equal(t, card.Remote.Key(), card.ID)
		assert.Equal(t, card.Remote.File, card.PreviewSource)
	}
}

func TestLoader_ResolverDropsUnresolvable(t *testing.T) {
	outfits := append(remoteOutfits(), models.RemoteOutfit{ID: "6", Name: "Broken", File: ""})
	resolver := catalog.ResolverFunc(func(fileID string) (string, error) {
		if strings.HasPrefix(fileID, "https://") {
			return "", catalog.ErrUnresolvable
		}
		if fileID == "" {
			return "", catalog.ErrUnresolvable
		}
		return "https://storage.test/" + fileID, nil
	})
	loader := catalog.NewLoader(staticSource(outfits...), resolver, zap.NewNop(), seeded(2))

	result := loader.Load(context.Background())

	assert.Equal(t, 2, result.Dropped)
	assert.ElementsMatch(t, []string{"create", "1", "2", "4", "5"}, cardIDs(result.Cards))
	for _, card := range result.Cards[1:] {
		assert.True(t, strings.HasPrefix(card.PreviewSource, "https://storage.test/"))
	}
}

func TestLoader_FallsBackOnError(t *testing.T) {
	fetchErr := errors.New("connection refused")
	source := sourceFunc(func(ctx context.Context) ([]models.RemoteOutfit, error) {
		return nil, fetchErr
	})
	loader := catalog.NewLoader(source, nil, zap.NewNop(), seeded(3))

	result := loader.Load(context.Background())

	assert.Equal(t, catalog.ProvenanceStatic, result.Source.Provenance)
	assert.ErrorIs(t, result.FallbackReason, fetchErr)
	bundled, err := catalog.Bundled()
	require.NoError(t, err)
	assert.Len(t, result.Cards, len(bundled.Outfits)+1)
	assert.True(t, result.Cards[0].IsCreate())
}

func TestLoader_FallsBackOnEmptyCollection(t *testing.T) {
	loader := catalog.NewLoader(staticSource(), nil, zap.NewNop())

	result := loader.Load(context.Background())

	assert.Equal(t, catalog.ProvenanceStatic, result.Source.Provenance)
	assert.ErrorIs(t, result.FallbackReason, catalog.ErrEmptyCollection)
}

func TestLoader_NilSourceUsesStatic(t *testing.T) {
	loader := catalog.NewLoader(nil, nil, nil)

	result := loader.Load(context.Background())

	assert.Equal(t, catalog.ProvenanceStatic, result.Source.Provenance)
	assert.NoError(t, result.FallbackReason)
}

func TestLoader_StaticCards(t *testing.T) {
	loader := catalog.NewLoader(nil, nil, zap.NewNop(), catalog.WithAssetBase("bundle://"))

	result := loader.Load(context.Background())

	var summer *models.Card
	for i := range result.Cards {
		if result.Cards[i].ID == "outfit-summer-escape" {
			summer = &result.Cards[i]
		}
	}
	require.NotNil(t, summer)
	assert.Equal(t, models.CardSourceStatic, summer.Source)
	assert.Equal(t, "Summer Escape", summer.Title)
	assert.True(t, strings.HasPrefix(summer.PreviewSource, "bundle://"))
	assert.Contains(t, summer.ItemKeywords, "sundress")
	assert.Contains(t, summer.ItemKeywords, "sandals")
	assert.Nil(t, summer.Remote)
}

func TestLoader_ReshufflePreservesMultiset(t *testing.T) {
	loader := catalog.NewLoader(staticSource(remoteOutfits()...), nil, zap.NewNop(), seeded(4))

	loaded := loader.Load(context.Background())
	for i := 0; i < 20; i++ {
		reshuffled := loader.Reshuffle(loaded.Source)

		require.Len(t, reshuffled.Cards, len(loaded.Cards))
		assert.True(t, reshuffled.Cards[0].IsCreate())
		assert.ElementsMatch(t, cardIDs(loaded.Cards), cardIDs(reshuffled.Cards))
	}
}

func TestLoader_ReshuffleDoesNotTouchSource(t *testing.T) {
	outfits := remoteOutfits()
	loader := catalog.NewLoader(staticSource(outfits...), nil, zap.NewNop(), seeded(5))

	loaded := loader.Load(context.Background())
	before := append([]models.RemoteOutfit(nil), loaded.Source.Remote...)
	loader.Reshuffle(loaded.Source)

	assert.Equal(t, before, loaded.Source.Remote)
}

func TestLoader_SeededShuffleIsDeterministic(t *testing.T) {
	a := catalog.NewLoader(staticSource(remoteOutfits()...), nil, zap.NewNop(), seeded(42))
	b := catalog.NewLoader(staticSource(remoteOutfits()...), nil, zap.NewNop(), seeded(42))

	assert.Equal(t,
		cardIDs(a.Load(context.Background()).Cards),
		cardIDs(b.Load(context.Background()).Cards))
}

func TestLoader_ShuffleVariesOrder(t *testing.T) {
	loader := catalog.NewLoader(nil, nil, zap.NewNop(), seeded(7))
	src, err := loader.Fetch(context.Background())
	require.NoError(t, err)

	first := cardIDs(loader.Reshuffle(src).Cards)
	varied := false
	for i := 0; i < 20 && !varied; i++ {
		varied = strings.Join(cardIDs(loader.Reshuffle(src).Cards), ",") != strings.Join(first, ",")
	}
	assert.True(t, varied)
}
