package home_test

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"outfit-studio/internal/catalog"
	"outfit-studio/internal/deck"
	"outfit-studio/internal/home"
	"outfit-studio/internal/models"
	"outfit-studio/internal/session"
)

type sourceFunc func(ctx context.Context) ([]models.RemoteOutfit, error)

func (f sourceFunc) FetchOutfits(ctx context.Context) ([]models.RemoteOutfit, error) {
	return f(ctx)
}

func outfits(names ...string) []models.RemoteOutfit {
	out := make([]models.RemoteOutfit, len(names))
	for i, name := range names {
		out[i] = models.RemoteOutfit{ID: name, Name: name, File: name + ".png", Keywords: []string{name}}
	}
	return out
}

func newLoader(source catalog.OutfitSource) *catalog.Loader {
	return catalog.NewLoader(source, nil, zap.NewNop(), catalog.WithRand(rand.New(rand.NewPCG(1, 2))))
}

func ids(cards []models.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestController_Load(t *testing.T) {
	source := sourceFunc(func(ctx context.Context) ([]models.RemoteOutfit, error) {
		return outfits("a", "b", "c"), nil
	})
	c := home.NewController(nil, newLoader(source), nil, nil)
	assert.Equal(t, home.LoadIdle, c.LoadState())

	outcome := c.Load(context.Background())

	assert.True(t, outcome.Applied)
	assert.Equal(t, catalog.ProvenanceRemote, outcome.Provenance)
	assert.Equal(t, 4, outcome.Cards)
	assert.Equal(t, home.LoadReady, c.LoadState())
	assert.False(t, c.Loading())

	snapshot := c.Snapshot()
	assert.ElementsMatch(t, []string{"create", "a", "b", "c"}, ids(snapshot.Displayed))
	assert.Equal(t, 1, snapshot.ActiveIndex)
	assert.False(t, snapshot.Empty)
	assert.Equal(t, "ready", snapshot.LoadState.String())
}

func TestController_StaleLoadIsDiscarded(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	source := sourceFunc(func(ctx context.Context) ([]models.RemoteOutfit, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return outfits("stale"), nil
		}
		return outfits("fresh"), nil
	})
	c := home.NewController(nil, newLoader(source), nil, nil)

	var wg sync.WaitGroup
	var first home.LoadOutcome
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = c.Load(context.Background())
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("first load never started")
	}
	assert.True(t, c.Loading())
	assert.False(t, c.Shuffle())

	second := c.Load(context.Background())
	require.True(t, second.Applied)

	close(release)
	wg.Wait()

	assert.False(t, first.Applied)
	assert.Equal(t, []string{"create", "fresh"}, ids(c.Snapshot().Displayed))
	assert.Equal(t, home.LoadReady, c.LoadState())
}

func TestController_ShuffleNeedsALoadedCatalog(t *testing.T) {
	source := sourceFunc(func(ctx context.Context) ([]models.RemoteOutfit, error) {
		return outfits("a", "b", "c", "d"), nil
	})
	c := home.NewController(nil, newLoader(source), nil, nil)

	assert.False(t, c.Shuffle())

	c.Load(context.Background())
	require.True(t, c.ApplyFilter(models.FilterState{Query: "a"}))

	assert.True(t, c.Shuffle())
	snapshot := c.Snapshot()
	assert.True(t, snapshot.Filter.IsDefault())
	assert.Len(t, snapshot.Displayed, 5)
	assert.False(t, snapshot.Shuffling)
}

func TestController_FilterUsesSessionRecords(t *testing.T) {
	source := sourceFunc(func(ctx context.Context) ([]models.RemoteOutfit, error) {
		return outfits("a", "b", "c"), nil
	})
	sess := session.New("u1", "t", session.Profile{
		CreatedImages: []models.GeneratedRecord{{ImageID: "img", OutfitID: "b"}},
	})
	c := home.NewController(sess, newLoader(source), nil, zap.NewNop())
	c.Load(context.Background())

	require.True(t, c.ApplyFilter(models.FilterState{GeneratedStatus: models.GeneratedOnly}))
	assert.Equal(t, []string{"b"}, ids(c.Snapshot().Displayed))

	require.True(t, c.ApplyFilter(models.FilterState{GeneratedStatus: models.NotGenerated}))
	assert.ElementsMatch(t, []string{"a", "c"}, ids(c.Snapshot().Displayed))

	require.True(t, c.ApplyFilter(models.FilterState{Query: "zzz"}))
	assert.True(t, c.Snapshot().Empty)

	require.True(t, c.ClearFilter())
	assert.Len(t, c.Snapshot().Displayed, 4)
	assert.Same(t, sess, c.Session())
}

func TestController_OnViewable(t *testing.T) {
	source := sourceFunc(func(ctx context.Context) ([]models.RemoteOutfit, error) {
		return outfits("a", "b", "c"), nil
	})
	pulses := 0
	c := home.NewController(nil, newLoader(source), deck.HapticsFunc(func() { pulses++ }), nil)
	c.Load(context.Background())

	c.OnViewable([]int{2})
	c.OnViewable([]int{2, 3})
	c.OnViewable([]int{1})

	assert.Equal(t, 2, pulses)
	assert.Equal(t, 1, c.Snapshot().ActiveIndex)
}
