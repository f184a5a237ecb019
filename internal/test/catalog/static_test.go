package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"outfit-studio/internal/catalog"
)

func TestBundled(t *testing.T) {
	sc, err := catalog.Bundled()
	require.NoError(t, err)

	assert.NotEmpty(t, sc.Outfits)
	for _, outfit := range sc.Outfits {
		assert.NotEmpty(t, outfit.Keywords, outfit.ID)
		assert.NotEmpty(t, sc.ItemKeywords(outfit), outfit.ID)
	}

	outfit, ok := sc.Outfit("outfit-office-classic")
	require.True(t, ok)
	assert.Contains(t, sc.ItemKeywords(outfit), "business casual")

	item, ok := sc.Item("shoes-heels")
	require.True(t, ok)
	assert.Equal(t, "Shoes", item.Category)

	_, ok = sc.Outfit("missing")
	assert.False(t, ok)
}

func TestParseStatic(t *testing.T) {
	sc, err := catalog.ParseStatic([]byte(`{
		"items": [{"id": "a", "name": "A", "keywords": ["red"]}],
		"outfits": [{"id": "o1", "name": "One", "keywords": ["k"], "items": [{"item_id": "a"}]}]
	}`))

	require.NoError(t, err)
	require.Len(t, sc.Outfits, 1)
	assert.Equal(t, []string{"red"}, sc.ItemKeywords(sc.Outfits[0]))
}

func TestParseStatic_Invalid(t *testing.T) {
	cases := map[string]string{
		"malformed":             `{"items": [`,
		"item without id":       `{"items": [{"name": "A", "keywords": ["x"]}]}`,
		"item without keywords": `{"items": [{"id": "a", "keywords": []}]}`,
		"duplicate outfit": `{"items": [{"id": "a", "keywords": ["x"]}],
			"outfits": [{"id": "o", "items": []}, {"id": "o", "items": []}]}`,
		"unknown item": `{"items": [{"id": "a", "keywords": ["x"]}],
			"outfits": [{"id": "o", "items": [{"item_id": "b"}]}]}`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := catalog.ParseStatic([]byte(doc))
			assert.Error(t, err)
		})
	}
}
