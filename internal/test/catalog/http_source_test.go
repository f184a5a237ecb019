package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"outfit-studio/internal/catalog"
)

func TestHTTPSource_FetchOutfits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/getAllOutfits", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"_id": "abc", "name": "Linen Days", "file": "outfits/linen.png", "keywords": ["linen"], "items": ["items/shirt.png"]},
			{"name": "No Id", "file": "outfits/x.png", "keywords": [], "items": []}
		]`))
	}))
	defer server.Close()

	source := catalog.NewHTTPSource(server.URL+"/", time.Second)
	outfits, err := source.FetchOutfits(context.Background())

	require.NoError(t, err)
	require.Len(t, outfits, 2)
	assert.Equal(t, "abc", outfits[0].Key())
	assert.Equal(t, []string{"items/shirt.png"}, outfits[0].Items)
	assert.Equal(t, "No Id", outfits[1].Key())
}

func TestHTTPSource_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := catalog.NewHTTPSource(server.URL, time.Second).FetchOutfits(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestHTTPSource_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "a list"}`))
	}))
	defer server.Close()

	_, err := catalog.NewHTTPSource(server.URL, time.Second).FetchOutfits(context.Background())

	assert.Error(t, err)
}

func TestHTTPSource_FailureFallsBackInLoader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	loader := catalog.NewLoader(catalog.NewHTTPSource(server.URL, time.Second), nil, nil)
	result := loader.Load(context.Background())

	assert.Equal(t, catalog.ProvenanceStatic, result.Source.Provenance)
	assert.Error(t, result.FallbackReason)
}
