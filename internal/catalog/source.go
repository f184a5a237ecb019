// Package catalog loads the outfit catalog and normalizes it into the card
// list shown on the home deck.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"outfit-studio/internal/models"
)

var (
	// ErrEmptyCollection is the fallback reason when the remote collection
	// has no outfits.
	ErrEmptyCollection = errors.New("remote outfit collection is empty")
	// ErrUnresolvable is returned by resolvers for file ids that cannot be
	// turned into a display URL.
	ErrUnresolvable = errors.New("image reference cannot be resolved")
)

// OutfitSource fetches the remote outfit collection.
type OutfitSource interface {
	FetchOutfits(ctx context.Context) ([]models.RemoteOutfit, error)
}

// ImageResolver derives a display URL from a storage file identifier without
// a network round-trip.
type ImageResolver interface {
	ResolveURL(fileID string) (string, error)
}

// ResolverFunc adapts a function to ImageResolver.
type ResolverFunc func(fileID string) (string, error)

func (f ResolverFunc) ResolveURL(fileID string) (string, error) {
	return f(fileID)
}

// passthroughResolver accepts any non-empty reference as its own URL.
var passthroughResolver = ResolverFunc(func(fileID string) (string, error) {
	if strings.TrimSpace(fileID) == "" {
		return "", fmt.Errorf("empty file id: %w", ErrUnresolvable)
	}
	return fileID, nil
})

type Provenance string

const (
	ProvenanceRemote Provenance = "remote"
	ProvenanceStatic Provenance = "static"
)

// Source is an already fetched source collection. Exactly one of Remote and
// Static is populated, according to Provenance.
type Source struct {
	Provenance Provenance
	Remote     []models.RemoteOutfit
	Static     []models.Outfit
}

func (s Source) Len() int {
	if s.Provenance == ProvenanceRemote {
		return len(s.Remote)
	}
	return len(s.Static)
}

// Result is the outcome of a load or reshuffle. Cards always starts with the
// create card.
type Result struct {
	Cards  []models.Card
	Source Source
	// Dropped counts remote outfits whose image reference did not resolve.
	Dropped int
	// FallbackReason is set when the static catalog replaced the remote one.
	FallbackReason error
}
