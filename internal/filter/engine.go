// Package filter implements the search and filter predicates of the home
// deck. Everything here is pure: the same cards, state and records always
// produce the same result.
package filter

import (
	"strings"

	"outfit-studio/internal/models"
)

// Apply returns the cards of original that pass state, in their original
// order. The default state returns original itself.
func Apply(original []models.Card, state models.FilterState, records []models.GeneratedRecord) []models.Card {
	if state.IsDefault() {
		return original
	}

	query := state.NormalizedQuery()
	occasions := state.ActiveOccasions()
	generated := generatedKeys(records)

	result := make([]models.Card, 0, len(original))
	for _, card := range original {
		if card.IsCreate() {
			if createVisible(card, query, state) {
				result = append(result, card)
			}
			continue
		}
		if matchesKeyword(card, query) &&
			matchesOccasions(card, occasions) &&
			matchesGender(card, state.Gender) &&
			matchesGenerated(card, state.Status(), generated) {
			result = append(result, card)
		}
	}
	return result
}

// Clear resets the filter and returns the unfiltered cards.
func Clear(original []models.Card) []models.Card {
	return Apply(original, models.DefaultFilterState(), nil)
}

// createVisible keeps the create card for a matching text search, or when no
// filter at all is engaged.
func createVisible(card models.Card, query string, state models.FilterState) bool {
	if query != "" {
		if strings.Contains(strings.ToLower(card.Title), query) {
			return true
		}
		for _, keyword := range models.CreateCardKeywords {
			if strings.Contains(keyword, query) {
				return true
			}
		}
		return false
	}
	return !state.HasNonTextFilter()
}

func matchesKeyword(card models.Card, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(card.Title), query) {
		return true
	}
	return anyContains(card.Keywords, query) || anyContains(card.ItemKeywords, query)
}

func matchesOccasions(card models.Card, occasions []string) bool {
	if len(occasions) == 0 {
		return true
	}
	for _, occasion := range occasions {
		for _, synonym := range Synonyms(occasion) {
			if anyContains(card.Keywords, synonym) || anyContains(card.ItemKeywords, synonym) {
				return true
			}
		}
	}
	return false
}

func matchesGender(card models.Card, gender models.Gender) bool {
	if gender == models.GenderNone {
		return true
	}
	tag := string(gender)
	return anyEqualFold(card.Keywords, tag) || anyEqualFold(card.ItemKeywords, tag)
}

func matchesGenerated(card models.Card, status models.GeneratedStatus, generated map[string]bool) bool {
	switch status {
	case models.GeneratedOnly:
		return generated[card.MatchKey()]
	case models.NotGenerated:
		return !generated[card.MatchKey()]
	default:
		return true
	}
}

func generatedKeys(records []models.GeneratedRecord) map[string]bool {
	keys := make(map[string]bool, len(records))
	for _, record := range records {
		if record.OutfitID != "" {
			keys[record.OutfitID] = true
		}
	}
	return keys
}

// anyContains reports whether needle (already lowercase) is a substring of
// some entry of haystack.
func anyContains(haystack []string, needle string) bool {
	for _, entry := range haystack {
		if strings.Contains(strings.ToLower(entry), needle) {
			return true
		}
	}
	return false
}

func anyEqualFold(haystack []string, tag string) bool {
	for _, entry := range haystack {
		if strings.EqualFold(strings.TrimSpace(entry), tag) {
			return true
		}
	}
	return false
}
