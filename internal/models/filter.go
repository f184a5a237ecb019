package models

import (
	"strings"
	"time"
)

type GeneratedStatus string

const (
	GeneratedAll  GeneratedStatus = "all"
	GeneratedOnly GeneratedStatus = "generated"
	NotGenerated  GeneratedStatus = "not_generated"
)

// ParseGeneratedStatus maps a transport value to a status. Unknown values
// mean "all".
func ParseGeneratedStatus(s string) GeneratedStatus {
	switch GeneratedStatus(strings.ToLower(strings.TrimSpace(s))) {
	case GeneratedOnly:
		return GeneratedOnly
	case NotGenerated:
		return NotGenerated
	default:
		return GeneratedAll
	}
}

type Gender string

const (
	GenderNone   Gender = ""
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender maps a transport value to a gender tag. Unknown values mean none.
func ParseGender(s string) Gender {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale
	case GenderFemale:
		return GenderFemale
	default:
		return GenderNone
	}
}

// FilterState is the transient filter of the home screen.
type FilterState struct {
	Query           string          `json:"query"`
	Occasions       []string        `json:"occasions"`
	Gender          Gender          `json:"gender"`
	GeneratedStatus GeneratedStatus `json:"generated_status"`
}

// DefaultFilterState returns the empty filter.
func DefaultFilterState() FilterState {
	return FilterState{GeneratedStatus: GeneratedAll}
}

// NormalizedQuery returns the trimmed, lowercased query.
func (s FilterState) NormalizedQuery() string {
	return strings.ToLower(strings.TrimSpace(s.Query))
}

// Status treats the zero value as GeneratedAll.
func (s FilterState) Status() GeneratedStatus {
	if s.GeneratedStatus == "" {
		return GeneratedAll
	}
	return s.GeneratedStatus
}

// ActiveOccasions returns the trimmed, non-blank occasion ids.
func (s FilterState) ActiveOccasions() []string {
	var occasions []string
	for _, occasion := range s.Occasions {
		if occasion = strings.TrimSpace(occasion); occasion != "" {
			occasions = append(occasions, occasion)
		}
	}
	return occasions
}

// HasNonTextFilter reports whether an occasion, gender or generated-status
// filter is engaged.
func (s FilterState) HasNonTextFilter() bool {
	return len(s.ActiveOccasions()) > 0 || s.Gender != GenderNone || s.Status() != GeneratedAll
}

func (s FilterState) IsDefault() bool {
	return s.NormalizedQuery() == "" && !s.HasNonTextFilter()
}

// GeneratedRecord is evidence that a user rendered a composite image for an
// outfit.
type GeneratedRecord struct {
	ImageID   string    `json:"imageId"`
	OutfitID  string    `json:"outfitId"`
	CreatedAt time.Time `json:"createdAt"`
}
