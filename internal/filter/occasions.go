package filter

import "strings"

// occasionSynonyms maps an occasion tag to the keyword substrings that count
// as a match for it.
var occasionSynonyms = map[string][]string{
	"work":     {"work", "office", "business", "professional", "business casual", "formal"},
	"casual":   {"casual", "everyday", "relaxed", "weekend", "streetwear"},
	"party":    {"party", "night out", "club", "cocktail", "glam"},
	"date":     {"date", "date night", "romantic", "dinner"},
	"formal":   {"formal", "black tie", "gala", "evening", "tailored"},
	"wedding":  {"wedding", "guest", "ceremony"},
	"vacation": {"vacation", "travel", "beach", "resort", "summer"},
	"sport":    {"sport", "gym", "athleisure", "active", "running", "workout"},
}

var occasionOrder = []string{"work", "casual", "party", "date", "formal", "wedding", "vacation", "sport"}

// Occasions returns the known occasion tags in display order.
func Occasions() []string {
	return append([]string(nil), occasionOrder...)
}

// Synonyms returns the match keywords of an occasion. Unknown tags match only
// themselves.
func Synonyms(occasion string) []string {
	key := strings.ToLower(strings.TrimSpace(occasion))
	if synonyms, ok := occasionSynonyms[key]; ok {
		return append([]string(nil), synonyms...)
	}
	if key == "" {
		return nil
	}
	return []string{key}
}
