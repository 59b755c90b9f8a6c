package form

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"landval/internal/domain"
)

// Suggest returns the offered choice closest to input for a dropdown field
// (city, type or neighborhood). ok is false when nothing is close enough or
// the field has no fixed choices.
func (s *Service) Suggest(field domain.Field, input string) (string, bool) {
	var choices []string
	switch field {
	case domain.FieldCity:
		choices = s.Cities()
	case domain.FieldPropertyType:
		choices = s.Types()
	case domain.FieldNeighborhood:
		choices = s.Neighborhoods()
	default:
		return "", false
	}
	return closest(choices, input)
}

func closest(choices []string, input string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" || len(choices) == 0 {
		return "", false
	}

	best, bestDist := "", -1
	for _, c := range choices {
		hay := strings.ToLower(c)
		if hay == needle {
			return c, true
		}
		d := levenshtein.ComputeDistance(needle, hay)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}

	limit := max(2, len([]rune(needle))/3)
	if bestDist > limit {
		return "", false
	}
	return best, true
}
