package directory

import "strings"

const MaxSuggestions = 3

type Suggestion struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	NameInitials string   `json:"name_initials"`
	Photo        string   `json:"photo"`
	Specialities []string `json:"specialities"`
}

// SearchByName returns up to MaxSuggestions doctors, in list order, whose
// name contains query case-insensitively. An empty query matches nothing.
func SearchByName(doctors []Doctor, query string) []Doctor {
	return matchNames(doctors, query, MaxSuggestions)
}

// Suggest is what the search box shows while typing: blank input yields no
// suggestions, anything else is matched as typed (not trimmed).
func Suggest(doctors []Doctor, query string) []Suggestion {
	suggestions := make([]Suggestion, 0, MaxSuggestions)
	if strings.TrimSpace(query) == "" {
		return suggestions
	}

	for _, doctor := range SearchByName(doctors, query) {
		suggestions = append(suggestions, Suggestion{
			ID:           doctor.ID,
			Name:         doctor.Name,
			NameInitials: doctor.NameInitials,
			Photo:        doctor.Photo,
			Specialities: doctor.SpecialityNames(),
		})
	}

	return suggestions
}

func matchNames(doctors []Doctor, query string, limit int) []Doctor {
	matches := make([]Doctor, 0, limit)
	if query == "" {
		return matches
	}

	lowerCaseQuery := strings.ToLower(query)
	for _, doctor := range doctors {
		if len(matches) == limit {
			break
		}
		if strings.Contains(strings.ToLower(doctor.Name), lowerCaseQuery) {
			matches = append(matches, doctor)
		}
	}

	return matches
}
