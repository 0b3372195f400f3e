package directory

import "slices"

type Facets struct {
	Specialties       []SpecialtyFacet    `json:"specialties"`
	ConsultationTypes []ConsultationFacet `json:"consultation_types"`
	SortOptions       []SortFacet         `json:"sort_options"`
	HasActiveFilters  bool                `json:"has_active_filters"`
	ClearQuery        string              `json:"clear_query"`
}

type SpecialtyFacet struct {
	Name        string `json:"name"`
	Selected    bool   `json:"selected"`
	Count       int    `json:"count"`
	ToggleQuery string `json:"toggle_query"`
}

type ConsultationFacet struct {
	Name        string `json:"name"`
	Selected    bool   `json:"selected"`
	Count       int    `json:"count"`
	ToggleQuery string `json:"toggle_query"`
}

type SortFacet struct {
	Name     SortOption `json:"name"`
	Selected bool       `json:"selected"`
	Query    string     `json:"query"`
}

// BuildFacets describes the filter panel for the current state. Counts are
// taken over the whole directory, not the filtered result.
func BuildFacets(doctors []Doctor, filters FilterState) Facets {
	facets := Facets{
		Specialties:       []SpecialtyFacet{},
		ConsultationTypes: make([]ConsultationFacet, 0, len(ConsultationTypes)),
		SortOptions:       make([]SortFacet, 0, len(SortOptions)),
		HasActiveFilters:  filters.HasActiveFilters(),
		ClearQuery:        DefaultFilters().Encode(),
	}

	specialtyCounts := make(map[string]int)
	for _, doctor := range doctors {
		// A doctor counts once per speciality even if the feed repeats it.
		names := doctor.SpecialityNames()
		slices.Sort(names)
		for _, name := range slices.Compact(names) {
			specialtyCounts[name]++
		}
	}

	for _, specialty := range UniqueSpecialties(doctors) {
		facets.Specialties = append(facets.Specialties, SpecialtyFacet{
			Name:        specialty,
			Selected:    slices.Contains(filters.Specialties, specialty),
			Count:       specialtyCounts[specialty],
			ToggleQuery: filters.ToggleSpecialty(specialty).Encode(),
		})
	}

	for _, consultationType := range ConsultationTypes {
		count := 0
		for _, doctor := range doctors {
			if matchesConsultationType(doctor, consultationType) {
				count++
			}
		}
		facets.ConsultationTypes = append(facets.ConsultationTypes, ConsultationFacet{
			Name:        consultationType,
			Selected:    filters.ConsultationType == consultationType,
			Count:       count,
			ToggleQuery: filters.ToggleConsultationType(consultationType).Encode(),
		})
	}

	for _, sortOption := range SortOptions {
		facets.SortOptions = append(facets.SortOptions, SortFacet{
			Name:     sortOption,
			Selected: filters.SortBy == sortOption,
			Query:    filters.WithSort(sortOption).Encode(),
		})
	}

	return facets
}
