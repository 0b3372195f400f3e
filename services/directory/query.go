package directory

import (
	"net/url"
	"slices"
	"strings"
)

// Query string keys shared with bookmarked links.
const (
	ParamSearch           = "search"
	ParamConsultationType = "consultationType"
	ParamSpecialty        = "specialty"
	ParamSortBy           = "sortBy"
)

// ParseFilters reads filter state from a query string. Missing keys take
// their defaults; values are not validated here.
func ParseFilters(values url.Values) FilterState {
	filters := DefaultFilters()

	filters.SearchQuery = values.Get(ParamSearch)
	filters.ConsultationType = values.Get(ParamConsultationType)
	if specialties := values[ParamSpecialty]; len(specialties) > 0 {
		filters.Specialties = slices.Clone(specialties)
	}
	if sortBy := values.Get(ParamSortBy); sortBy != "" {
		filters.SortBy = SortOption(sortBy)
	}

	return filters
}

// Encode writes the canonical query string: search, consultationType, every
// specialty in selection order, then sortBy, which is always present.
func (f FilterState) Encode() string {
	var params []string

	if f.SearchQuery != "" {
		params = append(params, encodeParam(ParamSearch, f.SearchQuery))
	}
	if f.ConsultationType != "" {
		params = append(params, encodeParam(ParamConsultationType, f.ConsultationType))
	}
	for _, specialty := range f.Specialties {
		params = append(params, encodeParam(ParamSpecialty, specialty))
	}

	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = DefaultSort
	}
	params = append(params, encodeParam(ParamSortBy, string(sortBy)))

	return strings.Join(params, "&")
}

func encodeParam(key string, value string) string {
	return url.QueryEscape(key) + "=" + url.QueryEscape(value)
}

// HasActiveFilters is true when clearing the panel would change something.
// The search box is not part of the panel.
func (f FilterState) HasActiveFilters() bool {
	return len(f.Specialties) > 0 || f.ConsultationType != "" || (f.SortBy != "" && f.SortBy != DefaultSort)
}

func (f FilterState) WithSearch(query string) FilterState {
	next := f.clone()
	next.SearchQuery = query
	return next
}

func (f FilterState) WithSort(sortBy SortOption) FilterState {
	next := f.clone()
	next.SortBy = sortBy
	return next
}

// ToggleConsultationType selects a mode, or clears it when it is already selected.
func (f FilterState) ToggleConsultationType(consultationType string) FilterState {
	next := f.clone()
	if next.ConsultationType == consultationType {
		next.ConsultationType = ""
	} else {
		next.ConsultationType = consultationType
	}
	return next
}

// ToggleSpecialty removes a selected specialty or appends an unselected one.
func (f FilterState) ToggleSpecialty(specialty string) FilterState {
	next := f.clone()
	if slices.Contains(next.Specialties, specialty) {
		next.Specialties = slices.DeleteFunc(next.Specialties, func(s string) bool { return s == specialty })
	} else {
		next.Specialties = append(next.Specialties, specialty)
	}
	return next
}

func (f FilterState) clone() FilterState {
	next := f
	next.Specialties = slices.Clone(f.Specialties)
	if next.Specialties == nil {
		next.Specialties = []string{}
	}
	return next
}
