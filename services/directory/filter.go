package directory

import (
	"slices"
	"sort"
	"strconv"
	"strings"
)

type SortOption string

const (
	SortByFees       SortOption = "fees"
	SortByExperience SortOption = "experience"

	DefaultSort = SortByExperience
)

const (
	ConsultationVideo    = "Video Consult"
	ConsultationInClinic = "In Clinic"
)

// SortOptions and ConsultationTypes are listed in the order the filter panel shows them.
var SortOptions = []SortOption{SortByFees, SortByExperience}
var ConsultationTypes = []string{ConsultationVideo, ConsultationInClinic}

type FilterState struct {
	SearchQuery      string     `json:"search"`
	ConsultationType string     `json:"consultationType"`
	Specialties      []string   `json:"specialty"`
	SortBy           SortOption `json:"sortBy"`
}

func DefaultFilters() FilterState {
	return FilterState{
		Specialties: []string{},
		SortBy:      DefaultSort,
	}
}

// FilterDoctors never modifies doctors; the returned slice is always a fresh copy.
func FilterDoctors(doctors []Doctor, filters FilterState) []Doctor {
	filtered := make([]Doctor, 0, len(doctors))

	lowerCaseQuery := strings.ToLower(filters.SearchQuery)
	for _, doctor := range doctors {
		if filters.SearchQuery != "" && !strings.Contains(strings.ToLower(doctor.Name), lowerCaseQuery) {
			continue
		}

		if !matchesConsultationType(doctor, filters.ConsultationType) {
			continue
		}

		if len(filters.Specialties) > 0 && !slices.ContainsFunc(filters.Specialties, doctor.HasSpeciality) {
			continue
		}

		filtered = append(filtered, doctor)
	}

	return SortDoctors(filtered, filters.SortBy)
}

// Unknown consultation types do not narrow the list.
func matchesConsultationType(doctor Doctor, consultationType string) bool {
	switch consultationType {
	case ConsultationVideo:
		return doctor.VideoConsult
	case ConsultationInClinic:
		return doctor.InClinic
	default:
		return true
	}
}

// SortDoctors orders by fee ascending or by experience descending. Ties and
// unknown options keep the input order. Values without any digit go last.
func SortDoctors(doctors []Doctor, sortBy SortOption) []Doctor {
	sorted := slices.Clone(doctors)
	if sorted == nil {
		sorted = []Doctor{}
	}

	switch sortBy {
	case SortByFees:
		sort.SliceStable(sorted, func(i, j int) bool {
			return lessNumeric(sorted[i].Fees, sorted[j].Fees, false)
		})
	case SortByExperience:
		sort.SliceStable(sorted, func(i, j int) bool {
			return lessNumeric(sorted[i].Experience, sorted[j].Experience, true)
		})
	}

	return sorted
}

func lessNumeric(a string, b string, descending bool) bool {
	aValue, aOK := ParseNumber(a)
	bValue, bOK := ParseNumber(b)

	switch {
	case aOK && bOK:
		if descending {
			return aValue > bValue
		}
		return aValue < bValue
	case aOK:
		return true
	default:
		return false
	}
}

// ParseNumber reads the integer formed by every decimal digit in s, so
// "₹ 1,500" is 1500 and "13 Years of experience" is 13.
func ParseNumber(s string) (int64, bool) {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	if digits.Len() == 0 {
		return 0, false
	}

	value, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0, false
	}

	return value, true
}

func UniqueSpecialties(doctors []Doctor) []string {
	seen := make(map[string]struct{})
	specialties := make([]string, 0)

	for _, doctor := range doctors {
		for _, speciality := range doctor.Specialities {
			if _, ok := seen[speciality.Name]; ok {
				continue
			}
			seen[speciality.Name] = struct{}{}
			specialties = append(specialties, speciality.Name)
		}
	}

	sort.Strings(specialties)
	return specialties
}
