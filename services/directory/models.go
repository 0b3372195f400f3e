package directory

import "strings"

type Doctor struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	NameInitials       string       `json:"name_initials"`
	Photo              string       `json:"photo"`
	DoctorIntroduction string       `json:"doctor_introduction"`
	Specialities       []Speciality `json:"specialities"`
	Fees               string       `json:"fees"`
	Experience         string       `json:"experience"`
	Languages          []string     `json:"languages"`
	Clinic             Clinic       `json:"clinic"`
	VideoConsult       bool         `json:"video_consult"`
	InClinic           bool         `json:"in_clinic"`
}

type Speciality struct {
	Name string `json:"name"`
}

type Clinic struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

type Address struct {
	Locality     string `json:"locality"`
	City         string `json:"city"`
	AddressLine1 string `json:"address_line1"`
	Location     string `json:"location"`
	LogoURL      string `json:"logo_url"`
}

func (d Doctor) SpecialityNames() []string {
	names := make([]string, 0, len(d.Specialities))
	for _, speciality := range d.Specialities {
		names = append(names, speciality.Name)
	}
	return names
}

func (d Doctor) HasSpeciality(name string) bool {
	for _, speciality := range d.Specialities {
		if speciality.Name == name {
			return true
		}
	}
	return false
}

// FullAddress joins the street, locality and city the way listings display them.
func (a Address) FullAddress() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{a.AddressLine1, a.Locality, a.City} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}
