package directory

func newTestDoctor(id string, name string, fees string, experience string, videoConsult bool, inClinic bool, specialities ...string) Doctor {
	doctor := Doctor{
		ID:           id,
		Name:         name,
		Fees:         fees,
		Experience:   experience,
		VideoConsult: videoConsult,
		InClinic:     inClinic,
		Languages:    []string{"English"},
		Clinic: Clinic{
			Name:    name + " Clinic",
			Address: Address{AddressLine1: "1 Main Road", Locality: "Central", City: "Bangalore"},
		},
	}
	for _, speciality := range specialities {
		doctor.Specialities = append(doctor.Specialities, Speciality{Name: speciality})
	}
	return doctor
}

// testDoctors sorted by fee: 1004, 1001, 1003, 1005, 1002, 1006.
// Sorted by experience: 1003, 1005, 1001, 1006, 1002, 1004.
func testDoctors() []Doctor {
	return []Doctor{
		newTestDoctor("1001", "Dr. Anita Sharma", "₹ 500", "13 Years of experience", true, true, "General Physician"),
		newTestDoctor("1002", "Dr. Rahul Mehta", "₹ 1,200", "8 Years of experience", false, true, "Dentist"),
		newTestDoctor("1003", "Dr. Priya Nair", "₹ 800", "21 Years of experience", true, false, "Dermatologist", "Cosmetologist"),
		newTestDoctor("1004", "Dr. Arjun Rao", "₹ 300", "5 Years of experience", true, true, "General Physician", "Diabetologist"),
		newTestDoctor("1005", "Dr. Sanjana Rao", "₹ 1,000", "16 Years of experience", false, true, "Gynaecologist and Obstetrician"),
		newTestDoctor("1006", "Dr. Vikram Anand", "On request", "10 Years of experience", true, false, "Dentist"),
	}
}

func doctorIDs(doctors []Doctor) []string {
	ids := make([]string, 0, len(doctors))
	for _, doctor := range doctors {
		ids = append(ids, doctor.ID)
	}
	return ids
}
