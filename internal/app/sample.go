package app

import (
	"gomedic/internal/domain"
)

// SampleData is the record a new workspace starts with.
func SampleData() ([]domain.Person, []domain.Activity) {
	persons := []domain.Person{
		must(domain.NewDoctor(domain.MustParseID("D001"), "Alex Yeoh", "87438807", "Cardiology")),
		must(domain.NewDoctor(domain.MustParseID("D002"), "Bernice Yu", "99272758", "Neurology")),
		must(domain.NewDoctor(domain.MustParseID("D003"), "Charlotte Oliveiro", "93210283", "Pediatrics")),
		must(domain.NewPatient(domain.MustParseID("P001"), "David Li", "91031282", 54, domain.GenderMale, "O+",
			[]domain.Condition{"hypertension"})),
		must(domain.NewPatient(domain.MustParseID("P002"), "Irfan Ibrahim", "92492021", 31, domain.GenderMale, "A-", nil)),
		must(domain.NewPatient(domain.MustParseID("P003"), "Roy Balakrishnan", "92624417", 67, domain.GenderOther, "B+",
			[]domain.Condition{"diabetes", "asthma"})),
	}
	activities := []domain.Activity{
		must(domain.NewActivity(domain.MustParseID("A001"),
			domain.MustParseTime("15/09/2022 13:00"), domain.MustParseTime("15/09/2022 14:00"),
			"Meeting with Mr. Jack", "Discuss the next treatment plan")),
		must(domain.NewActivity(domain.MustParseID("A002"),
			domain.MustParseTime("16/09/2022 09:00"), domain.MustParseTime("16/09/2022 11:30"),
			"Ward round", "Level 3, ward 12")),
		must(domain.NewActivity(domain.MustParseID("A003"),
			domain.MustParseTime("16/09/2022 14:00"), domain.MustParseTime("16/09/2022 15:00"),
			"Department meeting", "")),
	}
	return persons, activities
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
