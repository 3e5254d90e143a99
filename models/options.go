package models

// Allowed values for enum-valued profile fields. Matching is exact and
// case sensitive.
var (
	Genders         = []string{"Male", "Female"}
	MaritalStatuses = []string{"Never Married", "Divorced", "Widowed", "Awaiting Divorce", "Annulled"}
	Complexions     = []string{"Very Fair", "Fair", "Wheatish", "Wheatish Brown", "Dark"}
	Religions       = []string{"Hindu", "Muslim", "Christian", "Sikh", "Buddhist", "Jain", "Parsi", "Jewish", "Other"}
	Castes          = []string{"Brahmin", "Kshatriya", "Vaishya", "Shudra", "Other"}
	Diets           = []string{"Vegetarian", "Non-Vegetarian", "Eggetarian", "Vegan", "Jain"}
	Habits          = []string{"No", "Occasionally", "Yes"}
	FamilyTypes     = []string{"Joint", "Nuclear", "Extended"}
	FamilyStatuses  = []string{"Middle Class", "Upper Middle Class", "Rich", "Affluent"}
	FamilyValues    = []string{"Traditional", "Moderate", "Liberal"}

	PartnerReligions = append(append([]string{}, Religions...), "Any")
	PartnerCastes    = append(append([]string{}, Castes...), "Any")
)
