package models

import "time"

// Education holds the highest qualification listed on a profile
type Education struct {
	Degree         string `dynamodbav:"degree,omitempty" json:"degree,omitempty"`
	Institution    string `dynamodbav:"institution,omitempty" json:"institution,omitempty"`
	Field          string `dynamodbav:"field,omitempty" json:"field,omitempty"`
	GraduationYear int    `dynamodbav:"graduationYear,omitempty" json:"graduationYear,omitempty"`
}

// Profile defines one user's matrimonial listing
type Profile struct {
	UserID    string `dynamodbav:"userId" json:"userId"`       // ✅ Partition Key (one profile per user)
	ProfileID string `dynamodbav:"profileId" json:"profileId"` // Indexed via GSI

	Name          string `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Location      string `dynamodbav:"location,omitempty" json:"location,omitempty"`
	Age           int    `dynamodbav:"age,omitempty" json:"age,omitempty"`
	Gender        string `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
	DateOfBirth   string `dynamodbav:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"` // YYYY-MM-DD
	MaritalStatus string `dynamodbav:"maritalStatus,omitempty" json:"maritalStatus,omitempty"`
	Phone         string `dynamodbav:"phone,omitempty" json:"phone,omitempty"`
	Height        string `dynamodbav:"height,omitempty" json:"height,omitempty"`
	Weight        string `dynamodbav:"weight,omitempty" json:"weight,omitempty"`
	Complexion    string `dynamodbav:"complexion,omitempty" json:"complexion,omitempty"`
	Religion      string `dynamodbav:"religion,omitempty" json:"religion,omitempty"`
	Caste         string `dynamodbav:"caste,omitempty" json:"caste,omitempty"`
	Diet          string `dynamodbav:"diet,omitempty" json:"diet,omitempty"`
	Smoking       string `dynamodbav:"smoking,omitempty" json:"smoking,omitempty"`
	Drinking      string `dynamodbav:"drinking,omitempty" json:"drinking,omitempty"`

	Education  Education `dynamodbav:"education" json:"education"`
	Occupation string    `dynamodbav:"occupation,omitempty" json:"occupation,omitempty"`
	Income     string    `dynamodbav:"income,omitempty" json:"income,omitempty"`

	FamilyType   string `dynamodbav:"familyType,omitempty" json:"familyType,omitempty"`
	FamilyStatus string `dynamodbav:"familyStatus,omitempty" json:"familyStatus,omitempty"`
	FamilyValues string `dynamodbav:"familyValues,omitempty" json:"familyValues,omitempty"`
	Bio          string `dynamodbav:"bio,omitempty" json:"bio,omitempty"`

	PartnerAgeMin   int    `dynamodbav:"partnerAgeMin,omitempty" json:"partnerAgeMin,omitempty"`
	PartnerAgeMax   int    `dynamodbav:"partnerAgeMax,omitempty" json:"partnerAgeMax,omitempty"`
	PartnerReligion string `dynamodbav:"partnerReligion,omitempty" json:"partnerReligion,omitempty"`
	PartnerCaste    string `dynamodbav:"partnerCaste,omitempty" json:"partnerCaste,omitempty"`

	Photos []string `dynamodbav:"photos" json:"photos"` // 1 to 3 absolute URLs

	Status    ProfileStatus `dynamodbav:"status" json:"status"`
	CreatedAt time.Time     `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `dynamodbav:"updatedAt" json:"updatedAt"`
}

// EducationPatch carries the education fields supplied in a partial update
type EducationPatch struct {
	Degree         *string `json:"degree,omitempty"`
	Institution    *string `json:"institution,omitempty"`
	Field          *string `json:"field,omitempty"`
	GraduationYear *int    `json:"graduationYear,omitempty"`
}

// ProfilePatch carries the content fields supplied in a partial update.
// Nil fields keep their stored values.
type ProfilePatch struct {
	Name          *string `json:"name,omitempty"`
	Location      *string `json:"location,omitempty"`
	Age           *int    `json:"age,omitempty"`
	Gender        *string `json:"gender,omitempty"`
	DateOfBirth   *string `json:"dateOfBirth,omitempty"`
	MaritalStatus *string `json:"maritalStatus,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Height        *string `json:"height,omitempty"`
	Weight        *string `json:"weight,omitempty"`
	Complexion    *string `json:"complexion,omitempty"`
	Religion      *string `json:"religion,omitempty"`
	Caste         *string `json:"caste,omitempty"`
	Diet          *string `json:"diet,omitempty"`
	Smoking       *string `json:"smoking,omitempty"`
	Drinking      *string `json:"drinking,omitempty"`

	Education  *EducationPatch `json:"education,omitempty"`
	Occupation *string         `json:"occupation,omitempty"`
	Income     *string         `json:"income,omitempty"`

	FamilyType   *string `json:"familyType,omitempty"`
	FamilyStatus *string `json:"familyStatus,omitempty"`
	FamilyValues *string `json:"familyValues,omitempty"`
	Bio          *string `json:"bio,omitempty"`

	PartnerAgeMin   *int    `json:"partnerAgeMin,omitempty"`
	PartnerAgeMax   *int    `json:"partnerAgeMax,omitempty"`
	PartnerReligion *string `json:"partnerReligion,omitempty"`
	PartnerCaste    *string `json:"partnerCaste,omitempty"`

	Photos *[]string `json:"photos,omitempty"`
}

// ProfileSummary is the listing projection of a profile
type ProfileSummary struct {
	ProfileID  string        `json:"profileId"`
	UserID     string        `json:"userId"`
	Name       string        `json:"name"`
	Age        int           `json:"age,omitempty"`
	Gender     string        `json:"gender,omitempty"`
	Location   string        `json:"location,omitempty"`
	Religion   string        `json:"religion,omitempty"`
	Occupation string        `json:"occupation,omitempty"`
	Degree     string        `json:"degree,omitempty"`
	Photo      string        `json:"photo,omitempty"`
	Status     ProfileStatus `json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// Summary projects a profile for listings
func (p Profile) Summary() ProfileSummary {
	s := ProfileSummary{
		ProfileID:  p.ProfileID,
		UserID:     p.UserID,
		Name:       p.Name,
		Age:        p.Age,
		Gender:     p.Gender,
		Location:   p.Location,
		Religion:   p.Religion,
		Occupation: p.Occupation,
		Degree:     p.Education.Degree,
		Status:     p.Status,
		CreatedAt:  p.CreatedAt,
	}
	if len(p.Photos) > 0 {
		s.Photo = p.Photos[0]
	}
	return s
}

// ProfileFilter narrows a profile listing. Zero values match everything.
type ProfileFilter struct {
	Gender        string
	Religion      string
	Caste         string
	MaritalStatus string
	Location      string // case-insensitive substring
	Search        string // case-insensitive name substring
	MinAge        int
	MaxAge        int
	Status        ProfileStatus // honoured for admin listings only
	Limit         int
}

// ProfileListing is the result of list_profiles
type ProfileListing struct {
	Profiles []ProfileSummary `json:"profiles"`
	Counts   map[string]int   `json:"counts"`
}

// ProfilesTable is the DynamoDB table name for profiles
const ProfilesTable = "Profiles"

// ProfileIDIndex is the GSI for looking profiles up by profileId
const ProfileIDIndex = "profileId-index"
