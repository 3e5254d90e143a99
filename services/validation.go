package services

import (
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"vivaah_server/models"
)

const (
	minimumAge         = 18
	maxPhotos          = 3
	minGraduationYear  = 1950
	maxInvitationChars = 500
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// requiredFields are the paths that must be present on profile creation
var requiredFields = []string{
	"name",
	"location",
	"age",
	"gender",
	"dateOfBirth",
	"maritalStatus",
	"phone",
	"religion",
	"education.degree",
	"education.institution",
	"occupation",
	"photos",
}

type enumRule struct {
	field   string
	allowed []string
	value   func(p *models.Profile) string
}

var enumRules = []enumRule{
	{"gender", models.Genders, func(p *models.Profile) string { return p.Gender }},
	{"maritalStatus", models.MaritalStatuses, func(p *models.Profile) string { return p.MaritalStatus }},
	{"complexion", models.Complexions, func(p *models.Profile) string { return p.Complexion }},
	{"religion", models.Religions, func(p *models.Profile) string { return p.Religion }},
	{"caste", models.Castes, func(p *models.Profile) string { return p.Caste }},
	{"diet", models.Diets, func(p *models.Profile) string { return p.Diet }},
	{"smoking", models.Habits, func(p *models.Profile) string { return p.Smoking }},
	{"drinking", models.Habits, func(p *models.Profile) string { return p.Drinking }},
	{"familyType", models.FamilyTypes, func(p *models.Profile) string { return p.FamilyType }},
	{"familyStatus", models.FamilyStatuses, func(p *models.Profile) string { return p.FamilyStatus }},
	{"familyValues", models.FamilyValues, func(p *models.Profile) string { return p.FamilyValues }},
	{"partnerReligion", models.PartnerReligions, func(p *models.Profile) string { return p.PartnerReligion }},
	{"partnerCaste", models.PartnerCastes, func(p *models.Profile) string { return p.PartnerCaste }},
}

// ValidateNewProfile applies the full creation contract to p.
// The first failing rule is returned.
func ValidateNewProfile(p *models.Profile, now time.Time) error {
	for _, field := range requiredFields {
		if isBlank(p, field) {
			return invalid(field, "%s is required", field)
		}
	}
	return validateContent(p, allFields(), now)
}

// ValidateProfilePatch validates the fields supplied in patch, then the
// cross-field rules on merged, which is the stored profile with patch applied.
func ValidateProfilePatch(patch *models.ProfilePatch, merged *models.Profile, now time.Time) error {
	return validateContent(merged, suppliedFields(patch), now)
}

func validateContent(p *models.Profile, supplied map[string]bool, now time.Time) error {
	for _, rule := range enumRules {
		if !supplied[rule.field] {
			continue
		}
		v := rule.value(p)
		if v == "" && !slices.Contains(requiredFields, rule.field) {
			continue
		}
		if !slices.Contains(rule.allowed, v) {
			return invalid(rule.field, "%s must be one of: %s", rule.field, strings.Join(rule.allowed, ", "))
		}
	}

	for _, field := range requiredFields {
		if supplied[field] && isBlank(p, field) {
			return invalid(field, "%s cannot be empty", field)
		}
	}
	if supplied["age"] && p.Age < minimumAge {
		return invalid("age", "age must be at least %d", minimumAge)
	}
	if supplied["dateOfBirth"] && p.DateOfBirth != "" {
		if err := validate.Var(p.DateOfBirth, "datetime=2006-01-02"); err != nil {
			return invalid("dateOfBirth", "dateOfBirth must be a valid date (YYYY-MM-DD)")
		}
	}
	if supplied["photos"] {
		if err := validatePhotos(p.Photos); err != nil {
			return err
		}
	}
	if supplied["education.graduationYear"] && p.Education.GraduationYear != 0 {
		year := p.Education.GraduationYear
		if year < minGraduationYear || year > now.Year() {
			return invalid("education.graduationYear", "education.graduationYear must be between %d and %d", minGraduationYear, now.Year())
		}
	}
	if supplied["partnerAgeMin"] && p.PartnerAgeMin != 0 && p.PartnerAgeMin < minimumAge {
		return invalid("partnerAgeMin", "partnerAgeMin must be at least %d", minimumAge)
	}
	if supplied["partnerAgeMax"] && p.PartnerAgeMax != 0 && p.PartnerAgeMax < minimumAge {
		return invalid("partnerAgeMax", "partnerAgeMax must be at least %d", minimumAge)
	}
	if p.PartnerAgeMin != 0 && p.PartnerAgeMax != 0 && p.PartnerAgeMax < p.PartnerAgeMin {
		return invalid("partnerAgeMax", "partnerAgeMax must be greater than or equal to partnerAgeMin")
	}
	return nil
}

func validatePhotos(photos []string) error {
	if len(photos) == 0 {
		return invalid("photos", "photos must contain at least one photo")
	}
	if len(photos) > maxPhotos {
		return invalid("photos", "photos cannot contain more than %d photos", maxPhotos)
	}
	for i, raw := range photos {
		if !isAbsoluteURL(raw) {
			return invalid("photos", "photos[%d] must be a valid absolute URL", i)
		}
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	if err := validate.Var(raw, "required,url"); err != nil {
		return false
	}
	u, err := url.Parse(raw)
	return err == nil && u.IsAbs() && u.Host != ""
}

func isBlank(p *models.Profile, field string) bool {
	switch field {
	case "name":
		return strings.TrimSpace(p.Name) == ""
	case "location":
		return strings.TrimSpace(p.Location) == ""
	case "age":
		return p.Age == 0
	case "gender":
		return p.Gender == ""
	case "dateOfBirth":
		return p.DateOfBirth == ""
	case "maritalStatus":
		return p.MaritalStatus == ""
	case "phone":
		return strings.TrimSpace(p.Phone) == ""
	case "religion":
		return p.Religion == ""
	case "education.degree":
		return strings.TrimSpace(p.Education.Degree) == ""
	case "education.institution":
		return strings.TrimSpace(p.Education.Institution) == ""
	case "occupation":
		return strings.TrimSpace(p.Occupation) == ""
	case "photos":
		return len(p.Photos) == 0
	}
	return false
}

func allFields() map[string]bool {
	fields := map[string]bool{
		"education.graduationYear": true, "partnerAgeMin": true, "partnerAgeMax": true,
	}
	for _, field := range requiredFields {
		fields[field] = true
	}
	for _, rule := range enumRules {
		fields[rule.field] = true
	}
	return fields
}

func suppliedFields(patch *models.ProfilePatch) map[string]bool {
	fields := map[string]bool{
		"name":            patch.Name != nil,
		"location":        patch.Location != nil,
		"phone":           patch.Phone != nil,
		"occupation":      patch.Occupation != nil,
		"age":             patch.Age != nil,
		"gender":          patch.Gender != nil,
		"dateOfBirth":     patch.DateOfBirth != nil,
		"maritalStatus":   patch.MaritalStatus != nil,
		"complexion":      patch.Complexion != nil,
		"religion":        patch.Religion != nil,
		"caste":           patch.Caste != nil,
		"diet":            patch.Diet != nil,
		"smoking":         patch.Smoking != nil,
		"drinking":        patch.Drinking != nil,
		"familyType":      patch.FamilyType != nil,
		"familyStatus":    patch.FamilyStatus != nil,
		"familyValues":    patch.FamilyValues != nil,
		"partnerReligion": patch.PartnerReligion != nil,
		"partnerCaste":    patch.PartnerCaste != nil,
		"partnerAgeMin":   patch.PartnerAgeMin != nil,
		"partnerAgeMax":   patch.PartnerAgeMax != nil,
		"photos":          patch.Photos != nil,
	}
	if e := patch.Education; e != nil {
		fields["education.degree"] = e.Degree != nil
		fields["education.institution"] = e.Institution != nil
		fields["education.graduationYear"] = e.GraduationYear != nil
	}
	return fields
}

// ApplyProfilePatch merges the supplied fields of patch into a copy of p
func ApplyProfilePatch(p models.Profile, patch *models.ProfilePatch) models.Profile {
	setString(&p.Name, patch.Name)
	setString(&p.Location, patch.Location)
	setInt(&p.Age, patch.Age)
	setString(&p.Gender, patch.Gender)
	setString(&p.DateOfBirth, patch.DateOfBirth)
	setString(&p.MaritalStatus, patch.MaritalStatus)
	setString(&p.Phone, patch.Phone)
	setString(&p.Height, patch.Height)
	setString(&p.Weight, patch.Weight)
	setString(&p.Complexion, patch.Complexion)
	setString(&p.Religion, patch.Religion)
	setString(&p.Caste, patch.Caste)
	setString(&p.Diet, patch.Diet)
	setString(&p.Smoking, patch.Smoking)
	setString(&p.Drinking, patch.Drinking)
	setString(&p.Occupation, patch.Occupation)
	setString(&p.Income, patch.Income)
	setString(&p.FamilyType, patch.FamilyType)
	setString(&p.FamilyStatus, patch.FamilyStatus)
	setString(&p.FamilyValues, patch.FamilyValues)
	setString(&p.Bio, patch.Bio)
	setInt(&p.PartnerAgeMin, patch.PartnerAgeMin)
	setInt(&p.PartnerAgeMax, patch.PartnerAgeMax)
	setString(&p.PartnerReligion, patch.PartnerReligion)
	setString(&p.PartnerCaste, patch.PartnerCaste)

	if e := patch.Education; e != nil {
		setString(&p.Education.Degree, e.Degree)
		setString(&p.Education.Institution, e.Institution)
		setString(&p.Education.Field, e.Field)
		setInt(&p.Education.GraduationYear, e.GraduationYear)
	}
	if patch.Photos != nil {
		p.Photos = append([]string(nil), (*patch.Photos)...)
	} else {
		p.Photos = append([]string(nil), p.Photos...)
	}
	return p
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
