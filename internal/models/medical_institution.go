package models

import "time"

// Target age groups used by the vaccination site tables.
const (
	TargetAgeAdult     = "16歳以上"
	TargetAgePediatric = "12歳から15歳まで"
)

// MedicalInstitution is a vaccination site as currently listed by the city.
// Its natural key is (Name, TargetAgeGroup).
type MedicalInstitution struct {
	UpdatedAt             time.Time `json:"updated_at"`
	Name                  string    `json:"name" validate:"required"`
	Address               string    `json:"address"`
	Phone                 string    `json:"phone"`
	Area                  string    `json:"area"`
	Memo                  string    `json:"memo"`
	TargetAgeGroup        string    `json:"target_age_group" validate:"required,oneof=16歳以上 12歳から15歳まで"`
	BookableAtSite        bool      `json:"bookable_at_site"`
	BookableViaCallCenter bool      `json:"bookable_via_call_center"`
}
