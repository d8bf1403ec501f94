package models

import "time"

// Reservation campaigns. Each campaign is reconciled as its own snapshot.
const (
	CampaignBooster = "booster"
	CampaignFirst   = "first"
	CampaignBaby    = "baby"
)

// ReservationStatus is the booking availability of one site for one vaccine
// within a campaign. Its natural key is (Campaign, InstitutionName, VaccineType).
type ReservationStatus struct {
	UpdatedAt        time.Time `json:"updated_at"`
	TargetFamilyOnly *bool     `json:"target_family_only"`
	TargetNotFamily  *bool     `json:"target_not_family"`
	TargetSuburbs    *bool     `json:"target_suburbs"`
	Campaign         string    `json:"campaign" validate:"required,oneof=booster first baby"`
	InstitutionName  string    `json:"institution_name" validate:"required"`
	VaccineType      string    `json:"vaccine_type"`
	Area             string    `json:"area"`
	Address          string    `json:"address"`
	Phone            string    `json:"phone"`
	StatusText       string    `json:"status_text"`
	TargetAge        string    `json:"target_age"`
	InoculationTime  string    `json:"inoculation_time"`
	TargetOther      string    `json:"target_other"`
	Memo             string    `json:"memo"`
}
