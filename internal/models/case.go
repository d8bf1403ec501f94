package models

import "time"

// Open-data defaults for records published by the city.
const (
	AsahikawaRegionCode = "012041"
	HokkaidoPrefecture  = "北海道"
	AsahikawaCity       = "旭川市"
)

// CaseRecord is one confirmed case as published in the open-data schema.
// City-published rows carry a CityDetail; prefecture rows do not.
type CaseRecord struct {
	UpdatedAt         time.Time   `json:"updated_at"`
	PublicationDate   *time.Time  `json:"publication_date"`
	OnsetDate         *time.Time  `json:"onset_date"`
	HadOverseasTravel *bool       `json:"had_overseas_travel"`
	WasDischarged     *bool       `json:"was_discharged"`
	CityDetail        *CityDetail `json:"city_detail,omitempty"`
	RegionCode        string      `json:"region_code"`
	Prefecture        string      `json:"prefecture"`
	City              string      `json:"city"`
	Residence         string      `json:"residence"`
	AgeBracket        string      `json:"age_bracket" validate:"omitempty,oneof=10歳未満 10代 20代 30代 40代 50代 60代 70代 80代 90歳以上"`
	Sex               string      `json:"sex" validate:"omitempty,oneof=男性 女性 その他"`
	Occupation        string      `json:"occupation"`
	ClinicalStatus    string      `json:"clinical_status"`
	Symptoms          string      `json:"symptoms"`
	Note              string      `json:"note"`
	CaseNumber        int         `json:"case_number" validate:"gt=0"`
}

// CityDetail holds the fields only the city publishes.
type CityDetail struct {
	SurroundingCases       string `json:"surrounding_cases"`
	CloseContacts          string `json:"close_contacts"`
	SourceRegionCaseNumber int    `json:"source_region_case_number" validate:"gte=0"`
}

// AgeBrackets lists the open-data age vocabulary in reporting order.
var AgeBrackets = []string{
	"10歳未満", "10代", "20代", "30代", "40代", "50代", "60代", "70代", "80代", "90歳以上",
}
