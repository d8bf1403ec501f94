package models

import "time"

// Outpatient is a fever outpatient clinic from the prefecture's list.
type Outpatient struct {
	UpdatedAt          time.Time `json:"updated_at"`
	InstitutionName    string    `json:"institution_name" validate:"required"`
	PublicHealthCenter string    `json:"public_health_center"`
	City               string    `json:"city"`
	Address            string    `json:"address"`
	Phone              string    `json:"phone"`
	Mon                string    `json:"mon"`
	Tue                string    `json:"tue"`
	Wed                string    `json:"wed"`
	Thu                string    `json:"thu"`
	Fri                string    `json:"fri"`
	Sat                string    `json:"sat"`
	Sun                string    `json:"sun"`
	Memo               string    `json:"memo"`
	IsOutpatient       bool      `json:"is_outpatient"`
	IsPositivePatients bool      `json:"is_positive_patients"`
	TargetNotFamily    bool      `json:"target_not_family"`
	IsPediatrics       bool      `json:"is_pediatrics"`
	FaceToFace         bool      `json:"face_to_face_for_positive"`
	Online             bool      `json:"online_for_positive"`
	HomeVisit          bool      `json:"home_visit_for_positive"`
}

// OpeningHours returns the weekday hours from Monday to Sunday.
func (o Outpatient) OpeningHours() []string {
	return []string{o.Mon, o.Tue, o.Wed, o.Thu, o.Fri, o.Sat, o.Sun}
}
