package extract

import (
	"time"

	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/normalize"
)

// Source corrections. These are data facts about specific published
// documents, kept apart from the parsing code so they can be audited.

// AreaFixups maps known damaged area names in the reservation tables to the
// area they belong to.
var AreaFixups = map[string]string{
	"各条１７～２７丁目・宮前・南地区": "各条１７～２６丁目・宮前・南地区",
	"各条１７～２８丁目・宮前・南地区": "各条１７～２６丁目・宮前・南地区",
	"各条１７～２９丁目・宮前・南地区": "各条１７～２６丁目・宮前・南地区",
	"各条１７～３０丁目・宮前・南地区": "各条１７～２６丁目・宮前・南地区",
	"各条１７～３１丁目・宮前・南地区": "各条１７～２６丁目・宮前・南地区",
}

// FixArea returns the canonical area name for a reservation table heading.
func FixArea(area string) string {
	if fixed, ok := AreaFixups[area]; ok {
		return fixed
	}
	return area
}

// PressReleaseLinkTextFixups maps anchor texts that carry the wrong date to
// the press date they actually belong to.
var PressReleaseLinkTextFixups = map[string]time.Time{
	"新型コロナウイルス感染症の発生状況（令和4年2月20日発表分）（PDF形式 58キロバイト）": normalize.Date(2022, time.February, 21),
}

// MissingCityCases returns city case rows that were confirmed but never
// listed in the city's table.
func MissingCityCases() []Row {
	published := normalize.Date(2020, time.December, 1)
	return []Row{
		{
			models.FieldCaseNumber:             489,
			models.FieldRegionCode:             models.AsahikawaRegionCode,
			models.FieldPrefecture:             models.HokkaidoPrefecture,
			models.FieldCity:                   models.AsahikawaCity,
			models.FieldPublicationDate:        &published,
			models.FieldOnsetDate:              nil,
			models.FieldResidence:              models.AsahikawaCity,
			models.FieldAgeBracket:             "40代",
			models.FieldSex:                    normalize.SexMale,
			models.FieldOccupation:             "",
			models.FieldClinicalStatus:         "",
			models.FieldSymptoms:               "",
			models.FieldHadOverseasTravel:      nil,
			models.FieldWasDischarged:          nil,
			models.FieldNote:                   cityCaseNote("9049", "No.488", "調査中"),
			models.FieldSourceRegionCaseNumber: 9049,
			models.FieldSurroundingCases:       "No.488",
			models.FieldCloseContacts:          "調査中",
		},
	}
}

// DailyCountCorrections returns age-bucket counts that replace what the
// press release PDF reported for the same day.
func DailyCountCorrections() []Row {
	return []Row{
		dailyCountRow(normalize.Date(2022, time.February, 20),
			[10]int{24, 13, 12, 10, 8, 7, 7, 8, 3, 5}, 0),
	}
}

// ManualLocation is a coordinate entered by hand for an institution the
// geocoder cannot find.
type ManualLocation struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// ManualLocations lists institutions with hand-entered coordinates.
var ManualLocations = []ManualLocation{
	{Name: "唐沢病院", Latitude: 43.76824898808485, Longitude: 142.36361116952028},
	{Name: "旭川キュアメディクス", Latitude: 43.76773531393752, Longitude: 142.37285062533863},
	{Name: "豊岡産科婦人科医院", Latitude: 43.760557864278475, Longitude: 142.3898197271928},
	{Name: "佐藤内科医院", Latitude: 43.76034860571178, Longitude: 142.39588151965012},
	{Name: "東旭川病院", Latitude: 43.777870139580855, Longitude: 142.4377094983569},
	{Name: "旭川医療センター", Latitude: 43.798826491523464, Longitude: 142.3815237271935},
	{Name: "フクダクリニック", Latitude: 43.81521459576975, Longitude: 142.38243298115825},
	{Name: "旭川リハビリテーション病院", Latitude: 43.73051097382853, Longitude: 142.3871075983558},
	{Name: "旭川医科大学病院", Latitude: 43.73007572101459, Longitude: 142.38382199835564},
	{Name: "小児科くさのこどもクリニック", Latitude: 43.80567852167143, Longitude: 142.39032599835747},
	{Name: "独立行政法人国立病院機構旭川医療センター", Latitude: 43.798826491523464, Longitude: 142.3815237271935},
}

// ManualLocationRows returns ManualLocations as location rows.
func ManualLocationRows() []Row {
	rows := make([]Row, 0, len(ManualLocations))
	for _, m := range ManualLocations {
		rows = append(rows, Row{
			models.FieldInstitutionName: m.Name,
			models.FieldLatitude:        m.Latitude,
			models.FieldLongitude:       m.Longitude,
			models.FieldStatus:          string(models.LocationManual),
		})
	}
	return rows
}
