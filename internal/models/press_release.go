package models

import "time"

// PressReleaseLink points at the PDF the city published for one day.
type PressReleaseLink struct {
	PublicationDate time.Time `json:"publication_date"`
	UpdatedAt       time.Time `json:"updated_at"`
	DocumentURL     string    `json:"document_url" validate:"required,url"`
}
