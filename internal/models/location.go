package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// LocationStatus records how a location's coordinates were obtained.
type LocationStatus string

const (
	// LocationResolved coordinates came from the geocoder or the open-data list.
	LocationResolved LocationStatus = "resolved"
	// LocationManual coordinates came from the manual override table.
	LocationManual LocationStatus = "manual"
	// LocationPendingReview means the geocoder returned no result and the
	// institution still needs coordinates.
	LocationPendingReview LocationStatus = "pending_review"
)

// Valid reports whether s is one of the known statuses.
func (s LocationStatus) Valid() bool {
	switch s {
	case LocationResolved, LocationManual, LocationPendingReview:
		return true
	}
	return false
}

// Scan implements sql.Scanner.
func (s *LocationStatus) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*s = ""
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("failed to scan LocationStatus: unexpected type %T", value)
	}
	status := LocationStatus(raw)
	if !status.Valid() {
		return fmt.Errorf("failed to scan LocationStatus: unknown status %q", raw)
	}
	*s = status
	return nil
}

// Value implements driver.Valuer.
func (s LocationStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid location status %q", string(s))
	}
	return string(s), nil
}

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// MarshalJSON renders the point as a GeoJSON Point ([lng, lat] order).
func (p Point) MarshalJSON() ([]byte, error) {
	geom := struct {
		Type        string     `json:"type"`
		Coordinates [2]float64 `json:"coordinates"`
	}{
		Type:        "Point",
		Coordinates: [2]float64{p.Longitude, p.Latitude},
	}
	return json.Marshal(geom)
}

// UnmarshalJSON parses a GeoJSON Point.
func (p *Point) UnmarshalJSON(data []byte) error {
	var geom struct {
		Type        string     `json:"type"`
		Coordinates [2]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &geom); err != nil {
		return fmt.Errorf("failed to unmarshal point: %w", err)
	}
	if geom.Type != "" && geom.Type != "Point" {
		return fmt.Errorf("expected Point type, got %s", geom.Type)
	}
	p.Longitude = geom.Coordinates[0]
	p.Latitude = geom.Coordinates[1]
	return nil
}

// Location maps an institution name to its coordinates. Latitude and
// Longitude are nil while the location is pending review.
type Location struct {
	UpdatedAt       time.Time      `json:"updated_at"`
	Latitude        *float64       `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude       *float64       `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	InstitutionName string         `json:"institution_name" validate:"required"`
	Status          LocationStatus `json:"status" validate:"required"`
}

// Point returns the coordinates and whether they are known.
func (l Location) Point() (Point, bool) {
	if l.Latitude == nil || l.Longitude == nil {
		return Point{}, false
	}
	return Point{Latitude: *l.Latitude, Longitude: *l.Longitude}, true
}

// NewLocation builds a location with known coordinates.
func NewLocation(name string, lat, lng float64, status LocationStatus) Location {
	return Location{
		InstitutionName: name,
		Latitude:        &lat,
		Longitude:       &lng,
		Status:          status,
	}
}

// PendingLocation builds a location awaiting coordinates.
func PendingLocation(name string) Location {
	return Location{InstitutionName: name, Status: LocationPendingReview}
}
