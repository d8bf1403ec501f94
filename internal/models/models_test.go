package models

import (
	"database/sql/driver"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLocationStatusImplementsInterfaces verifies LocationStatus can be bound and scanned.
func TestLocationStatusImplementsInterfaces(t *testing.T) {
	var _ driver.Valuer = LocationResolved

	var s LocationStatus
	var scanner interface{} = &s
	_, ok := scanner.(interface{ Scan(interface{}) error })
	assert.True(t, ok, "LocationStatus does not implement sql.Scanner")
}

func TestLocationStatusScan(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		want      LocationStatus
		wantError bool
	}{
		{name: "nil value", input: nil, want: ""},
		{name: "string", input: "manual", want: LocationManual},
		{name: "bytes", input: []byte("pending_review"), want: LocationPendingReview},
		{name: "unknown status", input: "bogus", wantError: true},
		{name: "unsupported type", input: 42, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s LocationStatus
			err := s.Scan(tt.input)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestLocationStatusValue(t *testing.T) {
	v, err := LocationResolved.Value()
	require.NoError(t, err)
	assert.Equal(t, "resolved", v)

	_, err = LocationStatus("unknown").Value()
	assert.Error(t, err)
}

func TestPointJSON(t *testing.T) {
	original := Point{Latitude: 43.778422777778, Longitude: 142.365976388889}

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Point","coordinates":[142.365976388889,43.778422777778]}`, string(data))

	var decoded Point
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)

	assert.Error(t, json.Unmarshal([]byte(`{"type":"Polygon","coordinates":[0,0]}`), &decoded))
}

func TestLocationPoint(t *testing.T) {
	loc := NewLocation("旭川医療センター", 43.7988, 142.3815, LocationManual)
	p, ok := loc.Point()
	assert.True(t, ok)
	assert.Equal(t, 43.7988, p.Latitude)

	_, ok = PendingLocation("未登録医院").Point()
	assert.False(t, ok)
}

func TestDailyAgeBucketCountTotal(t *testing.T) {
	d := DailyAgeBucketCount{Under10: 24, Age10s: 13, Age20s: 12, Age30s: 10, Age40s: 8,
		Age50s: 7, Age60s: 7, Age70s: 8, Age80s: 3, Over90: 5, Investigating: 2}

	assert.Len(t, d.Buckets(), len(AgeBrackets))
	assert.Equal(t, 99, d.Total())
}

func TestOutpatientOpeningHours(t *testing.T) {
	o := Outpatient{Mon: "09:00～17:00", Sun: ""}
	hours := o.OpeningHours()
	assert.Len(t, hours, 7)
	assert.Equal(t, "09:00～17:00", hours[0])
}
