package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
)

type site struct {
	name  string
	point *models.Point
}

func at(lat, lng float64) *models.Point {
	return &models.Point{Latitude: lat, Longitude: lng}
}

func sitePoint(s site) (models.Point, bool) {
	if s.point == nil {
		return models.Point{}, false
	}
	return *s.point, true
}

var sites = []site{
	{name: "旭川リハビリテーション病院", point: at(43.73051097382853, 142.3871075983558)},
	{name: "旭川医科大学病院", point: at(43.73007572101459, 142.38382199835564)},
	{name: "旭川赤十字病院", point: at(43.769628888889, 142.348303888889)},
	{name: "旭川医療センター", point: at(43.798826491523464, 142.3815237271935)},
	{name: "森山病院", point: at(43.781208333333, 142.362565555556)},
	{name: "市立旭川病院", point: at(43.778422777778, 142.365976388889)},
}

func TestGreatCircleDistance(t *testing.T) {
	a := models.Point{Latitude: 43.778422777778, Longitude: 142.365976388889}
	b := models.Point{Latitude: 43.798826491523464, Longitude: 142.3815237271935}

	assert.Equal(t, 2592.288, GreatCircleDistance(a, b))
	assert.Equal(t, GreatCircleDistance(a, b), GreatCircleDistance(b, a))
}

func TestKNearest(t *testing.T) {
	origin := models.Point{Latitude: 43.77082378, Longitude: 142.3650193}

	t.Run("default k ranks the five nearest", func(t *testing.T) {
		ranked := KNearest(origin, sites, 0, sitePoint)

		require.Len(t, ranked, DefaultK)
		assert.Equal(t, "市立旭川病院", ranked[0].Item.name)
		assert.Equal(t, 1, ranked[0].Rank)
		assert.Equal(t, "旭川医科大学病院", ranked[4].Item.name)
		assert.Equal(t, 5, ranked[4].Rank)
		for i := 1; i < len(ranked); i++ {
			assert.LessOrEqual(t, ranked[i-1].DistanceKM, ranked[i].DistanceKM)
		}
	})

	t.Run("pending candidates are skipped", func(t *testing.T) {
		candidates := []site{{name: "座標未登録"}, sites[5]}

		ranked := KNearest(origin, candidates, 3, sitePoint)

		require.Len(t, ranked, 1)
		assert.Equal(t, "市立旭川病院", ranked[0].Item.name)
		assert.Equal(t, 0.85, ranked[0].DistanceKM)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		twin := []site{{name: "first", point: sites[0].point}, {name: "second", point: sites[0].point}}

		ranked := KNearest(origin, twin, 2, sitePoint)

		require.Len(t, ranked, 2)
		assert.Equal(t, "first", ranked[0].Item.name)
		assert.Equal(t, "second", ranked[1].Item.name)
	})

	t.Run("no candidates", func(t *testing.T) {
		assert.Empty(t, KNearest(origin, nil, 5, sitePoint))
	})
}
