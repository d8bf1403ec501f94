package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
)

const sitesPage = `<html><body>
<table>
<caption>新型コロナワクチン接種医療機関</caption>
<tr><th colspan="5">新富・東・金星町地区</th></tr>
<tr><td>独立行政法人国立病院機構 旭川医療センター</td><td>花咲町7丁目4048</td><td>51-3161</td><td>○※1</td><td></td></tr>
<tr><td>旭川リハビリテーション病院</td><td>緑が丘南1条1丁目1-1</td><td>0166-65-0101</td><td></td><td>○</td></tr>
<tr><th colspan="5">末広・末広東・東鷹栖地区</th></tr>
<tr><td>フクダクリニック</td><td>末広3条2丁目</td><td>59‐6000</td><td>○かかりつけ患者のみ</td><td></td></tr>
<tr><td>短い行</td></tr>
<tr><th colspan="5">※1 当院で受診歴のある方のみ</th></tr>
</table>
<table>
<caption>新型コロナワクチン接種医療機関（12歳から15歳）</caption>
<tr><td><a id="area1"></a>新富・東・金星町地区</td></tr>
<tr><td>医療機関名</td><td>住所</td><td>電話</td><td>医療機関</td><td>コールセンター</td></tr>
<tr><td>小児科くさのこどもクリニック</td><td>末広東1条</td><td>53-0000</td><td>○</td><td>○</td></tr>
</table>
</body></html>`

func TestMedicalInstitutionHTMLAdult(t *testing.T) {
	// Act
	results, err := MedicalInstitutionHTML(strings.NewReader(sitesPage), false)

	// Assert
	require.NoError(t, err)
	rows := results.Rows()
	require.Len(t, rows, 3)

	first := rows[0]
	assert.Equal(t, "独立行政法人国立病院機構旭川医療センター", first[models.FieldName])
	assert.Equal(t, "旭川市花咲町7丁目4048", first[models.FieldAddress])
	assert.Equal(t, "0166-51-3161", first[models.FieldPhone])
	assert.Equal(t, true, first[models.FieldBookableAtSite])
	assert.Equal(t, false, first[models.FieldBookableViaCallCenter])
	assert.Equal(t, "新富・東・金星町地区", first[models.FieldArea])
	assert.Equal(t, "当院で受診歴のある方のみ", first[models.FieldMemo])
	assert.Equal(t, models.TargetAgeAdult, first[models.FieldTargetAgeGroup])

	second := rows[1]
	assert.Equal(t, "0166-65-0101", second[models.FieldPhone])
	assert.Equal(t, true, second[models.FieldBookableViaCallCenter])
	assert.Equal(t, "", second[models.FieldMemo])

	third := rows[2]
	assert.Equal(t, "末広・末広東・東鷹栖地区", third[models.FieldArea])
	assert.Equal(t, "0166-59-6000", third[models.FieldPhone])
	assert.Equal(t, "かかりつけ患者のみ", third[models.FieldMemo])
}

func TestMedicalInstitutionHTMLPediatric(t *testing.T) {
	results, err := MedicalInstitutionHTML(strings.NewReader(sitesPage), true)

	require.NoError(t, err)
	rows := results.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "小児科くさのこどもクリニック", rows[0][models.FieldName])
	assert.Equal(t, "新富・東・金星町地区", rows[0][models.FieldArea])
	assert.Equal(t, models.TargetAgePediatric, rows[0][models.FieldTargetAgeGroup])
}

func TestMedicalInstitutionHTMLMissingTable(t *testing.T) {
	_, err := MedicalInstitutionHTML(strings.NewReader("<table><caption>別の表</caption></table>"), false)

	assert.True(t, apierrors.IsExtraction(err))
}

func TestSiteMemo(t *testing.T) {
	footnotes := map[string]string{"※1": "当院で受診歴のある方のみ"}

	assert.Equal(t, "当院で受診歴のある方のみ", siteMemo("○※1", footnotes))
	assert.Equal(t, "", siteMemo("○※2", footnotes))
	assert.Equal(t, "平日のみ", siteMemo("○ 平日のみ", footnotes))
	assert.Equal(t, "", siteMemo("○", footnotes))
}
