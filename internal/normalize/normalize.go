// Package normalize converts source-specific string tokens found in municipal
// publications into the canonical values used by the open-data schema.
//
// Every function here is total: unparseable input yields an empty value rather
// than an error.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Canonical age-bracket labels.
const (
	AgeUnder10 = "10歳未満"
	AgeOver90  = "90歳以上"
)

// Canonical sex labels.
const (
	SexMale   = "男性"
	SexFemale = "女性"
	SexOther  = "その他"
)

// Tokens meaning the value was not published.
const (
	Undisclosed   = "非公表"
	Investigating = "調査中"
)

var (
	monthDayPattern  = regexp.MustCompile(`^([0-9]+)月([0-9]+)日`)
	leadingIntRegexp = regexp.MustCompile(`^([0-9]+)`)
	spaceRunPattern  = regexp.MustCompile(` +`)
	isoDatePattern   = regexp.MustCompile(`^([0-9]{4})[-/]([0-9]{1,2})[-/]([0-9]{1,2})`)

	fullwidthDigits = strings.NewReplacer(
		"０", "0", "１", "1", "２", "2", "３", "3", "４", "4",
		"５", "5", "６", "6", "７", "7", "８", "8", "９", "9",
	)
	whitespaceReplacer = strings.NewReplacer("　", " ", "\r", " ", "\n", " ", "\t", " ")
	spaceStripper      = strings.NewReplacer(" ", "", "　", "", "\u00a0", "")
)

// FullwidthDigitsToHalfwidth translates full-width digits to ASCII digits and
// leaves every other character untouched.
func FullwidthDigitsToHalfwidth(text string) string {
	return fullwidthDigits.Replace(text)
}

// CollapseWhitespace turns newlines, carriage returns, tabs and ideographic
// spaces into single spaces, collapses runs of spaces and trims both ends.
func CollapseWhitespace(text string) string {
	s := whitespaceReplacer.Replace(text)
	s = spaceRunPattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// StripSpaces removes every half-width, full-width and non-breaking space.
func StripSpaces(text string) string {
	return spaceStripper.Replace(text)
}

// NFKC applies Unicode compatibility composition, folding full-width ASCII
// and half-width katakana to their canonical forms.
func NFKC(text string) string {
	return norm.NFKC.String(text)
}

// Date returns midnight UTC on the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDateWithYear parses a "M月D日" token and attaches the given year.
// The token must start the text. Spaces inside it are ignored and full-width
// digits are accepted.
// It returns nil when the token does not match or names a day that does not
// exist in that year.
func ParseDateWithYear(text string, year int) *time.Time {
	s := FullwidthDigitsToHalfwidth(StripSpaces(text))
	m := monthDayPattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	month, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	day, err := strconv.Atoi(m[2])
	if err != nil {
		return nil
	}
	return validDate(year, month, day)
}

// ParseISODate parses "YYYY-MM-DD" (or with slashes), ignoring any time part.
func ParseISODate(text string) *time.Time {
	m := isoDatePattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return nil
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return validDate(year, month, day)
}

func validDate(year, month, day int) *time.Time {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	d := Date(year, time.Month(month), day)
	// time.Date normalizes overflow, e.g. 2月30日 becomes 3月2日.
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return nil
	}
	return &d
}

// AgeBracket maps a published age token to the open-data vocabulary.
func AgeBracket(text string) string {
	s := FullwidthDigitsToHalfwidth(strings.TrimSpace(text))
	switch s {
	case Undisclosed, Investigating:
		return ""
	case "10代未満", AgeUnder10:
		return AgeUnder10
	case "90代", AgeOver90:
		return AgeOver90
	}
	m := leadingIntRegexp.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	age, err := strconv.Atoi(m[1])
	if err != nil {
		return ""
	}
	if age > 90 {
		return AgeOver90
	}
	return strconv.Itoa(age) + "代"
}

// Sex maps a published sex token to the open-data vocabulary.
func Sex(text string) string {
	s := strings.TrimSpace(text)
	switch {
	case s == Undisclosed, s == Investigating:
		return ""
	case s == SexOther:
		return SexOther
	case strings.HasPrefix(s, "男"):
		return SexMale
	case strings.HasPrefix(s, "女"):
		return SexFemale
	default:
		return ""
	}
}

// ParseFlag maps "1" to true, "0" to false and anything else to nil.
func ParseFlag(text string) *bool {
	switch strings.TrimSpace(text) {
	case "1":
		v := true
		return &v
	case "0":
		v := false
		return &v
	default:
		return nil
	}
}

// Availability reads a ○/×-style cell. The returned rest is whatever text
// follows the marker.
func Availability(text string) (*bool, string) {
	s := strings.TrimSpace(text)
	for _, mark := range []string{"○", "〇", "◯"} {
		if strings.HasPrefix(s, mark) {
			v := true
			return &v, strings.TrimSpace(strings.TrimPrefix(s, mark))
		}
	}
	for _, mark := range []string{"×", "✕", "―", "-", "－"} {
		if strings.HasPrefix(s, mark) {
			v := false
			return &v, strings.TrimSpace(strings.TrimPrefix(s, mark))
		}
	}
	return nil, s
}

// Int parses an integer after trimming spaces, commas and full-width digits.
func Int(text string) (int, bool) {
	s := FullwidthDigitsToHalfwidth(StripSpaces(text))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
