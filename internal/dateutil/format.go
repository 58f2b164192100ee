package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// Format is a display style for menu dates.
type Format string

// Supported display formats.
const (
	FormatISO          Format = "iso"           // 2025-06-16
	FormatDanish       Format = "danish"        // 16.06.2025
	FormatDanishShort  Format = "danish_short"  // 16.06
	FormatDanishText   Format = "danish_text"   // mandag d. 16. juni 2025
	FormatEnglish      Format = "english"       // Monday, June 16, 2025
	FormatEnglishShort Format = "english_short" // Mon, Jun 16
)

var danishWeekdays = [...]string{"søndag", "mandag", "tirsdag", "onsdag", "torsdag", "fredag", "lørdag"}

var danishMonths = [...]string{
	"januar", "februar", "marts", "april", "maj", "juni",
	"juli", "august", "september", "oktober", "november", "december",
}

// Formats returns all supported formats in display order.
func Formats() []Format {
	return []Format{FormatISO, FormatDanish, FormatDanishShort, FormatDanishText, FormatEnglish, FormatEnglishShort}
}

// ParseFormat returns the Format named s (case-insensitive).
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatISO, nil
	}
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown date format %q", s)
}

// Render formats t in style f. Unknown styles fall back to ISO.
func (f Format) Render(t time.Time) string {
	switch f {
	case FormatDanish:
		return t.Format("02.01.2006")
	case FormatDanishShort:
		return t.Format("02.01")
	case FormatDanishText:
		return fmt.Sprintf("%s d. %d. %s %d",
			danishWeekdays[t.Weekday()], t.Day(), danishMonths[t.Month()-1], t.Year())
	case FormatEnglish:
		return t.Format("Monday, January 2, 2006")
	case FormatEnglishShort:
		return t.Format("Mon, Jan 2")
	default:
		return t.Format(DateLayout)
	}
}
