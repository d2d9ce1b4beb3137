// Package format renders prices, mileages and view counters the way the mobile
// client shows them, and parses them back.
package format

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	CurrencySuffix = " FCFA"
	MileageSuffix  = " km"
)

// ErrNoDigits is returned by ParseGrouped when the input carries no number.
var ErrNoDigits = errors.New("no digits in input")

// Locale is the display locale of the marketplace (French, Gabon).
var Locale = language.MustParse("fr-GA")

var printer = message.NewPrinter(Locale)

// Grouped formats n with the locale's thousands separator.
func Grouped(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatPrice renders a price as "45 000 000 FCFA".
func FormatPrice(price int64) string {
	return Grouped(price) + CurrencySuffix
}

// FormatMileage renders a distance as "28 000 km".
func FormatMileage(km int64) string {
	return Grouped(km) + MileageSuffix
}

// FormatViews abbreviates counters at or above one thousand: 12500 -> "12.5K".
func FormatViews(views int64) string {
	if views >= 1000 {
		return strconv.FormatFloat(float64(views)/1000, 'f', 1, 64) + "K"
	}
	return strconv.FormatInt(views, 10)
}

// ParseGrouped reads back a value produced by Grouped, FormatPrice or
// FormatMileage. Grouping separators and unit suffixes are ignored.
func ParseGrouped(s string) (int64, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" || digits == "-" {
		return 0, ErrNoDigits
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	return n, nil
}
