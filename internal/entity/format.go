package entity

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dateLayout = "Jan 2, 2006"

var (
	printer    = message.NewPrinter(language.AmericanEnglish)
	titleCaser = cases.Title(language.English)
)

// FormatPrice renders an amount as US dollars, e.g. "$1,250.00".
func FormatPrice(price float64) string {
	if price < 0 {
		return "-" + printer.Sprintf("$%.2f", -price)
	}
	return printer.Sprintf("$%.2f", price)
}

// FormatDate renders a timestamp as "Jan 2, 2006", or "-" when unset.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

// StatusLabel is the badge text for an active flag.
func StatusLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

// FormatArea renders a floor area, e.g. "1,200 sq ft".
func FormatArea(sqft int) string {
	return printer.Sprintf("%d sq ft", sqft)
}

// Capitalize title-cases a free-form label such as a property type.
func Capitalize(s string) string {
	return titleCaser.String(strings.TrimSpace(s))
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// ParseStatus maps "active"/"inactive" to the flag.
func ParseStatus(s string) (active bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return true, true
	case "inactive":
		return false, true
	}
	return false, false
}
