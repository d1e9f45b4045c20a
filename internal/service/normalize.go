package service

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	asciiLetters = regexp.MustCompile(`[A-Za-z]`)
	numberToken  = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

// NormalizeTrackingID canonicalizes a tracking number for identity
// comparisons. Interior characters are preserved as printed on the sheet.
func NormalizeTrackingID(id string) string {
	return strings.TrimSpace(id)
}

// ParsePrice turns free-form price text from a scanned sheet into a decimal
// amount. Whitespace and currency letters are stripped, commas are treated as
// decimal points, and the first numeric token wins. Unparseable input yields
// zero, never an error; a zero price is reviewable in staging while a failed
// batch is not.
func ParsePrice(raw string) decimal.Decimal {
	cleaned := strings.Join(strings.Fields(raw), "")
	cleaned = asciiLetters.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	token := numberToken.FindString(cleaned)
	if token == "" {
		return decimal.Zero
	}
	price, err := decimal.NewFromString(token)
	if err != nil {
		return decimal.Zero
	}
	return price
}
