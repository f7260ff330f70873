// Package card holds the pure helpers used to register and display payment
// cards: number formatting, brand detection, masking and Luhn validation.
package card

import (
	"regexp"
	"strings"
)

// Brand names returned by DetectType.
const (
	Visa             = "Visa"
	Mastercard       = "Mastercard"
	AmericanExpress  = "American Express"
	Discover         = "Discover"
	Unknown          = "Unknown"
	maskPrefix       = "•••• •••• •••• "
	maxFormatDigits  = 16
	minFormatDigits  = 4
	formatGroupWidth = 4
)

var (
	nonDigit = regexp.MustCompile(`\D`)

	// Checked in order; the first match wins.
	brandPatterns = []struct {
		name string
		re   *regexp.Regexp
	}{
		{Visa, regexp.MustCompile(`^4`)},
		{Mastercard, regexp.MustCompile(`^5[1-5]`)},
		{AmericanExpress, regexp.MustCompile(`^3[47]`)},
		// 6011, 622126-622925, 644-649, 65
		{Discover, regexp.MustCompile(`^(6011|622(12[6-9]|1[3-9][0-9]|[2-8][0-9]{2}|9[01][0-9]|92[0-5])|64[4-9]|65)`)},
	}
)

// Digits strips every non-digit character.
func Digits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

// Format groups the first 16 digits of input by four. Inputs with fewer than
// four digits are returned unchanged.
func Format(input string) string {
	digits := Digits(input)
	if len(digits) < minFormatDigits {
		return input
	}
	if len(digits) > maxFormatDigits {
		digits = digits[:maxFormatDigits]
	}

	parts := make([]string, 0, maxFormatDigits/formatGroupWidth)
	for i := 0; i < len(digits); i += formatGroupWidth {
		end := i + formatGroupWidth
		if end > len(digits) {
			end = len(digits)
		}
		parts = append(parts, digits[i:end])
	}
	return strings.Join(parts, " ")
}

// DetectType classifies a card number by its leading digits.
func DetectType(number string) string {
	for _, p := range brandPatterns {
		if p.re.MatchString(number) {
			return p.name
		}
	}
	return Unknown
}

// Mask renders the fixed display form regardless of the real card length.
func Mask(number string) string {
	return maskPrefix + LastFour(number)
}

// LastFour returns the trailing four characters, or the whole string when it
// is shorter.
func LastFour(number string) string {
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}

// Validate runs the Luhn checksum over the digits of number. A number
// without any digits is invalid.
func Validate(number string) bool {
	digits := Digits(number)
	if digits == "" {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
