package normalize

import (
	"strings"
	"unicode"
)

// PhoneFormat selects the canonical phone representation. The carrier's
// delivery endpoint historically accepted "+"-prefixed international
// numbers while its notification endpoint wanted bare digits, so both
// conventions are supported as deployment configuration.
type PhoneFormat string

const (
	FormatInternational PhoneFormat = "international"
	FormatDigits        PhoneFormat = "digits"
)

const (
	countryCallingCode = "30" // Greece
	mobilePrefix       = "69"
	domesticLength     = 10
)

// Phone normalizes a free-form phone number. Whitespace is stripped; a
// "+"-prefixed value keeps its prefix and loses everything but digits.
// Anything else is reduced to digits and classified: numbers starting
// with the local mobile prefix or exactly ten digits long are assumed
// domestic and gain the country code, numbers already starting with the
// country calling code gain the "+", and whatever remains is returned
// "+"-prefixed as a last resort.
func Phone(v string, format PhoneFormat) string {
	s := stripSpace(v)
	if s == "" {
		return ""
	}

	var out string
	if strings.HasPrefix(s, "+") {
		d := digitsOnly(s[1:])
		if d == "" {
			return ""
		}
		out = "+" + d
	} else {
		d := digitsOnly(s)
		switch {
		case d == "":
			return ""
		case strings.HasPrefix(d, mobilePrefix):
			out = "+" + countryCallingCode + d
		case strings.HasPrefix(d, countryCallingCode):
			out = "+" + d
		case len(d) == domesticLength:
			out = "+" + countryCallingCode + d
		default:
			out = "+" + d
		}
	}

	if format == FormatDigits {
		return strings.TrimPrefix(out, "+")
	}
	return out
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
