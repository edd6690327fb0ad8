package phone

import "strings"

// DefaultCountryCode is prefixed to bare 10-digit numbers.
const DefaultCountryCode = "91"

// Clean strips every non-digit character and prefixes the country code when
// exactly 10 digits remain. Other lengths are returned as stripped.
func Clean(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	if len(digits) == 10 {
		return DefaultCountryCode + digits
	}
	return digits
}

func TelLink(raw string) string {
	return "tel:" + Clean(raw)
}

func WhatsAppLink(raw string) string {
	return "https://wa.me/" + Clean(raw)
}
