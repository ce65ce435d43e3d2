// Package phone normalises Kenyan mobile numbers to the +254XXXXXXXXX form
// stored by the portal and renders them for display and click-to-contact links.
package phone

import (
	"net/url"
	"regexp"
	"strings"
)

const countryCode = "+254"

var (
	strip     = regexp.MustCompile(`[^\d+]`)
	canonical = regexp.MustCompile(`^\+254[71]\d{8}$`)
)

// Normalize converts raw input into +254XXXXXXXXX. The second return value is
// false for blank input, unknown formats and numbers that fail the final check.
func Normalize(raw string) (string, bool) {
	cleaned := strip.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return "", false
	}

	var normalized string
	switch {
	case strings.HasPrefix(cleaned, countryCode):
		normalized = cleaned
	case strings.HasPrefix(cleaned, "254"):
		normalized = "+" + cleaned
	case strings.HasPrefix(cleaned, "0"):
		normalized = countryCode + cleaned[1:]
	case len(cleaned) == 9 && (cleaned[0] == '7' || cleaned[0] == '1'):
		normalized = countryCode + cleaned
	default:
		return "", false
	}

	if !canonical.MatchString(normalized) {
		return "", false
	}
	return normalized, true
}

// IsValid reports whether raw normalises successfully.
func IsValid(raw string) bool {
	_, ok := Normalize(raw)
	return ok
}

// NormalizeOptional handles optional form fields: blank stays blank, anything
// else must normalise.
func NormalizeOptional(raw *string) (*string, bool) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, true
	}
	normalized, ok := Normalize(*raw)
	if !ok {
		return nil, false
	}
	return &normalized, true
}

// FormatDisplay renders "+254 705 982 249". Invalid input is returned unchanged.
func FormatDisplay(raw string) string {
	n, ok := Normalize(raw)
	if !ok {
		return raw
	}
	return n[:4] + " " + n[4:7] + " " + n[7:10] + " " + n[10:]
}

// WhatsAppURL builds a wa.me link. The empty string signals an invalid number.
func WhatsAppURL(raw, message string) string {
	n, ok := Normalize(raw)
	if !ok {
		return ""
	}
	link := "https://wa.me/" + strings.TrimPrefix(n, "+")
	if message != "" {
		link += "?text=" + encode(message)
	}
	return link
}

// SMSURL builds an sms: link. The empty string signals an invalid number.
func SMSURL(raw, message string) string {
	n, ok := Normalize(raw)
	if !ok {
		return ""
	}
	link := "sms:" + n
	if message != "" {
		link += "?body=" + encode(message)
	}
	return link
}

func encode(message string) string {
	return strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}
