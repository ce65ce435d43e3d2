package services

import (
	"strings"

	"github.com/samber/lo"

	"github.com/jobportal/recruitment/pkg/phone"
)

// DefaultPageLimit applies when a caller passes a non-positive limit. There is
// no upper bound.
const DefaultPageLimit = 100

// Page is an offset window over an ordered result set.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) normalise() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	return p
}

func normaliseIDs(values []string) []string {
	trimmed := lo.Map(values, func(v string, _ int) string { return strings.TrimSpace(v) })
	return lo.Uniq(lo.Compact(trimmed))
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}

// normalisePhone canonicalises an optional phone; blank values become nil.
func normalisePhone(field string, raw *string) (*string, error) {
	normalized, ok := phone.NormalizeOptional(raw)
	if !ok {
		return nil, invalidField(field, "invalid phone number format, use Kenyan format (e.g. 0705982249 or +254705982249)")
	}
	return normalized, nil
}

// likeEscaper escapes with '!'; queries using likePattern must add ESCAPE '!'.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePattern builds a lowercase substring pattern in which the term's own
// wildcard characters match literally.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}
