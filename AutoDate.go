package docxfill

import (
	"time"

	"golang.org/x/text/cases"
)

// DefaultDateToken - placeholder name filled with the current date
const DefaultDateToken = "Date"

// DateLayout - YYYY-MM-DD
const DateLayout = "2006-01-02"

// FillOptions - explicit inputs of a fill besides values
type FillOptions struct {
	// Today is the date placed into the date placeholder
	Today time.Time

	// DateToken is the reserved placeholder name, DefaultDateToken if empty
	DateToken string
}

func (opts FillOptions) dateToken() string {
	if opts.DateToken == "" {
		return DefaultDateToken
	}
	return opts.DateToken
}

// DateValue ..
func DateValue(today time.Time) string {
	return today.Format(DateLayout)
}

// IsDateToken - placeholder name equals token, case folded
// "[date]", "[DATE]" are both date placeholders for token "Date"
func IsDateToken(p Placeholder, token string) bool {
	if token == "" {
		token = DefaultDateToken
	}
	folder := cases.Fold()
	return folder.String(p.Name()) == folder.String(token)
}

// AutoValues - values the engine computes itself instead of asking
func AutoValues(placeholders []Placeholder, token string, today time.Time) Values {
	values := Values{}
	for _, p := range placeholders {
		if IsDateToken(p, token) {
			values[p.String()] = DateValue(today)
		}
	}
	return values
}
