package docxfill

import (
	"regexp"
	"strings"
)

// Placeholder pattern. Innermost complete bracket span with at least one
// character: `[]` is not a placeholder and `[a[b]]` yields `[b]` only.
var rePlaceholder = regexp.MustCompile(`\[[^\[\]]+\]`)

// Placeholder - literal bracketed token as written in the template
// "[Company Name]"
type Placeholder string

// Name - placeholder without brackets
// "[Company Name]" --> "Company Name"
func (p Placeholder) Name() string {
	s := strings.TrimPrefix(string(p), "[")
	return strings.TrimSuffix(s, "]")
}

// String ..
func (p Placeholder) String() string {
	return string(p)
}

// Bracket - make placeholder key from bare name
// "Company Name" --> "[Company Name]", already bracketed keys are kept
func Bracket(name string) string {
	if rePlaceholder.MatchString(name) && rePlaceholder.FindString(name) == name {
		return name
	}
	return "[" + name + "]"
}

// ExtractFromText - all placeholders found in text, in order, duplicates kept
func ExtractFromText(text string) []Placeholder {
	matches := rePlaceholder.FindAllString(text, -1)
	if matches == nil {
		return nil
	}

	placeholders := make([]Placeholder, len(matches))
	for i, m := range matches {
		placeholders[i] = Placeholder(m)
	}
	return placeholders
}

// Collect distinct placeholders preserving first-seen order
func uniquePlaceholders(texts []string) []Placeholder {
	var placeholders []Placeholder
	seen := map[Placeholder]bool{}

	for _, text := range texts {
		for _, p := range ExtractFromText(text) {
			if seen[p] {
				continue
			}
			seen[p] = true
			placeholders = append(placeholders, p)
		}
	}
	return placeholders
}
