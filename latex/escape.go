package latex

import (
	"regexp"
	"strings"
)

var (
	lineBreaks = regexp.MustCompile(`[\r\n]+`)
	// Unicode spaces are collapsed too, not only ASCII ones.
	whitespace = regexp.MustCompile(`[\t\n\v\f\r \p{Zs}\x{2028}\x{2029}\x{feff}]+`)
	entityRef  = regexp.MustCompile(`&(\w|\.)+;`)
)

// escapeText normalizes character data for typesetting: line breaks and
// whitespace runs become single space, circumflex and percent are escaped.
func escapeText(s string) string {
	s = lineBreaks.ReplaceAllString(s, " ")
	s = whitespace.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "^", "^{}")
	s = strings.ReplaceAll(s, "%", `\%`)
	return s
}

// hasEntityRef reports whether text has named entity reference like
// "&name;" or "&name.sub;".
func hasEntityRef(s string) bool {
	return entityRef.MatchString(s)
}

// entityNames returns names of all entity references in s in order of
// appearance.
func entityNames(s string) []string {
	refs := entityRef.FindAllString(s, -1)
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, strings.TrimSuffix(strings.TrimPrefix(ref, "&"), ";"))
	}
	return names
}
