package latex

// Class is classification of tags without rendering rule.
type Class int

const (
	// Unclassified tag has no rule and triggers diagnostic.
	Unclassified Class = iota
	// Removed tag contributes nothing, its subtree is not visited.
	Removed
	// Unwrapped tag contributes nothing itself, its children are rendered.
	Unwrapped
)

func (c Class) String() string {
	switch c {
	case Removed:
		return "removed"
	case Unwrapped:
		return "unwrapped"
	default:
		return "unclassified"
	}
}

// SOLUTION is consumed by exercise rendering, not by the traversal.
var removedTags = map[string]struct{}{
	"#comment":  {},
	"COMMENT":   {},
	"CHANGE":    {},
	"EDIT":      {},
	"FRAGILE":   {},
	"EXCLUDE":   {},
	"HISTORY":   {},
	"NAME":      {},
	"ORDER":     {},
	"PRIMITIVE": {},
	"SUBINDEX":  {},
	"SEE":       {},
	"SEEALSO":   {},
	"OPEN":      {},
	"CLOSE":     {},
	"SCHEME":    {},
	"SOLUTION":  {},
	"WEB_ONLY":  {},
}

var unwrappedTags = map[string]struct{}{
	"CHAPTERCONTENT": {},
	"JAVASCRIPT":     {},
	"NOBR":           {},
	"SECTIONCONTENT": {},
	"span":           {},
	"SPLIT":          {},
	"SPLITINLINE":    {},
}

// Classify tells what traversal should do with tag which has no rule.
func Classify(tag string) Class {
	if _, ok := removedTags[tag]; ok {
		return Removed
	}
	if _, ok := unwrappedTags[tag]; ok {
		return Unwrapped
	}
	return Unclassified
}
