package latex

// Tag enumerates markup element names that have rendering rules. Markup
// vocabulary is open ended, names outside of this list map to TagUnknown and
// are handled by symbol substitution and classification.
type Tag int

const (
	TagUnknown Tag = iota
	TagText
	TagPDFOnly
	TagAbout
	TagReferences
	TagWebPreface
	TagMatter
	TagB
	TagBR
	TagBlockquote
	TagNoIndent
	TagExerciseStartingWithItems
	TagExerciseFollowedByText
	TagCitation
	TagEM
	TagEm
	TagEpigraph
	TagExercise
	TagFigure
	TagFootnote
	TagH2
	TagIndex
	TagImage
	TagLabel
	TagLink
	TagLATEX
	TagLatexInline
	TagLaTeX
	TagTeX
	TagMatterSection
	TagP
	TagTEXT
	TagQuote
	TagRef
	TagReference
	TagSC
	TagChapter
	TagSection
	TagSubsection
	TagSubsubsection
	TagSubheading
	TagSubsubheading
	TagSchemeInline
	TagDeclaration
	TagUse
	TagECMA
	TagJavascriptInline
	TagSnippet
	TagTable
	TagTT
	TagOL
	TagUL

	tagCount
)

var tagNames = [tagCount]string{
	TagUnknown:                   "",
	TagText:                      "#text",
	TagPDFOnly:                   "PDF_ONLY",
	TagAbout:                     "ABOUT",
	TagReferences:                "REFERENCES",
	TagWebPreface:                "WEBPREFACE",
	TagMatter:                    "MATTER",
	TagB:                         "B",
	TagBR:                        "BR",
	TagBlockquote:                "BLOCKQUOTE",
	TagNoIndent:                  "NOINDENT",
	TagExerciseStartingWithItems: "EXERCISE_STARTING_WITH_ITEMS",
	TagExerciseFollowedByText:    "EXERCISE_FOLLOWED_BY_TEXT",
	TagCitation:                  "CITATION",
	TagEM:                        "EM",
	TagEm:                        "em",
	TagEpigraph:                  "EPIGRAPH",
	TagExercise:                  "EXERCISE",
	TagFigure:                    "FIGURE",
	TagFootnote:                  "FOOTNOTE",
	TagH2:                        "H2",
	TagIndex:                     "INDEX",
	TagImage:                     "IMAGE",
	TagLabel:                     "LABEL",
	TagLink:                      "LINK",
	TagLATEX:                     "LATEX",
	TagLatexInline:               "LATEXINLINE",
	TagLaTeX:                     "LaTeX",
	TagTeX:                       "TeX",
	TagMatterSection:             "MATTERSECTION",
	TagP:                         "P",
	TagTEXT:                      "TEXT",
	TagQuote:                     "QUOTE",
	TagRef:                       "REF",
	TagReference:                 "REFERENCE",
	TagSC:                        "SC",
	TagChapter:                   "CHAPTER",
	TagSection:                   "SECTION",
	TagSubsection:                "SUBSECTION",
	TagSubsubsection:             "SUBSUBSECTION",
	TagSubheading:                "SUBHEADING",
	TagSubsubheading:             "SUBSUBHEADING",
	TagSchemeInline:              "SCHEMEINLINE",
	TagDeclaration:               "DECLARATION",
	TagUse:                       "USE",
	TagECMA:                      "ECMA",
	TagJavascriptInline:          "JAVASCRIPTINLINE",
	TagSnippet:                   "SNIPPET",
	TagTable:                     "TABLE",
	TagTT:                        "TT",
	TagOL:                        "OL",
	TagUL:                        "UL",
}

var tagsByName = func() map[string]Tag {
	m := make(map[string]Tag, tagCount)
	for t := TagUnknown + 1; t < tagCount; t++ {
		m[tagNames[t]] = t
	}
	return m
}()

// ParseTag maps element name to Tag. Names are case sensitive ("EM" and "em"
// are different tags). Unknown names give TagUnknown.
func ParseTag(name string) Tag {
	return tagsByName[name]
}

func (t Tag) String() string {
	if t > TagUnknown && t < tagCount {
		return tagNames[t]
	}
	return "unknown"
}
