package lookup

import (
	"regexp"
	"strings"
)

// space is whitespace as product titles use it, Unicode separators such as
// NBSP included.
const space = `[\s\p{Z}\x{FEFF}]`

// The steps of NormalizeName, applied in this order. Later patterns rely on
// the earlier ones having run.
var (
	leadingLabelRE = regexp.MustCompile(`^.*?:` + space + `*`)
	brandWordsRE   = regexp.MustCompile(`(?i)\b(Funko|Vinyl|Figure)\b`)
	popWordRE      = regexp.MustCompile(`(?i)\bPop!?(` + space + `|$)`)
	whitespaceRE   = regexp.MustCompile(space + `+`)
)

// NormalizeName turns a retail product title such as
// "Movies: Funko Pop! Darth Vader" into the figure name "Darth Vader".
func NormalizeName(title string) string {
	name := leadingLabelRE.ReplaceAllString(title, "")
	name = brandWordsRE.ReplaceAllString(name, "")
	name = popWordRE.ReplaceAllString(name, "")
	name = whitespaceRE.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
