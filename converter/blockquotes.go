package converter

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// delimiter is a paragraph-level shorthand such as "~?text?~".
type delimiter struct {
	open, close string
	macro       MacroSpec
}

var delimiters = []delimiter{
	{"<p>~?", "?~</p>", infoMacro.paragraph()},
	{"<p>~%", "%~</p>", noteMacro.paragraph()},
	{"<p>~^", "^~</p>", tipMacro.paragraph()},
	{"<p>~$", "$~</p>", warningMacro.paragraph()},
	{"<p>~!", "!~</p>", panelMacro.paragraph()},
}

// ConvertDelimiters rewrites the ~? ?~ family of paragraph shorthands into
// macros.
func ConvertDelimiters(html string) string {
	for _, d := range delimiters {
		html = strings.ReplaceAll(html, d.open, d.macro.Open)
		html = strings.ReplaceAll(html, d.close, d.macro.Close)
	}
	return html
}

// classifier recognises a blockquote by the label its text starts with.
type classifier struct {
	label string
	macro MacroSpec
}

// Checked in order, first match wins.
var blockquoteClassifiers = []classifier{
	{"Note", infoMacro.paragraph()},
	{"Warning", noteMacro.paragraph()},
	{"Success", tipMacro.paragraph()},
	{"Error", warningMacro.paragraph()},
}

var leadingTags = regexp.MustCompile(`^(?:\s*<[^>]*>)*\s*`)

// ClassifyBlockquote picks the macro for a plain blockquote. The returned
// label is empty when no classifier matched and the info macro applies.
func ClassifyBlockquote(quote string) (string, MacroSpec) {
	text := strings.TrimSpace(quote)
	text = text[len(leadingTags.FindString(text)):]
	for _, c := range blockquoteClassifiers {
		if len(text) >= len(c.label) && strings.EqualFold(text[:len(c.label)], c.label) {
			return c.label, c.macro
		}
	}
	return "", infoMacro.paragraph()
}

var labelPatterns = map[string]*regexp.Regexp{}

func init() {
	for _, c := range blockquoteClassifiers {
		labelPatterns[c.label] = regexp.MustCompile(
			`(?i)^(<[^>]*>)\s*(?:<(?:em|strong)>)?` + c.label +
				`\s*(?:</(?:em|strong)>)?\s*:\s*(?:</(?:em|strong)>)?\s*`)
	}
}

// StripLabel removes a leading "Label:" marker from the blockquote content in
// any of its emphasised spellings and upper-cases the first character of the
// text that is left.
func StripLabel(quote, label string) string {
	out := strings.TrimSpace(quote)
	if re, ok := labelPatterns[label]; ok {
		out = re.ReplaceAllString(out, "$1")
	}

	tag := slugTags.FindStringIndex(out)
	if tag == nil || tag[1] >= len(out) {
		return out
	}
	r, size := utf8.DecodeRuneInString(out[tag[1]:])
	return out[:tag[1]] + string(unicode.ToUpper(r)) + out[tag[1]+size:]
}

// ConvertBlockquotes turns every remaining blockquote into an admonition
// macro. Each paragraph of the quote becomes its own macro.
func ConvertBlockquotes(html string) string {
	for _, m := range blockquotePattern.FindAllStringSubmatch(html, -1) {
		quote := m[1]
		label, macro := ClassifyBlockquote(quote)
		if label != "" {
			quote = StripLabel(quote, label)
		}
		quote = strings.ReplaceAll(quote, "<p>", macro.Open)
		quote = strings.ReplaceAll(quote, "</p>", macro.Close)
		html = strings.ReplaceAll(html, m[0], strings.TrimSpace(quote))
	}
	return html
}

var doctocPattern = regexp.MustCompile(`(?s)<!-- START doctoc.*?END doctoc[^>]*-->`)

// ConvertDoctoc swaps a doctoc generated table of contents for the toc macro.
func ConvertDoctoc(html string) string {
	return doctocPattern.ReplaceAllLiteralString(html, doctocMacro)
}

// ConvertInfoMacros runs the admonition conversions. GitHub alerts go first so
// that the heuristic pass only sees the blockquotes left over.
func ConvertInfoMacros(html string) string {
	html = ConvertGitHubAlerts(html)
	html = ConvertDelimiters(html)
	html = ConvertBlockquotes(html)
	return ConvertDoctoc(html)
}
