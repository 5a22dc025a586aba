package converter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrUnknownEditorVersion = errors.New("converter: unknown editor version")
	ErrUnknownSource        = errors.New("converter: unknown markdown source")
)

// EditorVersion selects the Confluence editor the storage format targets. It
// changes how headings are keyed and how local links are written.
type EditorVersion int

const (
	EditorV1 EditorVersion = 1
	EditorV2 EditorVersion = 2
)

func ParseEditorVersion(n int) (EditorVersion, error) {
	switch EditorVersion(n) {
	case EditorV1, EditorV2:
		return EditorVersion(n), nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownEditorVersion, n)
}

// String renders the value stored in the page's "editor" content property.
func (v EditorVersion) String() string {
	return fmt.Sprintf("v%d", int(v))
}

type editorMode interface {
	// displayValue is the anchor text Confluence generates for a heading.
	displayValue(heading string) string
	// link renders a rewritten local link.
	link(baseURL, anchor, alt string) string
}

func (v EditorVersion) mode() editorMode {
	if v == EditorV1 {
		return legacyEditor{}
	}
	return fabricEditor{}
}

var (
	legacyAnchorStrip = regexp.MustCompile(`(<.+>| )`)
	legacyAltStrip    = regexp.MustCompile(`( *<.+> *)`)
)

type legacyEditor struct{}

func (legacyEditor) displayValue(heading string) string {
	return legacyAnchorStrip.ReplaceAllString(heading, "")
}

func (legacyEditor) link(_, anchor, alt string) string {
	alt = legacyAltStrip.ReplaceAllString(alt, " ")
	return fmt.Sprintf(`<ac:link ac:anchor="%s"><ac:plain-text-link-body><![CDATA[%s]]></ac:plain-text-link-body></ac:link>`, anchor, alt)
}

type fabricEditor struct{}

func (fabricEditor) displayValue(heading string) string {
	return Slug(heading, false)
}

func (fabricEditor) link(baseURL, anchor, alt string) string {
	return fmt.Sprintf(`<a href="%s#%s" title="%s">%s</a>`, baseURL, anchor, alt, alt)
}

// MarkdownSource names the Markdown processor a document was written for. It
// decides how that processor spells heading anchors.
type MarkdownSource string

const (
	SourceDefault   MarkdownSource = "default"
	SourceBitbucket MarkdownSource = "bitbucket"
)

// RefConvention describes how anchors are spelled: Prefix goes in front of the
// slug and Postfix is a printf pattern taking the duplicate counter.
type RefConvention struct {
	Prefix  string
	Postfix string
}

var refConventions = map[MarkdownSource]RefConvention{
	SourceDefault:   {Prefix: "#", Postfix: "_%d"},
	SourceBitbucket: {Prefix: "#markdown-header-", Postfix: "_%d"},
}

// Convention reports the anchor convention for s, if s is registered.
func (s MarkdownSource) Convention() (RefConvention, bool) {
	c, ok := refConventions[s]
	return c, ok
}

func ParseMarkdownSource(s string) (MarkdownSource, error) {
	src := MarkdownSource(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := src.Convention(); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
	}
	return src, nil
}
