package converter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrFootnoteLink is returned when a footnote definition carries no link.
var ErrFootnoteLink = errors.New("converter: footnote definition has no link")

// ConvertTableOfContents replaces a paragraph holding exactly "[TOC]".
func ConvertTableOfContents(html string) string {
	return strings.ReplaceAll(html, "<p>[TOC]</p>", tocZoneMacro)
}

// ConvertComments turns HTML comments into editor placeholders, which are
// visible while editing but not when viewing the page.
func ConvertComments(html string) string {
	html = strings.ReplaceAll(html, "<!--", "<ac:placeholder>")
	return strings.ReplaceAll(html, "-->", "</ac:placeholder>")
}

var (
	codeBlockPattern = regexp.MustCompile(`(?s)<pre><code.*?>(.*?)</code></pre>`)
	codeLangPattern  = regexp.MustCompile(`code class="language-([^"]*)"`)

	codeUnescaper = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&quot;", `"`, "&amp;", "&")
)

// ConvertCodeBlocks rewrites fenced code into the code macro. The language is
// taken from the "language-X" class and defaults to "none".
func ConvertCodeBlocks(html string) string {
	for _, m := range codeBlockPattern.FindAllStringSubmatch(html, -1) {
		block, body := m[0], m[1]
		lang := "none"
		if l := codeLangPattern.FindStringSubmatch(block); l != nil {
			lang = l[1]
		}

		var macro strings.Builder
		macro.WriteString(`<ac:structured-macro ac:name="code">`)
		macro.WriteString(`<ac:parameter ac:name="theme">Midnight</ac:parameter>`)
		macro.WriteString(`<ac:parameter ac:name="linenumbers">true</ac:parameter>`)
		fmt.Fprintf(&macro, `<ac:parameter ac:name="language">%s</ac:parameter>`, lang)
		fmt.Fprintf(&macro, `<ac:plain-text-body><![CDATA[%s]]></ac:plain-text-body>`, body)
		macro.WriteString(`</ac:structured-macro>`)

		html = strings.ReplaceAll(html, block, codeUnescaper.Replace(macro.String()))
	}
	return html
}

var emojiPattern = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}]+`)

// RemoveEmojis strips emoticons, pictographs, transport symbols and flags, for
// Confluence databases that can't store four byte characters.
func RemoveEmojis(html string) string {
	return emojiPattern.ReplaceAllString(html, "")
}

// AddContents prepends a table of contents macro.
func AddContents(html string) string {
	return contentsMacro + "\n" + html
}

var (
	footnotePattern = regexp.MustCompile(`\n(\[\^(\d+)\].*)|<p>(\[\^(\d+)\].*)`)
	hrefPattern     = regexp.MustCompile(`href="(.*?)"`)
)

// ConvertFootnotes removes "[^N]: ..." definitions and links every "[^N]"
// reference to the first URL of its definition. References without a
// definition are kept as text.
func ConvertFootnotes(html string) (string, error) {
	for _, m := range footnotePattern.FindAllStringSubmatch(html, -1) {
		def, id := m[1], m[2]
		if def == "" {
			def, id = m[3], m[4]
		}
		def = strings.ReplaceAll(def, "</p>", "")
		def = strings.ReplaceAll(def, "<p>", "")
		html = strings.ReplaceAll(html, def, "")

		href := hrefPattern.FindStringSubmatch(def)
		if href == nil {
			return "", fmt.Errorf("%w: [^%s]", ErrFootnoteLink, id)
		}
		sup := fmt.Sprintf(`<a id="test" href="%s"><sup>%s</sup></a>`, href[1], id)
		html = strings.ReplaceAll(html, "[^"+id+"]", sup)
	}
	return html, nil
}
