package converter

import (
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
)

var (
	headingPattern   = regexp.MustCompile(`(?s)<h\d+>(.*?)</h\d+>`)
	localLinkPattern = regexp.MustCompile(`<a href="#.+?">.+?</a>`)
	localLinkParts   = regexp.MustCompile(`<a href="(#.+?)">(.+?)</a>`)
)

// Resolver rewrites links to headings of the same document into links
// Confluence understands. It runs once the page exists, because editor v2
// links carry the page ID.
type Resolver struct {
	// Confluence base URL, e.g. https://ORG.atlassian.net/wiki
	APIURL string
	Editor EditorVersion

	Logger *log.Logger
}

func (r *Resolver) logger() *log.Logger {
	if r.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return r.Logger
}

// PageURL is the web address of a page as used in editor v2 links.
func (r *Resolver) PageURL(spaceKey string, pageID int, title string) string {
	return fmt.Sprintf("%s/spaces/%s/pages/%d/%s",
		r.APIURL, spaceKey, pageID, strings.Join(strings.Fields(title), "+"))
}

// ProcessLinks replaces every occurrence of each link whose fragment is a key
// of headers. Links to unknown anchors are left alone.
func (r *Resolver) ProcessLinks(html string, links []string, headers *HeaderMap, spaceKey string, pageID int, title string) string {
	mode := r.Editor.mode()
	base := r.PageURL(spaceKey, pageID, title)

	for _, link := range links {
		m := localLinkParts.FindStringSubmatch(link)
		if m == nil {
			continue
		}
		anchor, ok := headers.Lookup(m[1])
		if !ok || anchor == "" {
			continue
		}
		replacement := mode.link(base, anchor, m[2])
		r.logger().Printf("replacing link %s with %s", link, replacement)
		html = strings.ReplaceAll(html, link, replacement)
	}

	return html
}

// ResolveLocalRefs collects the headings and local links of html and rewrites
// the links. Documents from an unregistered Markdown source are returned
// untouched.
func (r *Resolver) ResolveLocalRefs(html string, source MarkdownSource, spaceKey string, pageID int, title string) string {
	conv, ok := source.Convention()
	if !ok {
		r.logger().Printf("warning: local references weren't processed, markdown source %q isn't supported", source)
		return html
	}

	matches := headingPattern.FindAllStringSubmatch(html, -1)
	if len(matches) == 0 {
		return html
	}
	headings := make([]string, 0, len(matches))
	for _, m := range matches {
		headings = append(headings, m[1])
	}

	links := localLinkPattern.FindAllString(html, -1)
	if len(links) == 0 {
		return html
	}

	headers := r.ProcessHeaders(conv.Prefix, conv.Postfix, headings)
	return r.ProcessLinks(html, links, headers, spaceKey, pageID, title)
}
