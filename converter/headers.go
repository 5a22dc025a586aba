package converter

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	slugTags     = regexp.MustCompile(`<[^>]+>`)
	slugEntities = regexp.MustCompile(`&[a-z]+;`)
	slugInvalid  = regexp.MustCompile(`[^a-zA-Z0-9-]`)
)

// Slug turns heading markup into an anchor fragment. Tags and named entities
// are removed, spaces become dashes and anything outside [A-Za-z0-9-] is
// dropped, so non-ASCII letters disappear entirely.
func Slug(s string, lowercase bool) string {
	if lowercase {
		s = strings.ToLower(s)
	}
	s = slugTags.ReplaceAllString(s, "")
	s = slugEntities.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " ", "-")
	return slugInvalid.ReplaceAllString(s, "")
}

// HeaderEntry maps the anchor a Markdown processor would generate for a heading
// to the anchor Confluence generates for it.
type HeaderEntry struct {
	AnchorKey    string
	DisplayValue string
}

// HeaderMap is an insertion-ordered set of HeaderEntry values with unique keys.
type HeaderMap struct {
	entries []HeaderEntry
	index   map[string]int
}

func newHeaderMap() *HeaderMap {
	return &HeaderMap{index: make(map[string]int)}
}

func (m *HeaderMap) add(key, value string) {
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, HeaderEntry{AnchorKey: key, DisplayValue: value})
}

// Lookup returns the display value stored for key.
func (m *HeaderMap) Lookup(key string) (string, bool) {
	i, ok := m.index[key]
	if !ok {
		return "", false
	}
	return m.entries[i].DisplayValue, true
}

// Entries returns the entries in the order the headings appeared.
func (m *HeaderMap) Entries() []HeaderEntry {
	out := make([]HeaderEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *HeaderMap) Len() int {
	return len(m.entries)
}

// ProcessHeaders builds the anchor map for the given heading contents. The
// first heading with a given key keeps it; later duplicates get the postfix
// pattern applied to a per-key counter starting at 1, and ".N" appended to
// their display value.
func (r *Resolver) ProcessHeaders(prefix, postfix string, headings []string) *HeaderMap {
	mode := r.Editor.mode()
	headers := newHeaderMap()
	counters := make(map[string]int)

	for _, heading := range headings {
		key := prefix + Slug(heading, true)
		value := mode.displayValue(heading)

		if _, taken := headers.Lookup(key); !taken {
			headers.add(key, value)
			counters[key] = 1
			continue
		}

		n, ok := counters[key]
		if !ok {
			n = 1
		}
		altKey := key + fmt.Sprintf(postfix, n)
		for {
			if _, taken := headers.Lookup(altKey); !taken {
				break
			}
			n++
			altKey = key + fmt.Sprintf(postfix, n)
		}
		headers.add(altKey, fmt.Sprintf("%s.%d", value, n))
		counters[key] = n + 1
	}

	return headers
}
