package converter

import (
	"testing"
)

func TestSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		lowercase bool
		expected  string
	}{
		{name: "simple", input: "Section 1", lowercase: true, expected: "section-1"},
		{name: "keeps case", input: "Section 1", lowercase: false, expected: "Section-1"},
		{name: "strips tags", input: "<strong>Bold</strong> Section", lowercase: true, expected: "bold-section"},
		{name: "strips entities", input: "Fish &amp; Chips", lowercase: true, expected: "fish--chips"},
		{name: "drops ampersand", input: "Section & More", lowercase: false, expected: "Section--More"},
		{name: "drops dots", input: "API Version 2.0", lowercase: false, expected: "API-Version-20"},
		{name: "drops non-ascii", input: "Café Section", lowercase: false, expected: "Caf-Section"},
		{name: "empty", input: "", lowercase: true, expected: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Slug(tt.input, tt.lowercase); got != tt.expected {
				t.Errorf("Slug(%q, %v) = %q, want %q", tt.input, tt.lowercase, got, tt.expected)
			}
		})
	}
}

func TestProcessHeaders_LegacyEditor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		heading string
		key     string
		value   string
	}{
		{name: "plain", heading: "Section 1", key: "#section-1", value: "Section1"},
		{name: "markup", heading: "<strong>Bold</strong> Section", key: "#bold-section", value: "Section"},
		{name: "all markup", heading: "<h1><strong>Main</strong> <em>Title</em></h1>", key: "#main-title", value: ""},
		{name: "spaces", heading: "  Multiple   Spaces  ", key: "#--multiple---spaces--", value: "MultipleSpaces"},
		{name: "tab", heading: "Tab\tCharacters", key: "#tabcharacters", value: "Tab\tCharacters"},
		{name: "newline", heading: "Newline\nCharacter", key: "#newlinecharacter", value: "Newline\nCharacter"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &Resolver{Editor: EditorV1}
			headers := r.ProcessHeaders("#", "_%d", []string{tt.heading})

			got, ok := headers.Lookup(tt.key)
			if !ok {
				t.Fatalf("key %q missing, entries = %+v", tt.key, headers.Entries())
			}
			if got != tt.value {
				t.Errorf("value = %q, want %q", got, tt.value)
			}
		})
	}
}

func TestProcessHeaders_Collisions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		prefix   string
		postfix  string
		headings []string
		expected []HeaderEntry
	}{
		{
			name:     "duplicates are numbered",
			prefix:   "#",
			postfix:  ".%d",
			headings: []string{"Section 1", "Section 1", "Section 1"},
			expected: []HeaderEntry{
				{AnchorKey: "#section-1", DisplayValue: "Section-1"},
				{AnchorKey: "#section-1.1", DisplayValue: "Section-1.1"},
				{AnchorKey: "#section-1.2", DisplayValue: "Section-1.2"},
			},
		},
		{
			name:     "custom prefix and postfix",
			prefix:   "custom-",
			postfix:  "-v%d",
			headings: []string{"Section A", "Section A", "Section B"},
			expected: []HeaderEntry{
				{AnchorKey: "custom-section-a", DisplayValue: "Section-A"},
				{AnchorKey: "custom-section-a-v1", DisplayValue: "Section-A.1"},
				{AnchorKey: "custom-section-b", DisplayValue: "Section-B"},
			},
		},
		{
			name:     "numbered key already taken",
			prefix:   "#",
			postfix:  "-%d",
			headings: []string{"Intro 1", "Intro", "Intro"},
			expected: []HeaderEntry{
				{AnchorKey: "#intro-1", DisplayValue: "Intro-1"},
				{AnchorKey: "#intro", DisplayValue: "Intro"},
				{AnchorKey: "#intro-2", DisplayValue: "Intro.2"},
			},
		},
		{
			name:     "bitbucket",
			prefix:   "#markdown-header-",
			postfix:  "_%d",
			headings: []string{"Setup", "Setup"},
			expected: []HeaderEntry{
				{AnchorKey: "#markdown-header-setup", DisplayValue: "Setup"},
				{AnchorKey: "#markdown-header-setup_1", DisplayValue: "Setup.1"},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &Resolver{Editor: EditorV2}
			got := r.ProcessHeaders(tt.prefix, tt.postfix, tt.headings).Entries()

			if len(got) != len(tt.expected) {
				t.Fatalf("got %d entries %+v, want %d", len(got), got, len(tt.expected))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("entry %d = %+v, want %+v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestProcessHeaders_Deterministic(t *testing.T) {
	t.Parallel()

	headings := []string{"A", "B", "A", "C", "A", "B"}
	r := &Resolver{Editor: EditorV2}

	first := r.ProcessHeaders("#", "_%d", headings).Entries()
	second := r.ProcessHeaders("#", "_%d", headings).Entries()

	if len(first) != len(headings) {
		t.Fatalf("got %d entries, want %d", len(first), len(headings))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("entry %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestParseEditorVersion(t *testing.T) {
	t.Parallel()

	if v, err := ParseEditorVersion(1); err != nil || v != EditorV1 {
		t.Errorf("ParseEditorVersion(1) = %v, %v", v, err)
	}
	if v, err := ParseEditorVersion(2); err != nil || v != EditorV2 {
		t.Errorf("ParseEditorVersion(2) = %v, %v", v, err)
	}
	if _, err := ParseEditorVersion(3); err == nil {
		t.Error("ParseEditorVersion(3) expected error")
	}
	if got := EditorV2.String(); got != "v2" {
		t.Errorf("EditorV2.String() = %q, want %q", got, "v2")
	}
}

func TestParseMarkdownSource(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"default", "bitbucket", " Bitbucket "} {
		if _, err := ParseMarkdownSource(in); err != nil {
			t.Errorf("ParseMarkdownSource(%q) error = %v", in, err)
		}
	}
	if _, err := ParseMarkdownSource("gitlab"); err == nil {
		t.Error("ParseMarkdownSource(gitlab) expected error")
	}
}
