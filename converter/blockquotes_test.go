package converter

import (
	"testing"
)

func TestConvertDelimiters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "info",
			input:    "<p>~?Info text?~</p>",
			expected: `<p><ac:structured-macro ac:name="info"><ac:rich-text-body><p>Info text</p></ac:rich-text-body></ac:structured-macro></p>`,
		},
		{
			name:     "warning shorthand uses note macro",
			input:    "<p>~%Careful%~</p>",
			expected: `<p><ac:structured-macro ac:name="note"><ac:rich-text-body><p>Careful</p></ac:rich-text-body></ac:structured-macro></p>`,
		},
		{
			name:     "success shorthand uses tip macro",
			input:    "<p>~^Done^~</p>",
			expected: `<p><ac:structured-macro ac:name="tip"><ac:rich-text-body><p>Done</p></ac:rich-text-body></ac:structured-macro></p>`,
		},
		{
			name:     "error shorthand uses warning macro",
			input:    "<p>~$Broken$~</p>",
			expected: `<p><ac:structured-macro ac:name="warning"><ac:rich-text-body><p>Broken</p></ac:rich-text-body></ac:structured-macro></p>`,
		},
		{
			name:  "panel",
			input: "<p>~!Panel!~</p>",
			expected: `<ac:adf-extension><ac:adf-node type="panel"><ac:adf-attribute key="panel-type">note</ac:adf-attribute><ac:adf-content><p>` +
				`Panel` +
				`</p></ac:adf-content></ac:adf-node></ac:adf-extension>`,
		},
		{
			name:     "no shorthand",
			input:    "<p>Plain ~ text</p>",
			expected: "<p>Plain ~ text</p>",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ConvertDelimiters(tt.input); got != tt.expected {
				t.Errorf("ConvertDelimiters() =\n%s\nwant\n%s", got, tt.expected)
			}
		})
	}
}

func TestClassifyBlockquote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		label string
		macro MacroSpec
	}{
		{name: "note", input: "\n<p>Note: read</p>\n", label: "Note", macro: infoMacro.paragraph()},
		{name: "lowercase note", input: "<p>note: read</p>", label: "Note", macro: infoMacro.paragraph()},
		{name: "warning", input: "<p>Warning: careful</p>", label: "Warning", macro: noteMacro.paragraph()},
		{name: "bold success", input: "<p><strong>Success</strong>: yay</p>", label: "Success", macro: tipMacro.paragraph()},
		{name: "error", input: "<p><em>ERROR:</em> boom</p>", label: "Error", macro: warningMacro.paragraph()},
		{name: "unlabelled", input: "<p>Something else</p>", label: "", macro: infoMacro.paragraph()},
		{name: "label later in text", input: "<p>See the Note below</p>", label: "", macro: infoMacro.paragraph()},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			label, macro := ClassifyBlockquote(tt.input)
			if label != tt.label {
				t.Errorf("label = %q, want %q", label, tt.label)
			}
			if macro != tt.macro {
				t.Errorf("macro = %+v, want %+v", macro, tt.macro)
			}
		})
	}
}

func TestStripLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		label    string
		expected string
	}{
		{name: "colon", input: "<p>Note: this is important</p>", label: "Note", expected: "<p>This is important</p>"},
		{name: "spaced colon", input: "<p>Note : spaced</p>", label: "Note", expected: "<p>Spaced</p>"},
		{name: "strong with colon inside", input: "<p><strong>Note:</strong> bold</p>", label: "Note", expected: "<p>Bold</p>"},
		{name: "em with colon outside", input: "<p><em>Note</em>: italic</p>", label: "Note", expected: "<p>Italic</p>"},
		{name: "strong with space", input: "<p><strong>Warning </strong>: x</p>", label: "Warning", expected: "<p>X</p>"},
		{name: "surrounding whitespace", input: "\n<p>Success: done</p>\n", label: "Success", expected: "<p>Done</p>"},
		{name: "case insensitive", input: "<p>error: failed</p>", label: "Error", expected: "<p>Failed</p>"},
		{name: "no colon", input: "<p>Note this</p>", label: "Note", expected: "<p>Note this</p>"},
		{name: "only once", input: "<p>Note: Note: twice</p>", label: "Note", expected: "<p>Note: twice</p>"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := StripLabel(tt.input, tt.label); got != tt.expected {
				t.Errorf("StripLabel(%q, %q) = %q, want %q", tt.input, tt.label, got, tt.expected)
			}
		})
	}
}

func TestConvertBlockquotes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "warning",
			input:    "<blockquote>\n<p>Warning: careful</p>\n</blockquote>",
			expected: `<p><ac:structured-macro ac:name="note"><ac:rich-text-body><p>Careful</p></ac:rich-text-body></ac:structured-macro></p>`,
		},
		{
			name:     "note",
			input:    "<blockquote><p>Note: x</p></blockquote>",
			expected: `<p><ac:structured-macro ac:name="info"><ac:rich-text-body><p>X</p></ac:rich-text-body></ac:structured-macro></p>`,
		},
		{
			name:     "unlabelled keeps text as is",
			input:    "<blockquote>\n<p>just text</p>\n</blockquote>",
			expected: `<p><ac:structured-macro ac:name="info"><ac:rich-text-body><p>just text</p></ac:rich-text-body></ac:structured-macro></p>`,
		},
		{
			name:  "one macro per paragraph",
			input: "<blockquote>\n<p>Error: one</p>\n<p>two</p>\n</blockquote>",
			expected: `<p><ac:structured-macro ac:name="warning"><ac:rich-text-body><p>One</p></ac:rich-text-body></ac:structured-macro></p>` +
				"\n" +
				`<p><ac:structured-macro ac:name="warning"><ac:rich-text-body><p>two</p></ac:rich-text-body></ac:structured-macro></p>`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ConvertBlockquotes(tt.input); got != tt.expected {
				t.Errorf("ConvertBlockquotes() =\n%s\nwant\n%s", got, tt.expected)
			}
		})
	}
}

func TestConvertInfoMacros_AlertsFirst(t *testing.T) {
	t.Parallel()

	in := "<blockquote>\n<p>[!CAUTION]\nNote: not a label here</p>\n</blockquote>"
	want := `<p><ac:structured-macro ac:name="warning"><ac:rich-text-body><p>Note: not a label here</p></ac:rich-text-body></ac:structured-macro></p>`

	if got := ConvertInfoMacros(in); got != want {
		t.Errorf("ConvertInfoMacros() =\n%s\nwant\n%s", got, want)
	}
}

func TestConvertDoctoc(t *testing.T) {
	t.Parallel()

	in := "<p>Intro</p>\n" +
		"<!-- START doctoc generated TOC please keep comment here to allow auto update -->\n" +
		"<!-- DON'T EDIT THIS SECTION, INSTEAD RE-RUN doctoc TO UPDATE -->\n" +
		"<ul>\n<li><a href=\"#a\">A</a></li>\n</ul>\n" +
		"<!-- END doctoc generated TOC please keep comment here to allow auto update -->\n" +
		"<h2>A</h2>\n" +
		"<!-- a normal comment -->"

	want := "<p>Intro</p>\n" + doctocMacro + "\n<h2>A</h2>\n<!-- a normal comment -->"

	if got := ConvertDoctoc(in); got != want {
		t.Errorf("ConvertDoctoc() =\n%s\nwant\n%s", got, want)
	}
}
