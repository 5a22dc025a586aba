package converter

// MacroSpec is the opening and closing markup of a Confluence macro that wraps
// converted content.
type MacroSpec struct {
	Open  string
	Close string
}

// Wrap surrounds content with the macro markup.
func (m MacroSpec) Wrap(content string) string {
	return m.Open + content + m.Close
}

// paragraph returns a variant of m whose body is itself a paragraph, the shape
// used when a <p> element is rewritten in place.
func (m MacroSpec) paragraph() MacroSpec {
	return MacroSpec{Open: m.Open + "<p>", Close: "</p>" + m.Close}
}

func structuredMacro(name string) MacroSpec {
	return MacroSpec{
		Open:  `<p><ac:structured-macro ac:name="` + name + `"><ac:rich-text-body>`,
		Close: `</ac:rich-text-body></ac:structured-macro></p>`,
	}
}

var (
	infoMacro    = structuredMacro("info")
	tipMacro     = structuredMacro("tip")
	noteMacro    = structuredMacro("note")
	warningMacro = structuredMacro("warning")

	// ADF note panel, only renders in the new editor.
	panelMacro = MacroSpec{
		Open: `<ac:adf-extension><ac:adf-node type="panel">` +
			`<ac:adf-attribute key="panel-type">note</ac:adf-attribute>` +
			`<ac:adf-content>`,
		Close: `</ac:adf-content></ac:adf-node></ac:adf-extension>`,
	}
)

const tocZoneMacro = `<p><ac:structured-macro ac:name="toc-zone" ac:schema-version="1" ` +
	`data-layout="default"><ac:rich-text-body><ac:structured-macro ` +
	`ac:name="toc" ac:schema-version="1" data-layout="default"/>` +
	`</ac:rich-text-body></ac:structured-macro></p>`

const doctocMacro = `<p>
        <ac:structured-macro ac:name="toc">
        <ac:parameter ac:name="printable">true</ac:parameter>
        <ac:parameter ac:name="style">disc</ac:parameter>
        <ac:parameter ac:name="maxLevel">7</ac:parameter>
        <ac:parameter ac:name="minLevel">1</ac:parameter>
        <ac:parameter ac:name="type">list</ac:parameter>
        <ac:parameter ac:name="outline">clear</ac:parameter>
        <ac:parameter ac:name="include">.*</ac:parameter>
        </ac:structured-macro>
        </p>`

const contentsMacro = `<ac:structured-macro ac:name="toc">
<ac:parameter ac:name="printable">true</ac:parameter>
<ac:parameter ac:name="style">disc</ac:parameter>` +
	`<ac:parameter ac:name="maxLevel">5</ac:parameter>
<ac:parameter ac:name="minLevel">1</ac:parameter>` +
	`<ac:parameter ac:name="class">rm-contents</ac:parameter>
<ac:parameter ac:name="exclude"></ac:parameter>
<ac:parameter ac:name="type">list</ac:parameter>` +
	`<ac:parameter ac:name="outline">false</ac:parameter>
<ac:parameter ac:name="include"></ac:parameter>
</ac:structured-macro>`
