package converter

import (
	"regexp"
	"strings"
)

// AlertType is the marker of a GitHub alert blockquote, e.g. "> [!NOTE]".
type AlertType string

const (
	AlertNote      AlertType = "NOTE"
	AlertTip       AlertType = "TIP"
	AlertImportant AlertType = "IMPORTANT"
	AlertWarning   AlertType = "WARNING"
	AlertCaution   AlertType = "CAUTION"
)

var alertMacros = map[AlertType]MacroSpec{
	AlertNote:      infoMacro,
	AlertTip:       tipMacro,
	AlertImportant: panelMacro,
	AlertWarning:   noteMacro,
	AlertCaution:   warningMacro,
}

// Macro returns the Confluence macro an alert of this type becomes.
func (t AlertType) Macro() (MacroSpec, bool) {
	m, ok := alertMacros[t]
	return m, ok
}

// AlertInfo is a parsed GitHub alert. FirstLine is the text that shares the
// paragraph with the marker and Remaining is everything after that paragraph.
type AlertInfo struct {
	Type      AlertType
	FirstLine string
	Remaining string
}

var (
	blockquotePattern = regexp.MustCompile(`(?s)<blockquote>(.*?)</blockquote>`)
	alertMarker       = regexp.MustCompile(`(?i)^<p>\[!(NOTE|TIP|IMPORTANT|WARNING|CAUTION)\]`)
)

// ParseGitHubAlert parses the inner HTML of a blockquote. It returns false when
// the content does not open with a known alert marker or the marker's
// paragraph is never closed.
func ParseGitHubAlert(quote string) (AlertInfo, bool) {
	content := strings.TrimSpace(quote)
	if !strings.HasPrefix(content, "<p>[!") {
		return AlertInfo{}, false
	}

	loc := alertMarker.FindStringSubmatchIndex(content)
	if loc == nil {
		return AlertInfo{}, false
	}
	start := loc[1]
	end := strings.Index(content[start:], "</p>")
	if end < 0 {
		return AlertInfo{}, false
	}
	end += start

	return AlertInfo{
		Type:      AlertType(strings.ToUpper(content[loc[2]:loc[3]])),
		FirstLine: strings.TrimSpace(content[start:end]),
		Remaining: strings.TrimSpace(content[end+len("</p>"):]),
	}, true
}

// Render builds the macro markup for the alert.
func (a AlertInfo) Render() (string, bool) {
	macro, ok := a.Type.Macro()
	if !ok {
		return "", false
	}

	var body strings.Builder
	if a.FirstLine != "" {
		body.WriteString("<p>" + a.FirstLine + "</p>")
	}
	if a.Remaining != "" {
		body.WriteString(a.Remaining)
	}
	if body.Len() == 0 {
		body.WriteString("<p></p>")
	}

	return macro.Wrap(body.String()), true
}

// ConvertGitHubAlerts replaces every blockquote that is a GitHub alert with the
// matching macro. Other blockquotes are left for the heuristic pass.
func ConvertGitHubAlerts(html string) string {
	for _, m := range blockquotePattern.FindAllStringSubmatch(html, -1) {
		alert, ok := ParseGitHubAlert(m[1])
		if !ok {
			continue
		}
		macro, ok := alert.Render()
		if !ok {
			continue
		}
		html = strings.Replace(html, m[0], macro, 1)
	}
	return html
}
