package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/civar/lang"
	"github.com/ardnew/civar/resolve"
)

//nolint:gochecknoglobals
var (
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	nullStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Table renders the result set as an aligned, styled table for the
// job log. Null values render as a dimmed placeholder so they remain
// distinguishable from empty strings.
func Table(set *resolve.ResultSet) string {
	width := 0
	for _, v := range set.Variables {
		if len(v.Name) > width {
			width = len(v.Name)
		}
	}

	var sb strings.Builder

	for _, v := range set.Variables {
		sb.WriteString(nameStyle.Render(v.Name))
		sb.WriteString(strings.Repeat(" ", width-len(v.Name)))
		sb.WriteString(" = ")

		if v.Value == nil {
			sb.WriteString(nullStyle.Render("(null)"))
		} else {
			sb.WriteString(valueStyle.Render(lang.Canonical(v.Value)))
		}

		sb.WriteString(sourceStyle.Render("  [" + v.Source.String() + "]"))
		sb.WriteString("\n")
	}

	return sb.String()
}

// YAML renders the result set as an ordered YAML document.
func YAML(set *resolve.ResultSet) (string, error) {
	doc := make(yaml.MapSlice, 0, set.Len())
	for _, v := range set.Variables {
		doc = append(doc, yaml.MapItem{Key: v.Name, Value: v.Value})
	}

	text, err := yaml.Marshal(doc)
	if err != nil {
		return "", WrapError(err)
	}

	return string(text), nil
}

// Summary renders the result set as a step-summary Markdown fragment:
// a heading followed by the YAML document in a fenced block.
func Summary(set *resolve.ResultSet) (string, error) {
	doc, err := YAML(set)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	sb.WriteString("### Resolved variables\n\n")
	sb.WriteString("```yaml\n")
	sb.WriteString(doc)

	if !strings.HasSuffix(doc, "\n") {
		sb.WriteString("\n")
	}

	sb.WriteString("```\n")

	return sb.String(), nil
}
