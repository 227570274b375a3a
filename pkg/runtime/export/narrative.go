package export

import (
	"html/template"
	"strings"
)

// NarrativeToHTML converts the small markdown subset returned by the model:
// "# " and "## " headings, "- " bullets and plain paragraphs. Everything else
// is kept as escaped paragraph text.
func NarrativeToHTML(text string) string {
	var parts []string
	inList := false

	closeList := func() {
		if inList {
			parts = append(parts, "</ul>")
			inList = false
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case line == "":
			closeList()
		case strings.HasPrefix(line, "## "):
			closeList()
			parts = append(parts, "<h2>"+template.HTMLEscapeString(line[3:])+"</h2>")
		case strings.HasPrefix(line, "# "):
			closeList()
			parts = append(parts, "<h1>"+template.HTMLEscapeString(line[2:])+"</h1>")
		case strings.HasPrefix(line, "- "):
			if !inList {
				parts = append(parts, "<ul>")
				inList = true
			}
			parts = append(parts, "<li>"+template.HTMLEscapeString(line[2:])+"</li>")
		default:
			closeList()
			parts = append(parts, "<p>"+template.HTMLEscapeString(line)+"</p>")
		}
	}
	closeList()

	return strings.Join(parts, "\n")
}
