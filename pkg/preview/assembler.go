// Package preview assembles the workspace files into a single self-contained
// HTML document for a sandboxed, network-isolated preview frame. Because the
// frame cannot fetch sibling files by relative URL, stylesheet and script
// content is inlined rather than linked.
package preview

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	stylesheetLinkRe = regexp.MustCompile(`(?i)<link[^>]*href=["'](?:styles?\.css)["'][^>]*>`)
	scriptSrcRe      = regexp.MustCompile(`(?i)<script[^>]*src=["'](?:script\.js|main\.js)["'][^>]*>\s*</script>`)
)

// emptyShell is used when files exist but none of them is index.html, so the
// stylesheet and script still have a document to attach to.
const emptyShell = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Preview</title>
</head>
<body>
    <p>No index.html in this project yet.</p>
</body>
</html>`

// Assemble combines the workspace snapshot into one renderable document.
// It is pure: the same snapshot always yields the same output, and the input
// map is never mutated. An entirely empty workspace yields "" so the caller
// can render a placeholder instead of a blank frame.
func Assemble(files map[string]string) string {
	if len(files) == 0 {
		return ""
	}

	html, hasIndex := files["index.html"]
	css := pickAlias(files, "styles.css", "style.css")
	js := pickAlias(files, "script.js", "main.js")

	if !hasIndex {
		if allBlank(files) {
			return ""
		}
		// Other files exist: synthesize a shell for the injections below.
		html = emptyShell
	}
	if html == "" && strings.TrimSpace(css) == "" && strings.TrimSpace(js) == "" {
		return ""
	}

	// External references would 404 inside the isolated frame; drop them
	// before inlining the same content.
	html = stylesheetLinkRe.ReplaceAllString(html, "")
	html = scriptSrcRe.ReplaceAllString(html, "")

	if strings.TrimSpace(css) != "" {
		styleTag := fmt.Sprintf("<style>\n%s\n</style>", css)
		switch {
		case strings.Contains(html, "</head>"):
			html = strings.Replace(html, "</head>", "  "+styleTag+"\n</head>", 1)
		case strings.Contains(html, "<head>"):
			html = strings.Replace(html, "<head>", "<head>\n  "+styleTag, 1)
		default:
			html = styleTag + "\n" + html
		}
	}

	if strings.TrimSpace(js) != "" {
		scriptTag := fmt.Sprintf("<script>\n%s\n</script>", js)
		if strings.Contains(html, "</body>") {
			html = strings.Replace(html, "</body>", "  "+scriptTag+"\n</body>", 1)
		} else {
			html = html + "\n" + scriptTag
		}
	}

	return html
}

// pickAlias returns the canonical entry when present and non-blank,
// otherwise the alias.
func pickAlias(files map[string]string, canonical, alias string) string {
	if content, ok := files[canonical]; ok && strings.TrimSpace(content) != "" {
		return content
	}
	return files[alias]
}

func allBlank(files map[string]string) bool {
	for _, content := range files {
		if strings.TrimSpace(content) != "" {
			return false
		}
	}
	return true
}
