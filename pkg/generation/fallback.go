package generation

import "strings"

// Default skeletons used to backfill canonical files the provider left
// missing or blank, so the preview never degrades below a renderable page.

const defaultIndexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>AI Generated Project</title>
    <link rel="stylesheet" href="styles.css">
</head>
<body>
    <div class="container">
        <h1>Welcome</h1>
        <p>This is an AI-generated web application.</p>
    </div>
    <script src="script.js"></script>
</body>
</html>`

const defaultStylesCSS = `body {
    font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
    margin: 0;
    padding: 20px;
    background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
    min-height: 100vh;
}
.container {
    max-width: 800px;
    margin: 0 auto;
    background: white;
    padding: 30px;
    border-radius: 10px;
    box-shadow: 0 10px 30px rgba(0,0,0,0.2);
}
h1 {
    color: #333;
    text-align: center;
}`

const defaultScriptJS = `console.log('AI Generated Project loaded successfully');
document.addEventListener('DOMContentLoaded', function() {
    console.log('Page is ready!');
});`

// errorPageHTML is substituted when the provider fails entirely. The user
// keeps a renderable workspace instead of a blocking error dialog.
const errorPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Generation Unavailable</title>
    <link rel="stylesheet" href="styles.css">
</head>
<body>
    <div class="container">
        <h1>Generation temporarily unavailable</h1>
        <p>The AI service could not be reached or returned an unusable answer. Your workspace is intact.</p>
        <p>Please try the same prompt again in a moment.</p>
    </div>
    <script src="script.js"></script>
</body>
</html>`

// aliasToCanonical maps the alias filenames some models emit onto the
// canonical names the rest of the system expects.
var aliasToCanonical = map[string]string{
	"style.css": "styles.css",
	"main.js":   "script.js",
}

// normalizeFiles renames alias keys to their canonical names. A canonical
// entry that already has non-blank content wins over its alias.
func normalizeFiles(files map[string]string) map[string]string {
	normalized := make(map[string]string, len(files))
	for name, content := range files {
		if _, isAlias := aliasToCanonical[name]; !isAlias {
			normalized[name] = content
		}
	}
	for alias, canonical := range aliasToCanonical {
		content, ok := files[alias]
		if !ok {
			continue
		}
		if strings.TrimSpace(normalized[canonical]) == "" {
			normalized[canonical] = content
		}
	}
	return normalized
}

// backfill fills the three canonical files with default skeletons wherever
// they are missing or blank after trimming.
func backfill(files map[string]string) map[string]string {
	filled := make(map[string]string, len(files)+3)
	for name, content := range files {
		filled[name] = content
	}
	if strings.TrimSpace(filled["index.html"]) == "" {
		filled["index.html"] = defaultIndexHTML
	}
	if strings.TrimSpace(filled["styles.css"]) == "" {
		filled["styles.css"] = defaultStylesCSS
	}
	if strings.TrimSpace(filled["script.js"]) == "" {
		filled["script.js"] = defaultScriptJS
	}
	return filled
}

// fallbackFiles is the complete replacement used after a failed generation.
func fallbackFiles() map[string]string {
	return backfill(map[string]string{"index.html": errorPageHTML})
}
