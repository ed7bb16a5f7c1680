package workspace

// DefaultIndex is the welcome page every new workspace starts with.
const DefaultIndex = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Welcome</title>
    <style>
        body {
            font-family: 'Inter', 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            margin: 0;
            padding: 40px;
            background: linear-gradient(135deg, #0a0a0f 0%, #0f0f14 50%, #16161d 100%);
            min-height: 100vh;
            display: flex;
            align-items: center;
            justify-content: center;
        }
        .welcome {
            text-align: center;
            color: white;
            background: rgba(255,255,255,0.08);
            padding: 40px;
            border-radius: 24px;
            border: 1px solid rgba(255,255,255,0.12);
            box-shadow: 0 8px 32px rgba(0,0,0,0.12);
        }
        h1 { font-size: 2.5em; margin-bottom: 20px; }
        p { font-size: 1.2em; opacity: 0.9; }
    </style>
</head>
<body>
    <div class="welcome">
        <h1>Sitesmith</h1>
        <p>Enter a prompt to generate your web application!</p>
        <p>Try: "Create a todo app with dark mode" or "Build a calculator with animations"</p>
    </div>
</body>
</html>`

// Seed returns a workspace holding the default welcome page plus empty
// stylesheet and script entries, with index.html active.
func Seed() *Workspace {
	w := New()
	w.SetFiles(map[string]string{
		"index.html": DefaultIndex,
		"styles.css": "",
		"script.js":  "",
	})
	_ = w.SetActiveFile("index.html")
	return w
}
