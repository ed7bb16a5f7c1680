package generation

import (
	"fmt"
	"strings"
)

// Project-kind keyword tables for prompt enhancement. Matching is substring
// based over the lowercased prompt; first matching kind wins in the order
// game, landing, app, dashboard, portfolio.

var gameKeywords = []string{
	"game", "tic tac toe", "tictactoe", "puzzle", "snake", "tetris", "memory",
	"quiz", "trivia", "arcade", "card game", "chess", "checkers", "pong",
	"breakout", "word game", "crossword", "sudoku", "dice", "bingo",
	"rock paper scissors", "hangman", "connect four", "battleship",
	"solitaire", "blackjack", "poker", "racing", "platformer",
}

var landingKeywords = []string{
	"landing page", "homepage", "marketing page", "product page", "sales page",
	"coming soon", "launch page", "business page", "service page", "company page",
}

var appKeywords = []string{
	"app", "application", "tool", "calculator", "converter", "tracker",
	"manager", "editor", "generator", "builder", "creator", "planner",
	"organizer", "scheduler",
}

var dashboardKeywords = []string{
	"dashboard", "admin", "analytics", "stats", "metrics", "charts", "graphs",
	"data visualization", "control panel", "monitoring",
}

var portfolioKeywords = []string{
	"portfolio", "resume", "cv", "personal site", "profile", "showcase",
	"gallery", "work samples",
}

type projectKind string

const (
	kindGame      projectKind = "game"
	kindLanding   projectKind = "landing"
	kindApp       projectKind = "app"
	kindDashboard projectKind = "dashboard"
	kindPortfolio projectKind = "portfolio"
	kindGeneric   projectKind = "generic"
)

func detectProjectKind(prompt string) projectKind {
	lowered := strings.ToLower(strings.TrimSpace(prompt))
	switch {
	case matchesAny(lowered, gameKeywords):
		return kindGame
	case matchesAny(lowered, landingKeywords):
		return kindLanding
	case matchesAny(lowered, appKeywords):
		return kindApp
	case matchesAny(lowered, dashboardKeywords):
		return kindDashboard
	case matchesAny(lowered, portfolioKeywords):
		return kindPortfolio
	default:
		return kindGeneric
	}
}

func matchesAny(prompt string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(prompt, keyword) {
			return true
		}
	}
	return false
}

var kindInstructions = map[projectKind]string{
	kindGame: `**FUNCTIONALITY:**
- Complete game logic with win detection
- Score tracking and statistics
- Reset/restart functionality
- Smooth user interactions with visual feedback`,
	kindLanding: `**FUNCTIONALITY:**
- Hero section with a clear call to action
- Feature highlights and testimonials
- Smooth scroll navigation
- Contact or signup section`,
	kindApp: `**FUNCTIONALITY:**
- Complete working features, not placeholders
- State persisted across interactions where it makes sense
- Input validation with helpful feedback
- Keyboard-friendly controls`,
	kindDashboard: `**FUNCTIONALITY:**
- Summary cards with key numbers
- At least one chart or graph rendered with vanilla JavaScript/CSS
- Sortable or filterable data table
- Responsive panel layout`,
	kindPortfolio: `**FUNCTIONALITY:**
- About, projects, and contact sections
- Project cards with hover detail
- Smooth section navigation
- Downloadable or printable layout`,
	kindGeneric: `**FUNCTIONALITY:**
- Interactive elements with visual feedback
- Smooth animations and transitions
- Sensible empty and loading states`,
}

// EnhancePrompt expands a short user prompt with kind-specific design and
// functionality requirements, mirroring what a careful user would spell out.
func EnhancePrompt(userPrompt string) string {
	trimmed := strings.TrimSpace(userPrompt)
	if trimmed == "" {
		return userPrompt
	}

	kind := detectProjectKind(trimmed)
	return fmt.Sprintf(`Create a professional, modern web project: "%s"

**DESIGN REQUIREMENTS:**
- Contemporary theme with a consistent color palette and proper contrast
- Professional typography and spacing
- Smooth animations and hover effects
- Responsive design for mobile and desktop

%s

Create a polished, production-ready web application!`, trimmed, kindInstructions[kind])
}

// BuildFilePrompt wraps the (already enhanced) prompt with the three-file
// JSON output contract the providers are expected to honor.
func BuildFilePrompt(prompt string) string {
	return fmt.Sprintf(`Generate a complete web application based on this request: %q

IMPORTANT: Please provide THREE separate files with clean separation of concerns:

1. HTML file (index.html): Structure only, no inline CSS or JavaScript
2. CSS file (styles.css): All styling, including responsive design and animations
3. JavaScript file (script.js): All interactive functionality

Please provide the response in this EXACT JSON format:
{
  "files": {
    "index.html": "HTML structure with proper links to external CSS and JS files",
    "styles.css": "Complete CSS styling including responsive design and animations",
    "script.js": "All JavaScript functionality and event handlers"
  }
}

Requirements:
- HTML should link to styles.css and script.js using: <link rel="stylesheet" href="styles.css"> and <script src="script.js"></script>
- Create a fully functional, responsive web application
- Ensure all files work together seamlessly
- Include proper error handling in JavaScript

The application should be: %s`, prompt, prompt)
}
