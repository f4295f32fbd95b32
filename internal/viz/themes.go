package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the chrome around the sky. Body colors come from the bodies.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Star       lipgloss.Color
	Stable     lipgloss.Color
	Chaotic    lipgloss.Color
}

var (
	ThemeTrisolaris = Theme{
		Name:       "trisolaris",
		Primary:    lipgloss.Color("#fbbf24"),
		Secondary:  lipgloss.Color("#38bdf8"),
		Accent:     lipgloss.Color("#a78bfa"),
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#e2e8f0"),
		Muted:      lipgloss.Color("#64748b"),
		Star:       lipgloss.Color("#ffffff"),
		Stable:     lipgloss.Color("#34d399"),
		Chaotic:    lipgloss.Color("#f87171"),
	}

	ThemeCyberpunk = Theme{
		Name:       "cyberpunk",
		Primary:    lipgloss.Color("#ff00ff"),
		Secondary:  lipgloss.Color("#00ffff"),
		Accent:     lipgloss.Color("#ffff00"),
		Background: lipgloss.Color("#0a0a0a"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666666"),
		Star:       lipgloss.Color("#ccccff"),
		Stable:     lipgloss.Color("#00ff00"),
		Chaotic:    lipgloss.Color("#ff0000"),
	}

	ThemeRetroGreen = Theme{
		Name:       "retro",
		Primary:    lipgloss.Color("#00ff00"),
		Secondary:  lipgloss.Color("#00cc00"),
		Accent:     lipgloss.Color("#88ff88"),
		Background: lipgloss.Color("#001100"),
		Text:       lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
		Star:       lipgloss.Color("#88ff88"),
		Stable:     lipgloss.Color("#88ff88"),
		Chaotic:    lipgloss.Color("#ffff00"),
	}

	CurrentTheme = ThemeTrisolaris

	Themes = []Theme{
		ThemeTrisolaris,
		ThemeCyberpunk,
		ThemeRetroGreen,
	}
)

// GetTheme returns a theme by name, or the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeTrisolaris
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeTrisolaris
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
