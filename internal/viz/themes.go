package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the replay view. Cold, Warm and Hot are the stops of the
// temperature ramp used for the rod strip.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
	Cold    lipgloss.Color
	Warm    lipgloss.Color
	Hot     lipgloss.Color
}

var (
	ThemeThermal = Theme{
		Name:    "thermal",
		Primary: lipgloss.Color("#ff8800"),
		Accent:  lipgloss.Color("#00ccff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Warning: lipgloss.Color("#ff4444"),
		Cold:    lipgloss.Color("#0033ff"),
		Warm:    lipgloss.Color("#ffcc00"),
		Hot:     lipgloss.Color("#ff0000"),
	}

	ThemeMono = Theme{
		Name:    "mono",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#cccccc"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Warning: lipgloss.Color("#ffaa00"),
		Cold:    lipgloss.Color("#222222"),
		Warm:    lipgloss.Color("#888888"),
		Hot:     lipgloss.Color("#ffffff"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#0077be"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Warning: lipgloss.Color("#ff4444"),
		Cold:    lipgloss.Color("#001a33"),
		Warm:    lipgloss.Color("#00a8cc"),
		Hot:     lipgloss.Color("#e0f0ff"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Primary: lipgloss.Color("#ff6b6b"),
		Accent:  lipgloss.Color("#feca57"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Warning: lipgloss.Color("#ff4757"),
		Cold:    lipgloss.Color("#2d1b2e"),
		Warm:    lipgloss.Color("#ff9ff3"),
		Hot:     lipgloss.Color("#feca57"),
	}

	Themes = []Theme{
		ThemeThermal,
		ThemeMono,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to thermal.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeThermal
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// next returns the theme after t in Themes, wrapping around.
func (t Theme) next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeThermal
}
