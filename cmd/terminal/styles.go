package main

import "github.com/charmbracelet/lipgloss"

type styles struct {
	app      lipgloss.Style
	header   lipgloss.Style
	viewport lipgloss.Style
	footer   lipgloss.Style
	inactive lipgloss.Style
	error    lipgloss.Style
	success  lipgloss.Style
	command  lipgloss.Style
	spinner  lipgloss.Style
	// markdown names the glamour style for the finished review.
	markdown string
}

type ThemeName string

const (
	ThemeCyan    ThemeName = "cyan"
	ThemeMatrix  ThemeName = "matrix"
	ThemeAmber   ThemeName = "amber"
	ThemeDracula ThemeName = "dracula"
	ThemeLight   ThemeName = "light"
)

type ThemePalette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Inactive  lipgloss.Color
	Markdown  string
}

var palettes = map[ThemeName]ThemePalette{
	ThemeCyan: {
		Primary:   lipgloss.Color("51"),
		Secondary: lipgloss.Color("33"),
		Success:   lipgloss.Color("46"),
		Error:     lipgloss.Color("196"),
		Inactive:  lipgloss.Color("240"),
		Markdown:  "dark",
	},
	ThemeMatrix: {
		Primary:   lipgloss.Color("82"),
		Secondary: lipgloss.Color("46"),
		Success:   lipgloss.Color("82"),
		Error:     lipgloss.Color("196"),
		Inactive:  lipgloss.Color("240"),
		Markdown:  "dark",
	},
	ThemeAmber: {
		Primary:   lipgloss.Color("220"),
		Secondary: lipgloss.Color("214"),
		Success:   lipgloss.Color("220"),
		Error:     lipgloss.Color("196"),
		Inactive:  lipgloss.Color("240"),
		Markdown:  "dark",
	},
	ThemeDracula: {
		Primary:   lipgloss.Color("141"),
		Secondary: lipgloss.Color("117"),
		Success:   lipgloss.Color("84"),
		Error:     lipgloss.Color("203"),
		Inactive:  lipgloss.Color("240"),
		Markdown:  "dracula",
	},
	ThemeLight: {
		Primary:   lipgloss.Color("25"),
		Secondary: lipgloss.Color("61"),
		Success:   lipgloss.Color("28"),
		Error:     lipgloss.Color("160"),
		Inactive:  lipgloss.Color("245"),
		Markdown:  "light",
	},
}

func GetTheme(theme ThemeName) styles {
	if palette, ok := palettes[theme]; ok {
		return newStylesFromPalette(palette)
	}
	return newStylesFromPalette(palettes[ThemeCyan])
}

func ListThemes() []ThemeName {
	return []ThemeName{ThemeCyan, ThemeMatrix, ThemeAmber, ThemeDracula, ThemeLight}
}

func newStylesFromPalette(p ThemePalette) styles {
	return styles{
		app: lipgloss.NewStyle().Margin(0, 1),
		header: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.Primary),
		viewport: lipgloss.NewStyle().PaddingLeft(1),
		footer: lipgloss.NewStyle().
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.Primary),
		inactive: lipgloss.NewStyle().Foreground(p.Inactive),
		error:    lipgloss.NewStyle().Foreground(p.Error).Bold(true),
		success:  lipgloss.NewStyle().Foreground(p.Success).Bold(true),
		command:  lipgloss.NewStyle().Foreground(p.Secondary).Italic(true),
		spinner:  lipgloss.NewStyle().Foreground(p.Primary),
		markdown: p.Markdown,
	}
}
