package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/artframe/internal/config"
	"github.com/muurk/artframe/internal/version"
)

// Application branding constants
const (
	AppName = "ARTFRAME CONTROL PANEL"
	Tagline = "AI art for your TV"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 72 // Minimum supported terminal width
	MinGalleryHeight = 6  // Rows kept for the gallery list
)

// Palette is one colour scheme. The panel switches between two.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Text       lipgloss.Color
	Subtle     lipgloss.Color
	Border     lipgloss.Color
	Highlight  lipgloss.Color
	Background lipgloss.Color
}

var (
	DarkPalette = Palette{
		Primary:    lipgloss.Color("#7D56F4"), // Purple
		Secondary:  lipgloss.Color("#43BF6D"), // Green
		Warning:    lipgloss.Color("#FFA500"), // Orange
		Error:      lipgloss.Color("#FF5555"), // Red
		Text:       lipgloss.Color("#FFFFFF"),
		Subtle:     lipgloss.Color("#626262"),
		Border:     lipgloss.Color("#7D56F4"),
		Highlight:  lipgloss.Color("#43BF6D"),
		Background: lipgloss.Color("#1A1A1A"),
	}

	LightPalette = Palette{
		Primary:    lipgloss.Color("#5A3FC0"),
		Secondary:  lipgloss.Color("#1E8C45"),
		Warning:    lipgloss.Color("#B36B00"),
		Error:      lipgloss.Color("#C62828"),
		Text:       lipgloss.Color("#1A1A1A"),
		Subtle:     lipgloss.Color("#8A8A8A"),
		Border:     lipgloss.Color("#5A3FC0"),
		Highlight:  lipgloss.Color("#1E8C45"),
		Background: lipgloss.Color("#F2F2F2"),
	}
)

// Current palette and the styles derived from it. ApplyTheme rebuilds them.
var (
	Colors Palette

	TitleStyle            lipgloss.Style
	SubtitleStyle         lipgloss.Style
	LabelStyle            lipgloss.Style
	ValueStyle            lipgloss.Style
	StatusBarStyle        lipgloss.Style
	SpinnerStyle          lipgloss.Style
	SectionStyle          lipgloss.Style
	FocusedSectionStyle   lipgloss.Style
	FocusedInputStyle     lipgloss.Style
	BlurredInputStyle     lipgloss.Style
	SuccessBoxStyle       lipgloss.Style
	ErrorBoxStyle         lipgloss.Style
	WarningBoxStyle       lipgloss.Style
	NotificationStyle     lipgloss.Style
	SelectedListItemStyle lipgloss.Style
	ListItemStyle         lipgloss.Style
)

func init() {
	ApplyTheme(config.ThemeDark)
}

// PaletteFor returns the palette for mode. Unknown modes get the dark one.
func PaletteFor(mode config.ThemeMode) Palette {
	if mode == config.ThemeLight {
		return LightPalette
	}
	return DarkPalette
}

// ApplyTheme switches every style to the palette for mode.
func ApplyTheme(mode config.ThemeMode) {
	p := PaletteFor(mode)
	Colors = p

	TitleStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true).
		MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(p.Subtle).
		Italic(true)

	LabelStyle = lipgloss.NewStyle().
		Foreground(p.Subtle).
		Width(12)

	ValueStyle = lipgloss.NewStyle().
		Foreground(p.Text)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(p.Text).
		Background(p.Background).
		Padding(0, 1)

	SpinnerStyle = lipgloss.NewStyle().
		Foreground(p.Primary)

	SectionStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Subtle).
		Padding(0, 1)

	FocusedSectionStyle = SectionStyle.
		BorderForeground(p.Primary)

	FocusedInputStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)

	BlurredInputStyle = lipgloss.NewStyle().
		Foreground(p.Subtle)

	SuccessBoxStyle = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Bold(true)

	ErrorBoxStyle = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Error).
		Padding(0, 1)

	WarningBoxStyle = lipgloss.NewStyle().
		Foreground(p.Warning).
		Bold(true).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Warning).
		Padding(0, 1)

	NotificationStyle = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Bold(true).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Secondary).
		Padding(0, 1)

	ListItemStyle = lipgloss.NewStyle().
		PaddingLeft(2).
		Foreground(p.Text)

	SelectedListItemStyle = lipgloss.NewStyle().
		Foreground(p.Highlight).
		Bold(true)
}

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderField renders a label and value on one line
func RenderField(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}

// BuildHeaderContent creates header content with app name and tagline
func BuildHeaderContent() string {
	left := lipgloss.NewStyle().
		Foreground(Colors.Text).
		Bold(true).
		Render(AppName + " v" + AppVersion())

	right := lipgloss.NewStyle().
		Foreground(Colors.Subtle).
		Render(Tagline)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// BuildFooterContent creates footer content with help text
func BuildFooterContent(helpText string) string {
	return lipgloss.NewStyle().
		Foreground(Colors.Subtle).
		Render(helpText)
}

// RenderApplicationContainer wraps every screen: header, content, and a
// footer carrying the screen's help, inside a full-terminal border.
//
//	func (m Model) View() string {
//	    content := m.buildContent()
//	    return RenderApplicationContainer(content, m.Help.View(m.Keys), m.Width, m.Height)
//	}
func RenderApplicationContainer(content string, footerText string, terminalWidth int, terminalHeight int) string {
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}
	if terminalHeight < 3 {
		terminalHeight = 3
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(Colors.Border).
		Width(terminalWidth-4). // Leave room for outer border
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(Colors.Border).
		Width(terminalWidth-4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth-4).
		Padding(0, 1)

	innerContent := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(BuildHeaderContent()),
		contentStyle.Render(content),
		footerStyle.Render(BuildFooterContent(footerText)),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(Colors.Border).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top).
		Render(innerContent)

	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Left,
		lipgloss.Top,
		bordered,
	)
}
