package tui

import "github.com/charmbracelet/lipgloss"

var (
	heroAccentColor = lipgloss.Color("#ff8c00")
	heroEmberColor  = lipgloss.Color("#2b1400")
	heroTextColor   = lipgloss.Color("#fff4d0")
)

type theme struct {
	name string

	title         lipgloss.Style
	tagline       lipgloss.Style
	sectionHeader lipgloss.Style
	helper        lipgloss.Style
	err           lipgloss.Style
	success       lipgloss.Style
	info          lipgloss.Style
	paperTitle    lipgloss.Style
	stepActive    lipgloss.Style
	stepDone      lipgloss.Style
	stepPending   lipgloss.Style
	stepDisabled  lipgloss.Style
	navBar        lipgloss.Style
	key           lipgloss.Style
	keyDesc       lipgloss.Style
	cursorLine    lipgloss.Style
	box           lipgloss.Style
	overlayBox    lipgloss.Style
	confirmBox    lipgloss.Style
	busy          lipgloss.Style
}

func newTheme(dark bool) theme {
	if dark {
		return theme{
			name:          "dark",
			title:         lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroEmberColor).Padding(0, 1),
			tagline:       lipgloss.NewStyle().Foreground(lipgloss.Color("#ffb347")).Italic(true),
			sectionHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
			helper:        lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
			err:           lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			success:       lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
			info:          lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
			paperTitle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e0def4")),
			stepActive:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(heroAccentColor).Padding(0, 1),
			stepDone:      lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c")).Padding(0, 1),
			stepPending:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 1),
			stepDisabled:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1),
			navBar:        lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4")).Background(lipgloss.Color("#393552")).Padding(0, 1),
			key:           lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1),
			keyDesc:       lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4")),
			cursorLine:    lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")),
			box:           lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1),
			overlayBox:    lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(1, 2),
			confirmBox:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("114")).Padding(0, 1),
			busy:          lipgloss.NewStyle().Foreground(heroAccentColor),
		}
	}
	return theme{
		name:          "light",
		title:         lipgloss.NewStyle().Bold(true).Foreground(heroEmberColor).Background(lipgloss.Color("#ffd8a8")).Padding(0, 1),
		tagline:       lipgloss.NewStyle().Foreground(lipgloss.Color("#b35c00")).Italic(true),
		sectionHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),
		helper:        lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		err:           lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		success:       lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		info:          lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		paperTitle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("17")),
		stepActive:    lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroAccentColor).Padding(0, 1),
		stepDone:      lipgloss.NewStyle().Foreground(lipgloss.Color("28")).Padding(0, 1),
		stepPending:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1),
		stepDisabled:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 1),
		navBar:        lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1),
		key:           lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1),
		keyDesc:       lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		cursorLine:    lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#bde0fe")),
		box:           lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("248")).Padding(0, 1),
		overlayBox:    lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(1, 2),
		confirmBox:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("28")).Padding(0, 1),
		busy:          lipgloss.NewStyle().Foreground(lipgloss.Color("#b35c00")),
	}
}
