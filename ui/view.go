package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/watzon/pigment/color"
	"github.com/watzon/pigment/palette"
)

const (
	minSwatchWidth = 20
	maxSwatchWidth = 24
	swatchHeight   = 7
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	buttonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Padding(0, 2)
	copiedStyle = buttonStyle.Background(lipgloss.Color("28"))
	cursorStyle = lipgloss.NewStyle().Bold(true)
)

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🎨 Color Palette Generator"))
	b.WriteString("\n\n")
	b.WriteString(m.viewPalette())
	b.WriteString("\n")

	if m.CodeVisible() {
		b.WriteString("\n")
		b.WriteString(m.viewCode())
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) swatchWidth() int {
	if m.width == 0 {
		return maxSwatchWidth
	}
	w := (m.width - 2) / palette.Size
	return max(minSwatchWidth, min(maxSwatchWidth, w))
}

func (m Model) viewPalette() string {
	width := m.swatchWidth()
	cards := make([]string, palette.Size)
	markers := make([]string, palette.Size)

	for i, c := range m.ctrl.Colors() {
		cards[i] = swatch(c, m.ctrl.IsLocked(i), width)

		marker := fmt.Sprintf("%d", i+1)
		if i == m.cursor {
			marker = "▲ " + marker
		}
		markers[i] = cursorStyle.Width(width).Align(lipgloss.Center).Render(marker)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
		lipgloss.JoinHorizontal(lipgloss.Top, markers...),
	)
}

// swatch renders one color card with its hex, RGB and lock indicator
func swatch(c color.Color, locked bool, width int) string {
	fg := lipgloss.Color("#FFFFFF")
	if color.IsLight(c) {
		fg = lipgloss.Color("#000000")
	}

	lock := ""
	if locked {
		lock = "🔒"
	}

	body := strings.Join([]string{
		lock,
		"",
		c.Hex(),
		fmt.Sprintf("RGB(%d, %d, %d)", c.R, c.G, c.B),
	}, "\n")

	return lipgloss.NewStyle().
		Background(lipgloss.Color(c.Hex())).
		Foreground(fg).
		Width(width).
		Height(swatchHeight).
		Align(lipgloss.Center).
		Render(body)
}

func (m Model) viewCode() string {
	button := buttonStyle.Render(copyLabel)
	if m.copied {
		button = copiedStyle.Render(copiedLabel)
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render(strings.ToUpper(string(m.codeFormat))),
		" ",
		button,
	)
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", m.code))
}
