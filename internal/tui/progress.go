package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/vitaminmoo/chihirosctl/internal/device"
	"github.com/vitaminmoo/chihirosctl/internal/model"
)

// maxLevel is the top of the 8-bit scale the TUI adjusts levels on.
const maxLevel = 255

// levelStep is one left/right key press.
const levelStep = 16

var channelColors = map[model.Color]string{
	model.White: "#F5F5F5",
	model.Warm:  "#FFB347",
	model.Red:   "#FF5F5F",
	model.Green: "#5FFF87",
	model.Blue:  "#5F87FF",
}

// ChannelBars renders one bar per fixture channel.
type ChannelBars struct {
	colors []model.Color
	bars   []progress.Model
}

// NewChannelBars creates a bar for each channel of p, tinted with its color.
func NewChannelBars(p model.Profile) ChannelBars {
	cb := ChannelBars{colors: p.Colors}
	for _, c := range p.Colors {
		cb.bars = append(cb.bars, progress.New(
			progress.WithSolidFill(channelColors[c]),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		))
	}
	return cb
}

// View renders the bars for levels on the 0-255 scale. The selected channel
// is marked.
func (cb ChannelBars) View(levels []int, selected int, styles Styles) string {
	var b strings.Builder
	for i, bar := range cb.bars {
		label := fmt.Sprintf("%d %s", i, cb.colors[i])
		cursor := "  "
		if i == selected {
			cursor = "> "
			label = styles.Highlight.Render(label)
		}
		level := 0
		if i < len(levels) {
			level = levels[i]
		}
		b.WriteString(cursor)
		b.WriteString(styles.Label.Render(label))
		b.WriteString(bar.ViewAs(float64(level) / maxLevel))
		b.WriteString(lipgloss.NewStyle().Width(6).Align(lipgloss.Right).
			Render(fmt.Sprintf("%d%%", device.PercentFrom255(level))))
		b.WriteString("\n")
	}
	return b.String()
}

// stepLevel moves level by delta, staying within 0-255.
func stepLevel(level, delta int) int {
	level += delta
	if level < 0 {
		return 0
	}
	if level > maxLevel {
		return maxLevel
	}
	return level
}
