package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/vitaminmoo/chihirosctl/internal/ble"
	"github.com/vitaminmoo/chihirosctl/internal/device"
	"github.com/vitaminmoo/chihirosctl/internal/model"
	"github.com/vitaminmoo/chihirosctl/internal/protocol"
	"github.com/vitaminmoo/chihirosctl/internal/util"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Padding(0, 1).
			Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"})
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// ListDevices scans and prints every named device seen.
func ListDevices(ctx context.Context, w io.Writer, timeout time.Duration) error {
	advs, err := ble.Scan(ctx, timeout)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Discovered the following devices:")
	fmt.Fprintln(w, RenderAdvertisements(advs))
	return nil
}

// RenderAdvertisements formats scan results as a table.
func RenderAdvertisements(advs []ble.Advertisement) string {
	t := newTable("Name", "Address", "Model", "RSSI")
	for _, a := range advs {
		name := "???"
		if a.Model.Known() {
			name = a.Model.Name
		}
		t.Row(a.Name, a.Address, name, strconv.Itoa(int(a.RSSI)))
	}
	return t.Render()
}

// RenderModels formats the model registry as a table.
func RenderModels(profiles []model.Profile) string {
	t := newTable("Model", "Codes", "Channels", "Capabilities")
	for _, p := range profiles {
		colors := make([]string, len(p.Colors))
		for i, c := range p.Colors {
			colors[i] = fmt.Sprintf("%d:%s", i, c)
		}
		t.Row(p.Name, strings.Join(p.Codes, " "), strings.Join(colors, " "), p.Capabilities().String())
	}
	return t.Render()
}

// RenderFrames formats frames one per row with their wire bytes.
func RenderFrames(frames []protocol.Frame) string {
	t := newTable("ID", "Opcode", "Mode", "Payload", "Bytes").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 4:
				return mutedStyle
			default:
				return cellStyle
			}
		})
	for _, f := range frames {
		t.Row(
			f.ID.String(),
			fmt.Sprintf("%02X", f.Opcode),
			fmt.Sprintf("%02X", f.Mode),
			util.HexBytes(f.Payload),
			util.HexBytes(f.Bytes()),
		)
	}
	return t.Render()
}

// Encode prints the frames op would send to a fixture of the given model,
// without connecting. modelName may be a model name, code or advertised name.
func Encode(w io.Writer, modelName string, op device.Operation) error {
	p, ok := model.Lookup(modelName)
	if !ok {
		p = model.Resolve(modelName)
	}
	if !p.Known() {
		return fmt.Errorf("unknown model %q", modelName)
	}

	frames, err := device.New(modelName, device.WithProfile(p)).Encode(op)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s on %s:\n", op, p.Name)
	fmt.Fprintln(w, RenderFrames(frames))
	return nil
}
