package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vitaminmoo/chihirosctl/internal/ble"
	"github.com/vitaminmoo/chihirosctl/internal/config"
	"github.com/vitaminmoo/chihirosctl/internal/device"
	"github.com/vitaminmoo/chihirosctl/internal/model"
	"github.com/vitaminmoo/chihirosctl/internal/protocol"
)

// View represents different screens in the TUI.
type View int

const (
	ViewScan View = iota
	ViewDevice
)

const (
	defaultKelvin = 5000
	kelvinStep    = 250
)

// Model is the main Bubbletea model for the TUI.
type Model struct {
	ctx     context.Context
	backend Backend
	cfg     *config.File

	// State
	view       View
	cursor     int
	scanning   bool
	connecting bool
	ads        []ble.Advertisement
	errorMsg   string
	statusMsg  string

	// Connected fixture
	dev     *device.Device
	closer  io.Closer
	address string
	levels  []int // 0-255 per channel
	channel int
	kelvin  int
	bars    ChannelBars

	// Components
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	styles  Styles
}

// --- Custom messages for async operations ---

// scanResultMsg delivers the fixtures found by a scan.
type scanResultMsg struct {
	ads []ble.Advertisement
	err error
}

// connectMsg signals connection attempt result.
type connectMsg struct {
	adv    ble.Advertisement
	dev    *device.Device
	closer io.Closer
	err    error
}

// opResultMsg reports a command sent to the fixture.
type opResultMsg struct {
	op  string
	err error
}

// NewModel creates a new TUI model.
func NewModel(ctx context.Context, backend Backend, cfg *config.File) Model {
	h := help.New()
	h.ShowAll = false

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#2EC4B6"))

	return Model{
		ctx:      ctx,
		backend:  backend,
		cfg:      cfg,
		view:     ViewScan,
		scanning: true,
		kelvin:   defaultKelvin,
		keys:     DefaultKeyMap(),
		help:     h,
		spinner:  s,
		styles:   DefaultStyles(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(scanCmd(m.ctx, m.backend), m.spinner.Tick)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case scanResultMsg:
		m.scanning = false
		if msg.err != nil {
			m.errorMsg = msg.err.Error()
			return m, nil
		}
		m.errorMsg = ""
		m.ads = msg.ads
		ble.SortAdvertisements(m.ads)
		if m.cursor >= len(m.ads) {
			m.cursor = 0
		}
		return m, nil

	case connectMsg:
		m.connecting = false
		if msg.err != nil {
			m.errorMsg = msg.err.Error()
			return m, nil
		}
		m.errorMsg = ""
		m.statusMsg = ""
		m.dev = msg.dev
		m.closer = msg.closer
		m.address = msg.adv.Address
		m.channel = 0
		m.levels = make([]int, msg.dev.Profile().ChannelCount())
		m.bars = NewChannelBars(msg.dev.Profile())
		m.view = ViewDevice
		return m, nil

	case opResultMsg:
		if msg.err != nil {
			m.errorMsg = fmt.Sprintf("%s: %v", msg.op, msg.err)
			m.statusMsg = ""
			return m, nil
		}
		m.errorMsg = ""
		m.statusMsg = msg.op + ": done"
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.disconnect()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.view == ViewDevice {
		return m.handleDeviceKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.ads)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Refresh):
		if m.scanning || m.connecting {
			return m, nil
		}
		m.scanning = true
		m.errorMsg = ""
		return m, tea.Batch(scanCmd(m.ctx, m.backend), m.spinner.Tick)
	case key.Matches(msg, m.keys.Select):
		if m.scanning || m.connecting || len(m.ads) == 0 {
			return m, nil
		}
		m.connecting = true
		m.errorMsg = ""
		return m, tea.Batch(connectCmd(m.ctx, m.backend, m.ads[m.cursor]), m.spinner.Tick)
	}
	return m, nil
}

func (m Model) handleDeviceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.dev.Profile()

	switch {
	case key.Matches(msg, m.keys.Back):
		m.disconnect()
		m.view = ViewScan
		m.statusMsg = ""
		m.errorMsg = ""
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.channel > 0 {
			m.channel--
		}
	case key.Matches(msg, m.keys.Down):
		if m.channel < len(m.levels)-1 {
			m.channel++
		}

	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
		if len(m.levels) == 0 {
			return m, nil
		}
		delta := levelStep
		if key.Matches(msg, m.keys.Left) {
			delta = -levelStep
		}
		m.levels[m.channel] = stepLevel(m.levels[m.channel], delta)
		return m, m.execute(device.SetColorBrightness{
			Channel:    m.channel,
			Brightness: device.PercentFrom255(m.levels[m.channel]),
		})

	case key.Matches(msg, m.keys.On):
		for i := range m.levels {
			m.levels[i] = maxLevel
		}
		return m, m.execute(device.TurnOn{})

	case key.Matches(msg, m.keys.Off):
		for i := range m.levels {
			m.levels[i] = 0
		}
		return m, m.execute(device.TurnOff{})

	case key.Matches(msg, m.keys.Auto):
		return m, m.execute(device.EnableAutoMode{})

	case key.Matches(msg, m.keys.Clock):
		return m, m.execute(device.SyncTime{At: time.Now()})

	case key.Matches(msg, m.keys.Warmer), key.Matches(msg, m.keys.Cooler):
		if !p.Supports(model.CapColorTemp) {
			m.errorMsg = fmt.Sprintf("%s has no color temperature control", p.Name)
			return m, nil
		}
		delta := kelvinStep
		if key.Matches(msg, m.keys.Warmer) {
			delta = -kelvinStep
		}
		m.kelvin = min(max(m.kelvin+delta, protocol.MinColorTemp), protocol.MaxColorTemp)
		return m, m.execute(device.SetColorTemp{Kelvin: m.kelvin})
	}
	return m, nil
}

// execute runs op against the connected fixture in the background.
func (m Model) execute(op device.Operation) tea.Cmd {
	dev, ctx := m.dev, m.ctx
	return func() tea.Msg {
		return opResultMsg{op: op.String(), err: dev.Execute(ctx, op)}
	}
}

// disconnect releases the connected fixture, if any.
func (m *Model) disconnect() {
	if m.dev != nil {
		m.dev.Unbind()
		m.dev = nil
	}
	if m.closer != nil {
		_ = m.closer.Close()
		m.closer = nil
	}
}

// View renders the model.
func (m Model) View() string {
	var content string

	switch m.view {
	case ViewScan:
		content = m.viewScan()
	case ViewDevice:
		content = m.viewDevice()
	default:
		content = "Unknown view"
	}

	helpView := m.styles.Help.Render(m.help.View(m.keys))

	return m.styles.App.Render(
		content + "\n" + helpView,
	)
}

func (m Model) viewScan() string {
	var b strings.Builder

	b.WriteString(m.renderTitleBar("Chihiros"))
	b.WriteString("\n")

	if m.errorMsg != "" {
		b.WriteString(m.styles.Error.Render(m.errorMsg))
		b.WriteString("  ")
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("['%s' to rescan]", m.keys.Refresh.Help().Key)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.ads) == 0 && !m.scanning {
		b.WriteString(m.styles.Muted.Render("No fixtures found"))
		b.WriteString("\n")
	}

	for i, adv := range m.ads {
		title := adv.Name
		if alias, _ := aliasFor(m.cfg, adv.Address); alias != "" {
			title = fmt.Sprintf("%s (%s)", adv.Name, alias)
		}

		if i == m.cursor {
			b.WriteString(m.styles.MenuItemSelected.Render("> " + title))
		} else {
			b.WriteString(m.styles.MenuItem.Render("  " + title))
		}
		b.WriteString("\n")

		desc := fmt.Sprintf("%s  %d dBm  %s", adv.Address, adv.RSSI, m.modelFor(adv).Name)
		b.WriteString(m.styles.MenuItemDim.Render(desc))
		b.WriteString("\n\n")
	}

	return b.String()
}

// modelFor returns the profile an advertisement will connect as, taking
// config overrides into account.
func (m Model) modelFor(adv ble.Advertisement) model.Profile {
	if name := modelOverride(m.cfg, adv.Address); name != "" {
		if p, ok := model.Lookup(name); ok {
			return p
		}
	}
	return adv.Model
}

func (m Model) viewDevice() string {
	var b strings.Builder
	p := m.dev.Profile()

	b.WriteString(m.renderTitleBar(m.dev.Name()))
	b.WriteString("\n\n")

	b.WriteString(m.renderField("Model", p.Name))
	b.WriteString("\n")
	b.WriteString(m.renderField("Address", m.address))
	b.WriteString("\n")
	b.WriteString(m.renderField("Supports", p.Capabilities().String()))
	b.WriteString("\n")
	if p.Supports(model.CapColorTemp) {
		b.WriteString(m.renderField("Color", fmt.Sprintf("%dK", m.kelvin)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.bars.View(m.levels, m.channel, m.styles))
	b.WriteString("\n")

	switch {
	case m.errorMsg != "":
		b.WriteString(m.styles.Error.Render(m.errorMsg))
	case m.statusMsg != "":
		b.WriteString(m.styles.Success.Render(m.statusMsg))
	}
	b.WriteString("\n")

	return b.String()
}

// renderTitleBar renders a consistent title bar with connection status.
func (m Model) renderTitleBar(title string) string {
	var parts []string

	parts = append(parts, m.styles.Title.Render(title))

	if m.scanning {
		parts = append(parts, m.spinner.View()+" "+m.styles.Warning.Render("Scanning..."))
	} else if m.connecting {
		parts = append(parts, m.spinner.View()+" "+m.styles.Warning.Render("Connecting..."))
	} else if m.dev != nil {
		parts = append(parts, m.styles.Success.Render("●"))
		parts = append(parts, m.styles.Muted.Render(m.address))
	} else {
		parts = append(parts, m.styles.StatusOffline.Render("○ Offline"))
	}

	return strings.Join(parts, "  ")
}

func (m Model) renderField(label, value string) string {
	return m.styles.Label.Render(label) + m.styles.Value.Render(value)
}

// --- Async commands for BLE operations ---

func scanCmd(ctx context.Context, backend Backend) tea.Cmd {
	return func() tea.Msg {
		ads, err := backend.Scan(ctx)
		return scanResultMsg{ads: ads, err: err}
	}
}

func connectCmd(ctx context.Context, backend Backend, adv ble.Advertisement) tea.Cmd {
	return func() tea.Msg {
		dev, closer, err := backend.Open(ctx, adv)
		if err != nil {
			return connectMsg{adv: adv, err: fmt.Errorf("connect to %s: %w", adv.Name, err)}
		}
		return connectMsg{adv: adv, dev: dev, closer: closer}
	}
}
