package tui

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaminmoo/chihirosctl/internal/ble"
	"github.com/vitaminmoo/chihirosctl/internal/config"
	"github.com/vitaminmoo/chihirosctl/internal/device"
	"github.com/vitaminmoo/chihirosctl/internal/model"
	"github.com/vitaminmoo/chihirosctl/internal/protocol"
)

type recorder struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (r *recorder) Send(_ context.Context, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, append([]byte(nil), data...))
	return nil
}

func (r *recorder) Close() error {
	r.closed = true
	return nil
}

type fakeBackend struct {
	ads     []ble.Advertisement
	scanErr error
	rec     *recorder
}

func (f *fakeBackend) Scan(context.Context) ([]ble.Advertisement, error) {
	return f.ads, f.scanErr
}

func (f *fakeBackend) Open(_ context.Context, adv ble.Advertisement) (*device.Device, io.Closer, error) {
	if !adv.Model.Known() {
		return nil, nil, errors.New("not a fixture")
	}
	d := device.New(adv.Name, device.WithProfile(adv.Model), device.WithTransport(f.rec))
	return d, f.rec, nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd and returns every message it produces, flattening batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// drive feeds msg to m and then every non-tick message its commands produce.
func drive(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	for _, out := range collect(cmd) {
		switch out.(type) {
		case scanResultMsg, connectMsg, opResultMsg:
			m = drive(t, m, out)
		}
	}
	return m
}

func newTestModel(t *testing.T, ads ...ble.Advertisement) (Model, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{ads: ads, rec: &recorder{}}
	m := NewModel(context.Background(), backend, config.New())
	for _, out := range collect(m.Init()) {
		if _, ok := out.(scanResultMsg); ok {
			m = drive(t, m, out)
		}
	}
	require.False(t, m.scanning)
	return m, backend
}

func advertise(name, address string) ble.Advertisement {
	return ble.Advertisement{Name: name, Address: address, RSSI: -60, Model: model.Resolve(name)}
}

func TestScanListsKnownFixturesFirst(t *testing.T) {
	m, _ := newTestModel(t,
		advertise("SomethingElse", "00:00:00:00:00:01"),
		advertise("DYNWRGB1234", "00:00:00:00:00:02"),
	)

	require.Len(t, m.ads, 2)
	assert.Equal(t, "DYNWRGB1234", m.ads[0].Name)
	assert.Contains(t, m.View(), "WRGB II")
	assert.Contains(t, m.View(), "SomethingElse")
}

func TestScanError(t *testing.T) {
	backend := &fakeBackend{scanErr: errors.New("adapter off"), rec: &recorder{}}
	m := NewModel(context.Background(), backend, config.New())
	m = drive(t, m, scanResultMsg{err: backend.scanErr})

	assert.Equal(t, "adapter off", m.errorMsg)
	assert.Contains(t, m.View(), "adapter off")
}

func TestConnectAndAdjustLevel(t *testing.T) {
	m, backend := newTestModel(t, advertise("DYNWRGB1234", "00:00:00:00:00:02"))

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewDevice, m.view)
	require.Len(t, m.levels, 3)

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, levelStep, m.levels[1])
	assert.Equal(t, "set-color-brightness: done", m.statusMsg)

	require.Len(t, backend.rec.frames, 1)
	raw := backend.rec.frames[0]
	assert.Equal(t, byte(1), raw[6], "channel")
	assert.Equal(t, byte(device.PercentFrom255(levelStep)), raw[7], "brightness")
}

func TestLevelClampsAtZero(t *testing.T) {
	m, _ := newTestModel(t, advertise("DYNA2", "00:00:00:00:00:03"))
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.levels[0])
}

func TestOnOffUpdatesEveryChannel(t *testing.T) {
	m, backend := newTestModel(t, advertise("DYWPRO30", "00:00:00:00:00:04"))
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = drive(t, m, runes("o"))
	assert.Equal(t, []int{maxLevel, maxLevel, maxLevel, maxLevel}, m.levels)
	assert.Len(t, backend.rec.frames, 4)

	m = drive(t, m, runes("f"))
	assert.Equal(t, []int{0, 0, 0, 0}, m.levels)
	assert.Len(t, backend.rec.frames, 8)
}

func TestColorTempRequiresCapability(t *testing.T) {
	m, backend := newTestModel(t, advertise("DYNA2", "00:00:00:00:00:03"))
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = drive(t, m, runes("["))
	assert.Contains(t, m.errorMsg, "no color temperature")
	assert.Empty(t, backend.rec.frames)
}

func TestColorTempSteps(t *testing.T) {
	m, backend := newTestModel(t, advertise("DYSSD", "00:00:00:00:00:05"))
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = drive(t, m, runes("["))
	assert.Equal(t, defaultKelvin-kelvinStep, m.kelvin)
	assert.NotEmpty(t, backend.rec.frames)
	assert.Contains(t, m.View(), "4750K")

	for i := 0; i < 20; i++ {
		m = drive(t, m, runes("]"))
	}
	assert.Equal(t, protocol.MaxColorTemp, m.kelvin)
	assert.Empty(t, m.errorMsg)
}

func TestBackDisconnects(t *testing.T) {
	m, backend := newTestModel(t, advertise("DYNA2", "00:00:00:00:00:03"))
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	dev := m.dev

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewScan, m.view)
	assert.Nil(t, m.dev)
	assert.True(t, backend.rec.closed)
	assert.False(t, dev.Connected())
}

func TestConnectFailureStaysOnScan(t *testing.T) {
	m, _ := newTestModel(t, advertise("SomethingElse", "00:00:00:00:00:01"))
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ViewScan, m.view)
	assert.Contains(t, m.errorMsg, "not a fixture")
}

func TestAliasShownInScan(t *testing.T) {
	backend := &fakeBackend{rec: &recorder{}}
	cfg := config.New()
	require.NoError(t, cfg.SetDevice("tank", "00:00:00:00:00:09", "C II RGB"))

	m := NewModel(context.Background(), backend, cfg)
	m = drive(t, m, scanResultMsg{ads: []ble.Advertisement{advertise("Mystery", "00:00:00:00:00:09")}})

	view := m.View()
	assert.Contains(t, view, "Mystery (tank)")
	assert.Contains(t, view, "C II RGB")
}

func TestStepLevel(t *testing.T) {
	assert.Equal(t, 0, stepLevel(5, -16))
	assert.Equal(t, maxLevel, stepLevel(250, 16))
	assert.Equal(t, 32, stepLevel(16, 16))
}
