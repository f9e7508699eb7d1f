package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaminmoo/chihirosctl/internal/ble"
	"github.com/vitaminmoo/chihirosctl/internal/device"
	"github.com/vitaminmoo/chihirosctl/internal/model"
)

type discard struct{ n int }

func (d *discard) Send(context.Context, []byte) error {
	d.n++
	return nil
}

func TestNewDevice(t *testing.T) {
	tr := &discard{}

	d, err := NewDevice("DYNWRGB12AB", "", tr)
	require.NoError(t, err)
	assert.Equal(t, "WRGB II", d.Profile().Name)
	require.NoError(t, d.TurnOn(context.Background()))
	assert.Equal(t, 3, tr.n)

	d, err = NewDevice("Tank light", "DYWPRO30", tr)
	require.NoError(t, err)
	assert.Equal(t, "WRGB II Pro", d.Profile().Name)

	_, err = NewDevice("Tank light", "", tr)
	assert.ErrorContains(t, err, "not a recognized")

	_, err = NewDevice("DYNA2N0001", "Nonesuch", tr)
	assert.ErrorContains(t, err, "unknown model")
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, "A II", device.SetBrightness{Brightness: 80}))

	out := buf.String()
	assert.Contains(t, out, "set-brightness on A II")
	assert.Contains(t, out, "5A 01 07 00 01 07 00 50 50")
}

func TestEncode_AdvertisedName(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, "DYNWRGB12AB", device.TurnOff{}))
	assert.Contains(t, buf.String(), "turn-off on WRGB II")
}

func TestEncode_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorContains(t, Encode(&buf, "Speaker", device.TurnOn{}), "unknown model")

	err := Encode(&buf, "A II", device.SetRGBBrightness{Brightness: [3]int{1, 2, 3}})
	assert.True(t, device.IsUnsupported(err))
}

func TestRenderAdvertisements(t *testing.T) {
	out := RenderAdvertisements([]ble.Advertisement{
		{Name: "DYLED0001", Address: "C4:DE:E2:01:02:03", RSSI: -60, Model: model.Resolve("DYLED0001")},
		{Name: "Speaker", Address: "00:11:22:33:44:55", RSSI: -80, Model: model.Unknown},
	})
	assert.Contains(t, out, "Commander 4")
	assert.Contains(t, out, "???")
	assert.Contains(t, out, "-60")
}

func TestRenderModels(t *testing.T) {
	out := RenderModels(model.Profiles())
	assert.Contains(t, out, "Universal WRGB")
	assert.Contains(t, out, "0:white 1:red 2:green 3:blue")
	assert.Contains(t, out, "rgbw")
}

func TestExecute_ReportsToWriter(t *testing.T) {
	tr := &discard{}
	d, err := NewDevice("DYNA2N0001", "", tr)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Execute(context.Background(), &buf, d, device.SetBrightness{Brightness: 50}))
	assert.Equal(t, "set-brightness: done\n", buf.String())
	assert.Equal(t, 1, tr.n)

	buf.Reset()
	err = Execute(context.Background(), &buf, d, device.SetRGBBrightness{Brightness: [3]int{1, 2, 3}})
	assert.True(t, device.IsUnsupported(err))
	assert.ErrorContains(t, err, "set-rgb-brightness:")
	assert.Empty(t, buf.String())
}
