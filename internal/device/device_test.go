package device

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaminmoo/chihirosctl/internal/model"
	"github.com/vitaminmoo/chihirosctl/internal/protocol"
)

// recorder is a Transport that keeps every frame it is given.
type recorder struct {
	mu     sync.Mutex
	frames [][]byte
	failAt int // 1-based; 0 never fails
	err    error
}

func (r *recorder) Send(_ context.Context, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAt > 0 && len(r.frames)+1 == r.failAt {
		return r.err
	}
	r.frames = append(r.frames, append([]byte(nil), data...))
	return nil
}

func (r *recorder) parsed(t *testing.T) []protocol.Frame {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]protocol.Frame, 0, len(r.frames))
	for _, raw := range r.frames {
		f, err := protocol.ParseFrame(raw)
		require.NoError(t, err)
		out = append(out, f)
	}
	return out
}

func newBound(name string) (*Device, *recorder) {
	tr := &recorder{}
	return New(name, WithTransport(tr)), tr
}

func TestDevice_ResolvesProfile(t *testing.T) {
	d := New("DYNWRGB12AB")
	assert.Equal(t, "WRGB II", d.Profile().Name)
	assert.Equal(t, "DYNWRGB12AB", d.Name())
	assert.False(t, d.Connected())

	pro, _ := model.Lookup("WRGB II Pro")
	d = New("aquarium", WithProfile(pro))
	assert.Equal(t, 4, d.Profile().ChannelCount())
}

func TestDevice_RGBBrightness(t *testing.T) {
	d, tr := newBound("DYNWRGB12AB")

	require.NoError(t, d.SetRGBBrightness(context.Background(), [3]int{10, 20, 30}))

	frames := tr.parsed(t)
	require.Len(t, frames, 3)
	for i, f := range frames {
		assert.Equal(t, byte(i), f.Payload[0])
	}
	assert.Equal(t, byte(10), frames[0].Payload[1])
	assert.Equal(t, byte(20), frames[1].Payload[1])
	assert.Equal(t, byte(30), frames[2].Payload[1])
}

func TestDevice_RGBBrightnessUnsupported(t *testing.T) {
	d, tr := newBound("DYNA2N0001")

	err := d.SetRGBBrightness(context.Background(), [3]int{10, 20, 30})
	require.Error(t, err)
	assert.True(t, IsUnsupported(err))
	assert.Empty(t, tr.frames)

	var ue *UnsupportedOperationError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "set-rgb-brightness", ue.Operation)
	assert.Equal(t, "A II", ue.Model)
}

func TestDevice_UnknownModelRejectsEverything(t *testing.T) {
	d, tr := newBound("JBL Flip")

	ops := []Operation{
		TurnOn{}, TurnOff{}, SetBrightness{Brightness: 10}, ResetSettings{},
		EnableAutoMode{}, SyncTime{}, SetColorTemp{Kelvin: 3000},
	}
	for _, op := range ops {
		err := d.Execute(context.Background(), op)
		assert.True(t, IsUnsupported(err), op.String())
	}
	assert.Empty(t, tr.frames)
}

func TestDevice_NotConnected(t *testing.T) {
	d := New("DYNA2N0001")

	err := d.TurnOn(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)

	// Encoding does not need a transport.
	frames, err := d.Encode(TurnOn{})
	require.NoError(t, err)
	assert.Len(t, frames, 1)
}

func TestDevice_BindUnbind(t *testing.T) {
	d := New("DYNA2N0001")
	tr := &recorder{}

	d.Bind(tr)
	assert.True(t, d.Connected())
	require.NoError(t, d.SetBrightness(context.Background(), 50))

	d.Unbind()
	assert.False(t, d.Connected())
	assert.ErrorIs(t, d.SetBrightness(context.Background(), 50), ErrNotConnected)
	assert.Len(t, tr.frames, 1)
}

func TestDevice_TransportErrorStopsSequence(t *testing.T) {
	d, tr := newBound("DYWPRO30AA")
	cause := errors.New("link lost")
	tr.failAt, tr.err = 2, cause

	err := d.TurnOn(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, byte(1), te.Frame.Payload[0])
	assert.Len(t, tr.frames, 1)
}

func TestDevice_ContextCancelled(t *testing.T) {
	d, tr := newBound("DYNA2N0001")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, d.TurnOn(ctx), context.Canceled)
	assert.Empty(t, tr.frames)
}

func TestDevice_ValidationConsumesNoID(t *testing.T) {
	seq := protocol.NewSequencer(0)
	d := New("DYNA2N0001", WithSequencer(seq), WithTransport(&recorder{}))

	err := d.SetBrightness(context.Background(), 101)
	assert.True(t, protocol.IsValidationError(err))
	assert.Equal(t, protocol.MessageID(0), seq.Peek())
}

func TestDevice_SharedSequencer(t *testing.T) {
	seq := protocol.NewSequencer(0)
	a, b := &recorder{}, &recorder{}
	d1 := New("DYNA2N0001", WithSequencer(seq), WithTransport(a))
	d2 := New("DYNC2N0002", WithSequencer(seq), WithTransport(b))

	require.NoError(t, d1.TurnOn(context.Background()))
	require.NoError(t, d2.TurnOn(context.Background()))

	assert.Equal(t, protocol.MessageID(1), a.parsed(t)[0].ID)
	assert.Equal(t, protocol.MessageID(2), b.parsed(t)[0].ID)
}

func TestDevice_ColorBrightnessChannelRange(t *testing.T) {
	d, _ := newBound("DYNWRGB12AB")

	require.NoError(t, d.SetColorBrightness(context.Background(), 2, 40))
	err := d.SetColorBrightness(context.Background(), 3, 40)
	assert.True(t, protocol.IsValidationError(err))
}

func TestDevice_WhiteBrightness(t *testing.T) {
	d, tr := newBound("DYLED0001")
	require.NoError(t, d.SetWhiteBrightness(context.Background(), 70))
	assert.Equal(t, []byte{0, 70}, tr.parsed(t)[0].Payload)

	d, tr = newBound("DYWPRO45AA")
	require.NoError(t, d.SetWhiteBrightness(context.Background(), 70))
	assert.Equal(t, []byte{3, 70}, tr.parsed(t)[0].Payload)
}

func TestDevice_RGBWBrightness(t *testing.T) {
	d, tr := newBound("DYLED0001")

	require.NoError(t, d.SetRGBWBrightness(context.Background(), [4]int{10, 20, 30, 40}))
	frames := tr.parsed(t)
	require.Len(t, frames, 4)
	// Commander 4 puts white on channel 0.
	assert.Equal(t, []byte{1, 10}, frames[0].Payload)
	assert.Equal(t, []byte{0, 40}, frames[3].Payload)
}

func TestDevice_ColorTemp(t *testing.T) {
	d, tr := newBound("DYSSD0001")
	require.NoError(t, d.SetColorTemp(context.Background(), 2000))

	frames := tr.parsed(t)
	require.Len(t, frames, 2)
	assert.Equal(t, []byte{1, 100}, frames[0].Payload, "warm")
	assert.Equal(t, []byte{0, 0}, frames[1].Payload, "white")

	_, err := New("DYNA2N0001").Encode(SetColorTemp{Kelvin: 4000})
	assert.True(t, IsUnsupported(err))
}

func TestDevice_AddSetting(t *testing.T) {
	d, tr := newBound("DYNA2N0001")

	err := d.AddSetting(context.Background(), AddSetting{
		Sunrise:    protocol.TimeOfDay{Hour: 6, Minute: 30},
		Sunset:     protocol.TimeOfDay{Hour: 20},
		Brightness: 80,
		RampUp:     15,
		Weekdays:   []protocol.Weekday{protocol.Monday, protocol.Wednesday},
	})
	require.NoError(t, err)

	f := tr.parsed(t)[0]
	assert.Equal(t, protocol.OpAutoSettings, f.Opcode)
	assert.Equal(t, byte(80), f.Payload[5])
	assert.Equal(t, byte(15), f.Payload[4])
}

func TestDevice_AddSettingUnknownWeekday(t *testing.T) {
	d, tr := newBound("DYNA2N0001")

	err := d.AddSetting(context.Background(), AddSetting{
		Sunrise:    protocol.TimeOfDay{Hour: 6},
		Sunset:     protocol.TimeOfDay{Hour: 20},
		Brightness: 80,
		Weekdays:   []protocol.Weekday{"funday"},
	})
	assert.True(t, protocol.IsValidationError(err))
	assert.Empty(t, tr.frames)

	err = d.RemoveSetting(context.Background(), RemoveSetting{
		Sunrise:  protocol.TimeOfDay{Hour: 6},
		Sunset:   protocol.TimeOfDay{Hour: 20},
		Weekdays: []protocol.Weekday{protocol.Monday, "someday"},
	})
	assert.True(t, protocol.IsValidationError(err))
	assert.Empty(t, tr.frames)
}

func TestDevice_CustomProfileCapabilities(t *testing.T) {
	odd := model.Profile{Name: "Odd", Colors: []model.Color{model.White, model.White, model.Warm}}
	tr := &recorder{}
	d := New("custom", WithProfile(odd), WithTransport(tr))

	err := d.SetRGBBrightness(context.Background(), [3]int{10, 20, 30})
	assert.True(t, IsUnsupported(err))
	assert.Empty(t, tr.frames)

	require.NoError(t, d.SetColorTemp(context.Background(), 4000))
	assert.NotEmpty(t, tr.frames)
}

func TestDevice_AddRGBSetting(t *testing.T) {
	d, tr := newBound("DYNWRGB12AB")
	s := AddRGBSetting{
		Sunrise:    protocol.TimeOfDay{Hour: 9},
		Sunset:     protocol.TimeOfDay{Hour: 21},
		Brightness: []int{100, 80, 60},
		Weekdays:   []protocol.Weekday{protocol.Everyday},
	}
	require.NoError(t, d.AddRGBSetting(context.Background(), s))
	assert.Equal(t, []byte{100, 80, 60, 0xFF}, tr.parsed(t)[0].Payload[6:10])

	s.Brightness = []int{100, 80}
	assert.True(t, protocol.IsValidationError(d.AddRGBSetting(context.Background(), s)))

	_, err := New("DYNA2N0001").Encode(s)
	assert.True(t, IsUnsupported(err))
}

func TestDevice_RemoveAndReset(t *testing.T) {
	d, tr := newBound("DYNA2N0001")

	require.NoError(t, d.RemoveSetting(context.Background(), RemoveSetting{
		Sunrise:  protocol.TimeOfDay{Hour: 6},
		Sunset:   protocol.TimeOfDay{Hour: 20},
		Weekdays: []protocol.Weekday{protocol.Everyday},
	}))
	require.NoError(t, d.ResetSettings(context.Background()))
	require.NoError(t, d.EnableAutoMode(context.Background()))

	frames := tr.parsed(t)
	require.Len(t, frames, 3)
	for _, b := range frames[0].Payload[6:] {
		assert.Equal(t, byte(0xFF), b)
	}
	assert.Equal(t, []byte{0x05, 0xFF, 0xFF}, frames[1].Payload)
	assert.Equal(t, []byte{0x12, 0xFF, 0xFF}, frames[2].Payload)
}

func TestDevice_SyncTime(t *testing.T) {
	d, tr := newBound("DYNA2N0001")
	at := time.Date(2024, time.March, 13, 7, 5, 9, 0, time.Local)

	require.NoError(t, d.SyncTime(context.Background(), at))
	f := tr.parsed(t)[0]
	assert.Equal(t, protocol.ModeSetTime, f.Mode)
	assert.Equal(t, []byte{24, 3, 3, 7, 5, 9}, f.Payload)
}

func TestDevice_TurnOffAllChannels(t *testing.T) {
	d, tr := newBound("DYU920ABCD")
	require.NoError(t, d.TurnOff(context.Background()))

	frames := tr.parsed(t)
	require.Len(t, frames, 4)
	for i, f := range frames {
		assert.Equal(t, []byte{byte(i), 0}, f.Payload)
	}
}

func TestPercentFrom255(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 0}, {255, 100}, {128, 50}, {1, 0}, {-5, 0}, {300, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PercentFrom255(tt.in), "input %d", tt.in)
	}
}
