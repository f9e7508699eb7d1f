// Package device is the command surface for a single Chihiros fixture. It
// checks each operation against the fixture's model, encodes it into frames
// and hands the bytes to a Transport.
package device

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vitaminmoo/chihirosctl/internal/logging"
	"github.com/vitaminmoo/chihirosctl/internal/model"
	"github.com/vitaminmoo/chihirosctl/internal/protocol"
)

// Transport delivers raw frames to a fixture.
type Transport interface {
	Send(ctx context.Context, data []byte) error
}

// Device is one fixture. Execute calls are serialized, so frames from
// different operations never interleave on the wire.
type Device struct {
	mu        sync.Mutex
	name      string
	profile   model.Profile
	seq       *protocol.Sequencer
	enc       *protocol.Encoder
	transport Transport
	log       *zap.Logger
}

// Option configures a Device.
type Option func(*Device)

// WithProfile overrides the model resolved from the advertised name.
func WithProfile(p model.Profile) Option {
	return func(d *Device) { d.profile = p }
}

// WithSequencer shares a message ID sequencer between devices.
func WithSequencer(seq *protocol.Sequencer) Option {
	return func(d *Device) { d.seq = seq }
}

// WithTransport binds a transport at construction.
func WithTransport(t Transport) Option {
	return func(d *Device) { d.transport = t }
}

// WithLogger sets the logger. The default is a child of the global logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Device) { d.log = l }
}

// New creates a device for the fixture advertising name.
func New(name string, opts ...Option) *Device {
	d := &Device{
		name:    name,
		profile: model.Resolve(name),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.seq == nil {
		d.seq = protocol.NewSequencer(0)
	}
	if d.log == nil {
		d.log = logging.Named("device")
	}
	d.log = d.log.With(zap.String("device", name), zap.String("model", d.profile.Name))
	d.enc = protocol.NewEncoder(d.seq)
	return d
}

// Name returns the advertised name.
func (d *Device) Name() string { return d.name }

// Profile returns the fixture model.
func (d *Device) Profile() model.Profile { return d.profile }

// Bind attaches a transport, replacing any previous one.
func (d *Device) Bind(t Transport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.transport = t
}

// Unbind detaches the transport.
func (d *Device) Unbind() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.transport = nil
}

// Connected reports whether a transport is bound.
func (d *Device) Connected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transport != nil
}

// Encode checks op against the model and builds its frames without sending
// them. Message IDs are consumed.
func (d *Device) Encode(op Operation) ([]protocol.Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.encode(op)
}

func (d *Device) encode(op Operation) ([]protocol.Frame, error) {
	if !d.profile.Supports(op.Capability()) {
		return nil, &UnsupportedOperationError{Operation: op.String(), Model: d.profile.Name}
	}
	return op.encode(d.enc, d.profile)
}

// Execute encodes op and sends its frames in order. It stops at the first
// transport failure or when ctx is done.
func (d *Device) Execute(ctx context.Context, op Operation) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.transport == nil {
		return ErrNotConnected
	}

	frames, err := d.encode(op)
	if err != nil {
		return err
	}

	for _, f := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw := f.Bytes()
		d.log.Debug("sending frame",
			zap.Stringer("op", op),
			zap.Stringer("id", f.ID),
			logging.Hex("frame", raw),
		)
		if err := d.transport.Send(ctx, raw); err != nil {
			d.log.Warn("send failed", zap.Stringer("op", op), zap.Error(err))
			return &TransportError{Frame: f, Err: err}
		}
	}
	return nil
}

func (d *Device) TurnOn(ctx context.Context) error {
	return d.Execute(ctx, TurnOn{})
}

func (d *Device) TurnOff(ctx context.Context) error {
	return d.Execute(ctx, TurnOff{})
}

func (d *Device) SetBrightness(ctx context.Context, brightness int) error {
	return d.Execute(ctx, SetBrightness{Brightness: brightness})
}

func (d *Device) SetColorBrightness(ctx context.Context, channel, brightness int) error {
	return d.Execute(ctx, SetColorBrightness{Channel: channel, Brightness: brightness})
}

func (d *Device) SetRGBBrightness(ctx context.Context, rgb [3]int) error {
	return d.Execute(ctx, SetRGBBrightness{Brightness: rgb})
}

func (d *Device) SetRGBWBrightness(ctx context.Context, rgbw [4]int) error {
	return d.Execute(ctx, SetRGBWBrightness{Brightness: rgbw})
}

func (d *Device) SetWhiteBrightness(ctx context.Context, brightness int) error {
	return d.Execute(ctx, SetWhiteBrightness{Brightness: brightness})
}

func (d *Device) SetColorTemp(ctx context.Context, kelvin int) error {
	return d.Execute(ctx, SetColorTemp{Kelvin: kelvin})
}

func (d *Device) AddSetting(ctx context.Context, s AddSetting) error {
	return d.Execute(ctx, s)
}

func (d *Device) AddRGBSetting(ctx context.Context, s AddRGBSetting) error {
	return d.Execute(ctx, s)
}

func (d *Device) RemoveSetting(ctx context.Context, s RemoveSetting) error {
	return d.Execute(ctx, s)
}

func (d *Device) ResetSettings(ctx context.Context) error {
	return d.Execute(ctx, ResetSettings{})
}

func (d *Device) EnableAutoMode(ctx context.Context) error {
	return d.Execute(ctx, EnableAutoMode{})
}

// SyncTime sets the device clock to t.
func (d *Device) SyncTime(ctx context.Context, t time.Time) error {
	return d.Execute(ctx, SyncTime{At: t})
}

// PercentFrom255 converts a 0-255 level to the 0-100 scale the fixture uses,
// truncating. Out of range input is clamped.
func PercentFrom255(v int) int {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return v * 100 / 255
}
