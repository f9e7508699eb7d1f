package device

import (
	"fmt"
	"time"

	"github.com/vitaminmoo/chihirosctl/internal/model"
	"github.com/vitaminmoo/chihirosctl/internal/protocol"
)

// Operation is one user-level command. The set is closed; the concrete types
// are the exported structs in this file.
type Operation interface {
	// Capability is what the fixture must support to accept the operation.
	Capability() model.Capability
	String() string

	encode(enc *protocol.Encoder, p model.Profile) ([]protocol.Frame, error)
}

// TurnOn drives every channel to full brightness.
type TurnOn struct{}

// TurnOff drives every channel to zero.
type TurnOff struct{}

// SetBrightness sets the first channel.
type SetBrightness struct {
	Brightness int
}

// SetColorBrightness sets one channel by index.
type SetColorBrightness struct {
	Channel    int
	Brightness int
}

// SetRGBBrightness sets the red, green and blue channels.
type SetRGBBrightness struct {
	Brightness [3]int
}

// SetRGBWBrightness sets the red, green, blue and white channels.
type SetRGBWBrightness struct {
	Brightness [4]int
}

// SetWhiteBrightness sets the white channel.
type SetWhiteBrightness struct {
	Brightness int
}

// SetColorTemp approximates a color temperature in kelvin.
type SetColorTemp struct {
	Kelvin int
}

// AddSetting stores a single-level auto-mode program.
type AddSetting struct {
	Sunrise    protocol.TimeOfDay
	Sunset     protocol.TimeOfDay
	Brightness int
	RampUp     int
	Weekdays   []protocol.Weekday
}

// AddRGBSetting stores an auto-mode program with one level per channel.
type AddRGBSetting struct {
	Sunrise    protocol.TimeOfDay
	Sunset     protocol.TimeOfDay
	Brightness []int
	RampUp     int
	Weekdays   []protocol.Weekday
}

// RemoveSetting deletes the program with matching times, ramp-up and days.
type RemoveSetting struct {
	Sunrise  protocol.TimeOfDay
	Sunset   protocol.TimeOfDay
	RampUp   int
	Weekdays []protocol.Weekday
}

// ResetSettings deletes every stored program.
type ResetSettings struct{}

// EnableAutoMode runs the stored programs.
type EnableAutoMode struct{}

// SyncTime sets the device clock to At, or to the current time if At is zero.
type SyncTime struct {
	At time.Time
}

func (TurnOn) Capability() model.Capability             { return model.CapPower }
func (TurnOff) Capability() model.Capability            { return model.CapPower }
func (SetBrightness) Capability() model.Capability      { return model.CapBrightness }
func (SetColorBrightness) Capability() model.Capability { return model.CapColorBrightness }
func (SetRGBBrightness) Capability() model.Capability   { return model.CapRGB }
func (SetRGBWBrightness) Capability() model.Capability  { return model.CapRGBW }
func (SetWhiteBrightness) Capability() model.Capability { return model.CapWhiteBrightness }
func (SetColorTemp) Capability() model.Capability       { return model.CapColorTemp }
func (AddSetting) Capability() model.Capability         { return model.CapSchedule }
func (AddRGBSetting) Capability() model.Capability      { return model.CapRGBSchedule }
func (RemoveSetting) Capability() model.Capability      { return model.CapSchedule }
func (ResetSettings) Capability() model.Capability      { return model.CapSchedule }
func (EnableAutoMode) Capability() model.Capability     { return model.CapAutoMode }
func (SyncTime) Capability() model.Capability           { return model.CapClock }

func (TurnOn) String() string             { return "turn-on" }
func (TurnOff) String() string            { return "turn-off" }
func (SetBrightness) String() string      { return "set-brightness" }
func (SetColorBrightness) String() string { return "set-color-brightness" }
func (SetRGBBrightness) String() string   { return "set-rgb-brightness" }
func (SetRGBWBrightness) String() string  { return "set-rgbw-brightness" }
func (SetWhiteBrightness) String() string { return "set-white-brightness" }
func (SetColorTemp) String() string       { return "set-color-temp" }
func (AddSetting) String() string         { return "add-setting" }
func (AddRGBSetting) String() string      { return "add-rgb-setting" }
func (RemoveSetting) String() string      { return "remove-setting" }
func (ResetSettings) String() string      { return "reset-settings" }
func (EnableAutoMode) String() string     { return "enable-auto-mode" }
func (SyncTime) String() string           { return "sync-time" }

func (TurnOn) encode(enc *protocol.Encoder, p model.Profile) ([]protocol.Frame, error) {
	return enc.TurnOn(p.Channels()...), nil
}

func (TurnOff) encode(enc *protocol.Encoder, p model.Profile) ([]protocol.Frame, error) {
	return enc.TurnOff(p.Channels()...), nil
}

func (op SetBrightness) encode(enc *protocol.Encoder, _ model.Profile) ([]protocol.Frame, error) {
	return single(enc.Brightness(op.Brightness))
}

func (op SetColorBrightness) encode(enc *protocol.Encoder, p model.Profile) ([]protocol.Frame, error) {
	if op.Channel < 0 || op.Channel >= p.ChannelCount() {
		return nil, &protocol.ValidationError{Field: "channel", Value: op.Channel, Min: 0, Max: p.ChannelCount() - 1}
	}
	return single(enc.ColorBrightness(byte(op.Channel), op.Brightness))
}

func (op SetRGBBrightness) encode(enc *protocol.Encoder, p model.Profile) ([]protocol.Frame, error) {
	chs, err := channels(p, model.Red, model.Green, model.Blue)
	if err != nil {
		return nil, err
	}
	return enc.RGBBrightness(protocol.RGBChannels{chs[0], chs[1], chs[2]}, op.Brightness)
}

func (op SetRGBWBrightness) encode(enc *protocol.Encoder, p model.Profile) ([]protocol.Frame, error) {
	chs, err := channels(p, model.Red, model.Green, model.Blue, model.White)
	if err != nil {
		return nil, err
	}
	return enc.RGBWBrightness(protocol.RGBWChannels{chs[0], chs[1], chs[2], chs[3]}, op.Brightness)
}

func (op SetWhiteBrightness) encode(enc *protocol.Encoder, p model.Profile) ([]protocol.Frame, error) {
	chs, err := channels(p, model.White)
	if err != nil {
		return nil, err
	}
	return single(enc.WhiteBrightness(chs[0], op.Brightness))
}

// On RGBW fixtures the white channel is left untouched.
func (op SetColorTemp) encode(enc *protocol.Encoder, p model.Profile) ([]protocol.Frame, error) {
	if p.Supports(model.CapRGB) || p.Supports(model.CapRGBW) {
		chs, err := channels(p, model.Red, model.Green, model.Blue)
		if err != nil {
			return nil, err
		}
		return enc.ColorTemp(op.Kelvin, protocol.RGBChannels{chs[0], chs[1], chs[2]})
	}
	chs, err := channels(p, model.Warm, model.White)
	if err != nil {
		return nil, err
	}
	return enc.ColorTemp(op.Kelvin, protocol.WarmCoolChannels{Warm: chs[0], Cool: chs[1]})
}

func (op AddSetting) encode(enc *protocol.Encoder, _ model.Profile) ([]protocol.Frame, error) {
	return single(enc.AddSetting(protocol.Setting{
		Sunrise:    op.Sunrise,
		Sunset:     op.Sunset,
		RampUp:     op.RampUp,
		Weekdays:   op.Weekdays,
		Brightness: []int{op.Brightness},
	}))
}

func (op AddRGBSetting) encode(enc *protocol.Encoder, p model.Profile) ([]protocol.Frame, error) {
	if n := len(op.Brightness); n != p.ChannelCount() {
		return nil, &protocol.ValidationError{Field: "channel count", Value: n, Min: p.ChannelCount(), Max: p.ChannelCount()}
	}
	return single(enc.AddSetting(protocol.Setting{
		Sunrise:    op.Sunrise,
		Sunset:     op.Sunset,
		RampUp:     op.RampUp,
		Weekdays:   op.Weekdays,
		Brightness: op.Brightness,
	}))
}

func (op RemoveSetting) encode(enc *protocol.Encoder, _ model.Profile) ([]protocol.Frame, error) {
	return single(enc.RemoveSetting(protocol.Setting{
		Sunrise:  op.Sunrise,
		Sunset:   op.Sunset,
		RampUp:   op.RampUp,
		Weekdays: op.Weekdays,
	}))
}

func (ResetSettings) encode(enc *protocol.Encoder, _ model.Profile) ([]protocol.Frame, error) {
	return []protocol.Frame{enc.ResetSettings()}, nil
}

func (EnableAutoMode) encode(enc *protocol.Encoder, _ model.Profile) ([]protocol.Frame, error) {
	return []protocol.Frame{enc.EnableAutoMode()}, nil
}

func (op SyncTime) encode(enc *protocol.Encoder, _ model.Profile) ([]protocol.Frame, error) {
	at := op.At
	if at.IsZero() {
		at = time.Now()
	}
	return []protocol.Frame{enc.SetTime(at)}, nil
}

func single(f protocol.Frame, err error) ([]protocol.Frame, error) {
	if err != nil {
		return nil, err
	}
	return []protocol.Frame{f}, nil
}

// channels looks up the wire index of each color.
func channels(p model.Profile, colors ...model.Color) ([]byte, error) {
	out := make([]byte, len(colors))
	for i, c := range colors {
		ch, ok := p.Channel(c)
		if !ok {
			return nil, fmt.Errorf("%s has no %s channel", p.Name, c)
		}
		out[i] = ch
	}
	return out, nil
}
