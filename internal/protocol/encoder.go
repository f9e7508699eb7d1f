package protocol

import "time"

// Mode-5 selectors
const (
	autoReset  byte = 0x05
	autoEnable byte = 0x12
)

// Level is a target brightness for one channel.
type Level struct {
	Channel    byte
	Brightness int
}

// Encoder turns commands into frames, drawing one message ID per frame.
type Encoder struct {
	seq *Sequencer
}

// NewEncoder creates an encoder that draws IDs from seq.
func NewEncoder(seq *Sequencer) *Encoder {
	return &Encoder{seq: seq}
}

// frame draws IDs until the resulting checksum is usable.
func (e *Encoder) frame(opcode, mode byte, payload []byte) Frame {
	for {
		f := BuildFrame(opcode, mode, e.seq.Next(), payload)
		if f.Checksum != ReservedByte {
			return f
		}
	}
}

// ColorBrightness sets one channel to brightness percent.
func (e *Encoder) ColorBrightness(channel byte, brightness int) (Frame, error) {
	if err := checkBrightness("brightness", brightness); err != nil {
		return Frame{}, err
	}
	return e.frame(OpControl, ModeManual, []byte{channel, byte(brightness)}), nil
}

// Brightness sets channel 0, the only channel of single-color fixtures.
func (e *Encoder) Brightness(brightness int) (Frame, error) {
	return e.ColorBrightness(0, brightness)
}

// WhiteBrightness sets the white channel of a color fixture.
func (e *Encoder) WhiteBrightness(white byte, brightness int) (Frame, error) {
	return e.ColorBrightness(white, brightness)
}

// Levels builds one manual frame per level. All levels are validated before
// the first frame is built.
func (e *Encoder) Levels(levels ...Level) ([]Frame, error) {
	for _, l := range levels {
		if err := checkBrightness("brightness", l.Brightness); err != nil {
			return nil, err
		}
	}
	frames := make([]Frame, 0, len(levels))
	for _, l := range levels {
		frames = append(frames, e.frame(OpControl, ModeManual, []byte{l.Channel, byte(l.Brightness)}))
	}
	return frames, nil
}

// TurnOn drives every given channel to full brightness.
func (e *Encoder) TurnOn(channels ...byte) []Frame {
	return e.all(channels, MaxBrightness)
}

// TurnOff drives every given channel to zero.
func (e *Encoder) TurnOff(channels ...byte) []Frame {
	return e.all(channels, MinBrightness)
}

func (e *Encoder) all(channels []byte, brightness int) []Frame {
	levels := make([]Level, len(channels))
	for i, ch := range channels {
		levels[i] = Level{Channel: ch, Brightness: brightness}
	}
	frames, _ := e.Levels(levels...)
	return frames
}

// RGBBrightness sets red, green and blue, in that order.
func (e *Encoder) RGBBrightness(ch RGBChannels, values [3]int) ([]Frame, error) {
	return e.Levels(
		Level{Channel: ch[0], Brightness: values[0]},
		Level{Channel: ch[1], Brightness: values[1]},
		Level{Channel: ch[2], Brightness: values[2]},
	)
}

// RGBWBrightness sets red, green, blue and white, in that order.
func (e *Encoder) RGBWBrightness(ch RGBWChannels, values [4]int) ([]Frame, error) {
	return e.Levels(
		Level{Channel: ch[0], Brightness: values[0]},
		Level{Channel: ch[1], Brightness: values[1]},
		Level{Channel: ch[2], Brightness: values[2]},
		Level{Channel: ch[3], Brightness: values[3]},
	)
}

// ColorTemp approximates a color temperature on target's channels.
func (e *Encoder) ColorTemp(kelvin int, target ColorTempTarget) ([]Frame, error) {
	if err := checkRange("color temperature", kelvin, MinColorTemp, MaxColorTemp); err != nil {
		return nil, err
	}
	return e.Levels(target.colorTempLevels(kelvin)...)
}

// AddSetting stores an auto-mode program on the device.
func (e *Encoder) AddSetting(s Setting) (Frame, error) {
	if err := s.validate(); err != nil {
		return Frame{}, err
	}
	if len(s.Brightness) == 0 {
		return Frame{}, &ValidationError{Field: "channel count", Value: 0, Min: 1, Max: MaxSettingChannels}
	}
	return e.frame(OpAutoSettings, ModeSetting, s.payload()), nil
}

// RemoveSetting deletes the program matching the setting's times, ramp-up and
// weekdays. Brightness is ignored.
func (e *Encoder) RemoveSetting(s Setting) (Frame, error) {
	s.Brightness = nil
	if err := s.validate(); err != nil {
		return Frame{}, err
	}
	return e.frame(OpAutoSettings, ModeSetting, s.payload()), nil
}

// ResetSettings deletes every stored program.
func (e *Encoder) ResetSettings() Frame {
	return e.frame(OpControl, ModeAuto, []byte{autoReset, 0xFF, 0xFF})
}

// EnableAutoMode switches the device to run its stored programs.
func (e *Encoder) EnableAutoMode() Frame {
	return e.frame(OpControl, ModeAuto, []byte{autoEnable, 0xFF, 0xFF})
}

// SetTime sets the device clock. The device has no time zone; t is sent as
// its local wall-clock fields.
func (e *Encoder) SetTime(t time.Time) Frame {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // ISO weekday
	}
	return e.frame(OpControl, ModeSetTime, []byte{
		byte(t.Year() - 2000),
		byte(t.Month()),
		byte(weekday),
		byte(t.Hour()),
		byte(t.Minute()),
		byte(t.Second()),
	})
}
