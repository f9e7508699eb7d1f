package protocol

import (
	"fmt"
	"time"
)

// unusedSlot fills brightness slots a setting does not drive. A setting with
// every slot unused deletes the matching program on the device.
const unusedSlot byte = 0xFF

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" (24-hour clock).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q (expected HH:MM): %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// UnmarshalText lets TimeOfDay be used directly as a flag or argument value.
func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MinuteOfDay returns minutes since midnight.
func (t TimeOfDay) MinuteOfDay() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) validate(field string) error {
	if err := checkRange(field+" hour", t.Hour, 0, 23); err != nil {
		return err
	}
	return checkRange(field+" minute", t.Minute, 0, 59)
}

// Setting is one auto-mode program: ramp up to Brightness at Sunrise, back
// down at Sunset, on the selected weekdays.
type Setting struct {
	Sunrise TimeOfDay
	Sunset  TimeOfDay

	// RampUp is the transition length in minutes.
	RampUp int

	Weekdays []Weekday

	// Brightness holds one level per channel, in channel order. Leave it
	// empty to address the program for removal.
	Brightness []int
}

func (s Setting) validate() error {
	if err := s.Sunrise.validate("sunrise"); err != nil {
		return err
	}
	if err := s.Sunset.validate("sunset"); err != nil {
		return err
	}
	if err := checkRange("ramp-up minutes", s.RampUp, MinRampUp, MaxRampUp); err != nil {
		return err
	}
	for _, d := range s.Weekdays {
		if !d.Valid() {
			return &ValidationError{Field: "weekday", Name: string(d)}
		}
	}
	if err := checkRange("channel count", len(s.Brightness), 0, MaxSettingChannels); err != nil {
		return err
	}
	for i, b := range s.Brightness {
		if err := checkBrightness(fmt.Sprintf("channel %d brightness", i), b); err != nil {
			return err
		}
	}
	return nil
}

func (s Setting) payload() []byte {
	payload := []byte{
		byte(s.Sunrise.Hour),
		byte(s.Sunrise.Minute),
		byte(s.Sunset.Hour),
		byte(s.Sunset.Minute),
		byte(s.RampUp),
		EncodeWeekdays(s.Weekdays),
	}
	for i := 0; i < MaxSettingChannels; i++ {
		if i < len(s.Brightness) {
			payload = append(payload, byte(s.Brightness[i]))
		} else {
			payload = append(payload, unusedSlot)
		}
	}
	return payload
}
