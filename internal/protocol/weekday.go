package protocol

import (
	"fmt"
	"strings"
)

// Weekday selects a day for a scheduled setting. Everyday is a sentinel that
// selects all seven days.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
	Everyday  Weekday = "everyday"
)

// EverydayMask is the encoding of all seven days.
const EverydayMask byte = 0x7F

// weekdayBits is ordered monday first, matching the bit order on the wire.
var weekdayBits = []struct {
	day Weekday
	bit byte
}{
	{Monday, 64},
	{Tuesday, 32},
	{Wednesday, 16},
	{Thursday, 8},
	{Friday, 4},
	{Saturday, 2},
	{Sunday, 1},
}

// Bit returns the mask bit for a single day, or EverydayMask for Everyday.
func (d Weekday) Bit() byte {
	if d == Everyday {
		return EverydayMask
	}
	for _, wb := range weekdayBits {
		if wb.day == d {
			return wb.bit
		}
	}
	return 0
}

// Valid reports whether d is a day name or Everyday.
func (d Weekday) Valid() bool {
	return d.Bit() != 0
}

// UnmarshalText lets Weekday be used directly as a flag value.
func (d *Weekday) UnmarshalText(text []byte) error {
	parsed, err := ParseWeekday(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseWeekday parses a day name. The misspelling "wednessday" used by the
// vendor tooling is accepted as Wednesday.
func ParseWeekday(s string) (Weekday, error) {
	switch day := Weekday(strings.ToLower(strings.TrimSpace(s))); day {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday, Everyday:
		return day, nil
	case "wednessday":
		return Wednesday, nil
	default:
		return "", fmt.Errorf("unknown weekday %q", s)
	}
}

// EncodeWeekdays folds a selection into the 7-bit day mask. Everyday wins over
// any other member; an empty selection encodes to 0.
func EncodeWeekdays(days []Weekday) byte {
	var mask byte
	for _, d := range days {
		if d == Everyday {
			return EverydayMask
		}
		mask |= d.Bit()
	}
	return mask
}

// DecodeWeekdays expands a mask into individual days, monday first. Bit 7 is
// ignored.
func DecodeWeekdays(mask byte) []Weekday {
	var days []Weekday
	for _, wb := range weekdayBits {
		if mask&wb.bit != 0 {
			days = append(days, wb.day)
		}
	}
	return days
}
