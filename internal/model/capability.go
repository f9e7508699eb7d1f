package model

import "strings"

// Capability is a set of command families a fixture accepts.
type Capability uint16

const (
	CapPower Capability = 1 << iota
	CapBrightness
	CapColorBrightness
	CapWhiteBrightness
	CapColorTemp
	CapRGB
	CapRGBW
	CapSchedule
	CapRGBSchedule
	CapAutoMode
	CapClock
)

var capabilityNames = []struct {
	cap  Capability
	name string
}{
	{CapPower, "power"},
	{CapBrightness, "brightness"},
	{CapColorBrightness, "color-brightness"},
	{CapWhiteBrightness, "white-brightness"},
	{CapColorTemp, "color-temp"},
	{CapRGB, "rgb"},
	{CapRGBW, "rgbw"},
	{CapSchedule, "schedule"},
	{CapRGBSchedule, "rgb-schedule"},
	{CapAutoMode, "auto-mode"},
	{CapClock, "clock"},
}

// Has reports whether every capability in other is present. The empty set is
// never reported as present.
func (c Capability) Has(other Capability) bool {
	return other != 0 && c&other == other
}

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var names []string
	for _, n := range capabilityNames {
		if c&n.cap != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, ",")
}

// capabilitiesFor derives the command set from a channel layout. Color
// families require every channel they drive to be present.
func capabilitiesFor(colors []Color) Capability {
	if len(colors) == 0 {
		return 0
	}

	caps := CapPower | CapBrightness | CapColorBrightness | CapSchedule | CapAutoMode | CapClock

	has := make(map[Color]bool, len(colors))
	for _, c := range colors {
		has[c] = true
	}
	rgb := has[Red] && has[Green] && has[Blue]

	if has[White] {
		caps |= CapWhiteBrightness
	}
	switch {
	case rgb && has[White]:
		caps |= CapRGBW | CapColorTemp | CapRGBSchedule
	case rgb:
		caps |= CapRGB | CapColorTemp | CapRGBSchedule
	case has[Warm] && has[White]:
		caps |= CapColorTemp
	}
	return caps
}
