// Package model maps advertised BLE names to Chihiros fixture profiles and
// derives which commands each fixture accepts from its channel layout.
package model

import (
	"sort"
	"strings"
)

// Color names a light channel.
type Color string

const (
	White Color = "white"
	Warm  Color = "warm"
	Red   Color = "red"
	Green Color = "green"
	Blue  Color = "blue"
)

// Profile describes one fixture model. Colors are in channel order: the
// index of a color is the channel byte sent on the wire.
type Profile struct {
	Name   string
	Codes  []string
	Colors []Color
}

// Unknown is returned for names that match no model. It has no channels and
// supports nothing.
var Unknown = Profile{Name: "Unknown"}

var profiles = []Profile{
	{Name: "A II", Codes: []string{"DYNA2", "DYNA2N"}, Colors: []Color{White}},
	{Name: "C II", Codes: []string{"DYNC2N"}, Colors: []Color{White}},
	{Name: "Z Light TINY", Codes: []string{"DYSSD"}, Colors: []Color{White, Warm}},
	{
		Name:   "WRGB II",
		Codes:  []string{"DYNWRGB", "DYNW30", "DYNW45", "DYNW60", "DYNW90", "DYNW12P"},
		Colors: []Color{Red, Green, Blue},
	},
	{Name: "WRGB II Slim", Codes: []string{"DYSILN"}, Colors: []Color{Red, Green, Blue}},
	{Name: "C II RGB", Codes: []string{"DYNCRGP"}, Colors: []Color{Red, Green, Blue}},
	{
		Name:   "WRGB II Pro",
		Codes:  []string{"DYWPRO30", "DYWPRO45", "DYWPRO60", "DYWPRO80", "DYWPRO90", "DYWPR120"},
		Colors: []Color{Red, Green, Blue, White},
	},
	{
		Name:   "Universal WRGB",
		Codes:  []string{"DYU550", "DYU600", "DYU700", "DYU800", "DYU920", "DYU1000", "DYU1200", "DYU1500"},
		Colors: []Color{Red, Green, Blue, White},
	},
	{Name: "Commander 4", Codes: []string{"DYLED"}, Colors: []Color{White, Red, Green, Blue}},
}

// Profiles returns every known model, sorted by name.
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resolve finds the profile whose model code is the longest prefix of the
// advertised name, ignoring case. Devices advertise the code followed by a
// serial suffix, e.g. "DYNWRGB1A2B3C".
func Resolve(name string) Profile {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "" {
		return Unknown
	}

	best, bestLen := Unknown, 0
	for _, p := range profiles {
		for _, code := range p.Codes {
			if len(code) > bestLen && strings.HasPrefix(upper, code) {
				best, bestLen = p, len(code)
			}
		}
	}
	return best
}

// Lookup returns the profile with the given model name or code.
func Lookup(nameOrCode string) (Profile, bool) {
	for _, p := range profiles {
		if strings.EqualFold(p.Name, nameOrCode) {
			return p, true
		}
		for _, code := range p.Codes {
			if strings.EqualFold(code, nameOrCode) {
				return p, true
			}
		}
	}
	return Unknown, false
}

// Known reports whether p is a recognized model.
func (p Profile) Known() bool {
	return len(p.Colors) > 0
}

// ChannelCount returns the number of color channels.
func (p Profile) ChannelCount() int {
	return len(p.Colors)
}

// Channel returns the wire channel index of color.
func (p Profile) Channel(color Color) (byte, bool) {
	for i, c := range p.Colors {
		if c == color {
			return byte(i), true
		}
	}
	return 0, false
}

// Channels returns every channel index in order.
func (p Profile) Channels() []byte {
	chs := make([]byte, len(p.Colors))
	for i := range p.Colors {
		chs[i] = byte(i)
	}
	return chs
}

// Capabilities returns the command set p accepts.
func (p Profile) Capabilities() Capability {
	return capabilitiesFor(p.Colors)
}

// Supports reports whether p accepts every command in c.
func (p Profile) Supports(c Capability) bool {
	return p.Capabilities().Has(c)
}

func (p Profile) String() string {
	return p.Name
}
