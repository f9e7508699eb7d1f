package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		adv      string
		want     string
		channels int
	}{
		{"a ii", "DYNA2N3F9A", "A II", 1},
		{"c ii", "DYNC2N0012", "C II", 1},
		{"z light", "DYSSD12345", "Z Light TINY", 2},
		{"wrgb ii", "DYNWRGB00AA", "WRGB II", 3},
		{"wrgb ii 60", "DYNW60B1C2", "WRGB II", 3},
		{"slim", "DYSILN0001", "WRGB II Slim", 3},
		{"c ii rgb", "DYNCRGP001", "C II RGB", 3},
		{"pro", "DYWPRO45AA", "WRGB II Pro", 4},
		{"pro 120", "DYWPR120AA", "WRGB II Pro", 4},
		{"universal", "DYU1200FF00", "Universal WRGB", 4},
		{"commander", "DYLED00FF", "Commander 4", 4},
		{"lower case", "dynwrgb00aa", "WRGB II", 3},
		{"unknown", "Some Speaker", "Unknown", 0},
		{"empty", "", "Unknown", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Resolve(tt.adv)
			assert.Equal(t, tt.want, p.Name)
			assert.Equal(t, tt.channels, p.ChannelCount())
		})
	}
}

func TestResolve_LongestPrefixWins(t *testing.T) {
	// DYNA2 is a prefix of DYNA2N.
	assert.Equal(t, "A II", Resolve("DYNA2N").Name)
	assert.Equal(t, "A II", Resolve("DYNA2X").Name)
}

func TestCapabilities(t *testing.T) {
	base := CapPower | CapBrightness | CapColorBrightness | CapSchedule | CapAutoMode | CapClock

	tests := []struct {
		model string
		want  Capability
	}{
		{"A II", base | CapWhiteBrightness},
		{"Z Light TINY", base | CapWhiteBrightness | CapColorTemp},
		{"WRGB II", base | CapRGB | CapColorTemp | CapRGBSchedule},
		{"WRGB II Pro", base | CapWhiteBrightness | CapRGBW | CapColorTemp | CapRGBSchedule},
		{"Commander 4", base | CapWhiteBrightness | CapRGBW | CapColorTemp | CapRGBSchedule},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			p, ok := Lookup(tt.model)
			assert.True(t, ok)
			assert.Equal(t, tt.want, p.Capabilities(), "got %s", p.Capabilities())
		})
	}
}

func TestCapabilities_FollowColors(t *testing.T) {
	base := CapPower | CapBrightness | CapColorBrightness | CapSchedule | CapAutoMode | CapClock
	tests := []struct {
		name   string
		colors []Color
		want   Capability
	}{
		{"three whites", []Color{White, White, White}, base | CapWhiteBrightness},
		{"two whites and warm", []Color{White, White, Warm}, base | CapWhiteBrightness | CapColorTemp},
		{"red green warm", []Color{Red, Green, Warm}, base},
		{"two warm", []Color{Warm, Warm}, base},
		{"rgb plus warm", []Color{Red, Green, Blue, Warm}, base | CapRGB | CapColorTemp | CapRGBSchedule},
		{"white first rgbw", []Color{White, Red, Green, Blue}, base | CapWhiteBrightness | CapRGBW | CapColorTemp | CapRGBSchedule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Profile{Name: tt.name, Colors: tt.colors}.Capabilities()
			assert.Equal(t, tt.want, got, "got %s", got)
		})
	}
}

func TestUnknownSupportsNothing(t *testing.T) {
	assert.False(t, Unknown.Known())
	assert.Equal(t, Capability(0), Unknown.Capabilities())
	for _, n := range capabilityNames {
		assert.False(t, Unknown.Supports(n.cap), n.name)
	}
	assert.Empty(t, Unknown.Channels())
}

func TestProfile_Channel(t *testing.T) {
	p, _ := Lookup("DYLED")

	ch, ok := p.Channel(White)
	assert.True(t, ok)
	assert.Equal(t, byte(0), ch)

	ch, ok = p.Channel(Blue)
	assert.True(t, ok)
	assert.Equal(t, byte(3), ch)

	_, ok = p.Channel(Warm)
	assert.False(t, ok)

	assert.Equal(t, []byte{0, 1, 2, 3}, p.Channels())
}

func TestCapability_String(t *testing.T) {
	assert.Equal(t, "none", Capability(0).String())
	assert.Equal(t, "power,rgb", (CapPower | CapRGB).String())
}

func TestProfiles_Sorted(t *testing.T) {
	ps := Profiles()
	assert.Len(t, ps, 9)
	for i := 1; i < len(ps); i++ {
		assert.Less(t, ps[i-1].Name, ps[i].Name)
	}
}
