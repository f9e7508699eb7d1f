package protocol

import "math"

// ColorTempTarget maps a color temperature onto the channels of a fixture.
// Implementations are WarmCoolChannels and RGBChannels.
type ColorTempTarget interface {
	colorTempLevels(kelvin int) []Level
}

// WarmCoolChannels addresses a fixture with a warm and a cool white channel.
type WarmCoolChannels struct {
	Warm byte
	Cool byte
}

func (c WarmCoolChannels) colorTempLevels(kelvin int) []Level {
	warm, cool := WarmCoolMix(kelvin)
	return []Level{
		{Channel: c.Warm, Brightness: warm},
		{Channel: c.Cool, Brightness: cool},
	}
}

// RGBChannels holds the channel indexes of red, green and blue, in that order.
type RGBChannels [3]byte

func (c RGBChannels) colorTempLevels(kelvin int) []Level {
	r, g, b := KelvinToRGB(kelvin)
	return []Level{
		{Channel: c[0], Brightness: r},
		{Channel: c[1], Brightness: g},
		{Channel: c[2], Brightness: b},
	}
}

// RGBWChannels holds the channel indexes of red, green, blue and white.
type RGBWChannels [4]byte

// WarmCoolMix splits a color temperature between a warm and a cool white
// channel, as percentages summing to 100. kelvin is clamped to the supported
// range.
func WarmCoolMix(kelvin int) (warm, cool int) {
	kelvin = clamp(kelvin, MinColorTemp, MaxColorTemp)
	cool = int(math.Round(float64(kelvin-MinColorTemp) * 100 / float64(MaxColorTemp-MinColorTemp)))
	return 100 - cool, cool
}

// KelvinToRGB approximates the color of a black body at kelvin as channel
// percentages (Tanner Helland's curve fit).
func KelvinToRGB(kelvin int) (r, g, b int) {
	temp := float64(clamp(kelvin, MinColorTemp, MaxColorTemp)) / 100

	var rf, gf, bf float64
	if temp <= 66 {
		rf = 255
		gf = 99.4708025861*math.Log(temp) - 161.1195681661
	} else {
		rf = 329.698727446 * math.Pow(temp-60, -0.1332047592)
		gf = 288.1221695283 * math.Pow(temp-60, -0.0755148492)
	}
	switch {
	case temp >= 66:
		bf = 255
	case temp <= 19:
		bf = 0
	default:
		bf = 138.5177312231*math.Log(temp-10) - 305.0447927307
	}

	return toPercent(rf), toPercent(gf), toPercent(bf)
}

func toPercent(v float64) int {
	v = math.Max(0, math.Min(255, v))
	return int(math.Round(v * 100 / 255))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
