package cli

import (
	"fmt"
	"time"

	"github.com/vitaminmoo/chihirosctl/internal/device"
	"github.com/vitaminmoo/chihirosctl/internal/protocol"
)

// operationArgs is the argument set of one device command.
type operationArgs interface {
	operation() (device.Operation, error)
}

type TurnOnArgs struct{}

func (a TurnOnArgs) operation() (device.Operation, error) { return device.TurnOn{}, nil }

func (a *TurnOnArgs) Run(globals *CLI) error { return globals.encode(a) }

type TurnOffArgs struct{}

func (a TurnOffArgs) operation() (device.Operation, error) { return device.TurnOff{}, nil }

func (a *TurnOffArgs) Run(globals *CLI) error { return globals.encode(a) }

type SetColorBrightnessArgs struct {
	Color      int `arg:"" help:"Channel index"`
	Brightness int `arg:"" help:"Brightness percent (0-100)"`
}

func (a SetColorBrightnessArgs) operation() (device.Operation, error) {
	return device.SetColorBrightness{Channel: a.Color, Brightness: a.Brightness}, nil
}

func (a *SetColorBrightnessArgs) Run(globals *CLI) error { return globals.encode(a) }

type SetBrightnessArgs struct {
	Brightness int `arg:"" help:"Brightness percent (0-100)"`
}

func (a SetBrightnessArgs) operation() (device.Operation, error) {
	return device.SetBrightness{Brightness: a.Brightness}, nil
}

func (a *SetBrightnessArgs) Run(globals *CLI) error { return globals.encode(a) }

type SetRGBBrightnessArgs struct {
	Brightness []int `arg:"" help:"Red, green and blue percent (0-100 each)"`
}

func (a SetRGBBrightnessArgs) operation() (device.Operation, error) {
	if len(a.Brightness) != 3 {
		return nil, fmt.Errorf("expected 3 brightness values, got %d", len(a.Brightness))
	}
	return device.SetRGBBrightness{Brightness: [3]int(a.Brightness)}, nil
}

func (a *SetRGBBrightnessArgs) Run(globals *CLI) error { return globals.encode(a) }

type SetRGBWBrightnessArgs struct {
	Brightness []int `arg:"" help:"Red, green, blue and white percent (0-100 each)"`
}

func (a SetRGBWBrightnessArgs) operation() (device.Operation, error) {
	if len(a.Brightness) != 4 {
		return nil, fmt.Errorf("expected 4 brightness values, got %d", len(a.Brightness))
	}
	return device.SetRGBWBrightness{Brightness: [4]int(a.Brightness)}, nil
}

func (a *SetRGBWBrightnessArgs) Run(globals *CLI) error { return globals.encode(a) }

type SetWhiteBrightnessArgs struct {
	Brightness int `arg:"" help:"Brightness percent (0-100)"`
}

func (a SetWhiteBrightnessArgs) operation() (device.Operation, error) {
	return device.SetWhiteBrightness{Brightness: a.Brightness}, nil
}

func (a *SetWhiteBrightnessArgs) Run(globals *CLI) error { return globals.encode(a) }

type SetColorTempArgs struct {
	ColorTemp int `arg:"" help:"Color temperature in kelvin (2000-6500)"`
}

func (a SetColorTempArgs) operation() (device.Operation, error) {
	return device.SetColorTemp{Kelvin: a.ColorTemp}, nil
}

func (a *SetColorTempArgs) Run(globals *CLI) error { return globals.encode(a) }

// ScheduleArgs are shared by the setting commands.
type ScheduleArgs struct {
	Sunrise         protocol.TimeOfDay `arg:"" help:"Sunrise (HH:MM)"`
	Sunset          protocol.TimeOfDay `arg:"" help:"Sunset (HH:MM)"`
	RampUpInMinutes int                `name:"ramp-up-in-minutes" default:"0" help:"Ramp-up time in minutes (0-150)"`
	Weekdays        []protocol.Weekday `default:"everyday" help:"Days the setting runs: monday..sunday or everyday"`
}

type AddSettingArgs struct {
	ScheduleArgs  `embed:""`
	MaxBrightness int `name:"max-brightness" default:"100" help:"Brightness percent (0-100)"`
}

func (a AddSettingArgs) operation() (device.Operation, error) {
	return device.AddSetting{
		Sunrise:    a.Sunrise,
		Sunset:     a.Sunset,
		Brightness: a.MaxBrightness,
		RampUp:     a.RampUpInMinutes,
		Weekdays:   a.Weekdays,
	}, nil
}

func (a *AddSettingArgs) Run(globals *CLI) error { return globals.encode(a) }

type AddRGBSettingArgs struct {
	ScheduleArgs  `embed:""`
	MaxBrightness []int `name:"max-brightness" default:"100,100,100" help:"Brightness percent per channel"`
}

func (a AddRGBSettingArgs) operation() (device.Operation, error) {
	return device.AddRGBSetting{
		Sunrise:    a.Sunrise,
		Sunset:     a.Sunset,
		Brightness: a.MaxBrightness,
		RampUp:     a.RampUpInMinutes,
		Weekdays:   a.Weekdays,
	}, nil
}

func (a *AddRGBSettingArgs) Run(globals *CLI) error { return globals.encode(a) }

type RemoveSettingArgs struct {
	ScheduleArgs `embed:""`
}

func (a RemoveSettingArgs) operation() (device.Operation, error) {
	return device.RemoveSetting{
		Sunrise:  a.Sunrise,
		Sunset:   a.Sunset,
		RampUp:   a.RampUpInMinutes,
		Weekdays: a.Weekdays,
	}, nil
}

func (a *RemoveSettingArgs) Run(globals *CLI) error { return globals.encode(a) }

type ResetSettingsArgs struct{}

func (a ResetSettingsArgs) operation() (device.Operation, error) { return device.ResetSettings{}, nil }

func (a *ResetSettingsArgs) Run(globals *CLI) error { return globals.encode(a) }

type EnableAutoModeArgs struct{}

func (a EnableAutoModeArgs) operation() (device.Operation, error) { return device.EnableAutoMode{}, nil }

func (a *EnableAutoModeArgs) Run(globals *CLI) error { return globals.encode(a) }

// syncTimeLayout is the local wall-clock format accepted by --at.
const syncTimeLayout = "2006-01-02 15:04:05"

type SyncTimeArgs struct {
	At string `help:"Local time to set, as \"YYYY-MM-DD HH:MM:SS\" (default: now)"`
}

func (a SyncTimeArgs) operation() (device.Operation, error) {
	if a.At == "" {
		return device.SyncTime{}, nil
	}
	at, err := time.ParseInLocation(syncTimeLayout, a.At, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q: %w", a.At, err)
	}
	return device.SyncTime{At: at}, nil
}

func (a *SyncTimeArgs) Run(globals *CLI) error { return globals.encode(a) }
