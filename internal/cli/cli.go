package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/vitaminmoo/chihirosctl/internal/commands"
	"github.com/vitaminmoo/chihirosctl/internal/config"
	"github.com/vitaminmoo/chihirosctl/internal/logging"
	"github.com/vitaminmoo/chihirosctl/internal/model"
	"github.com/vitaminmoo/chihirosctl/internal/tui"
)

// CLI is the root command structure for chihirosctl.
type CLI struct {
	Verbose  bool          `short:"v" help:"Enable verbose debug output"`
	Config   string        `type:"path" env:"CHIHIROS_CONFIG" help:"Config file (default: $XDG_CONFIG_HOME/chihirosctl/config.yaml)"`
	LogLevel string        `name:"log-level" help:"Log level: debug, info, warn, error (default: $CHIHIROS_LOG_LEVEL)"`
	Timeout  time.Duration `help:"BLE scan timeout (default 5s)"`

	// Default command - TUI
	Tui TuiCmd `cmd:"" default:"withargs" help:"Launch interactive TUI (default)"`

	ListDevices ListDevicesCmd `cmd:"" name:"list-devices" help:"List all bluetooth devices"`
	Models      ModelsCmd      `cmd:"" help:"List supported fixture models"`

	TurnOn             TurnOnCmd             `cmd:"" name:"turn-on" help:"Turn on a light"`
	TurnOff            TurnOffCmd            `cmd:"" name:"turn-off" help:"Turn off a light"`
	SetColorBrightness SetColorBrightnessCmd `cmd:"" name:"set-color-brightness" help:"Set color brightness of a light"`
	SetBrightness      SetBrightnessCmd      `cmd:"" name:"set-brightness" help:"Set brightness of a light"`
	SetRGBBrightness   SetRGBBrightnessCmd   `cmd:"" name:"set-rgb-brightness" help:"Set brightness of a RGB light"`
	SetRGBWBrightness  SetRGBWBrightnessCmd  `cmd:"" name:"set-rgbw-brightness" help:"Set the brightness of an RGBW light"`
	SetWhiteBrightness SetWhiteBrightnessCmd `cmd:"" name:"set-white-brightness" help:"Set brightness of the white channel"`
	SetColorTemp       SetColorTempCmd       `cmd:"" name:"set-color-temp" help:"Set the color temperature of the light"`
	AddSetting         AddSettingCmd         `cmd:"" name:"add-setting" help:"Add setting to a light"`
	AddRGBSetting      AddRGBSettingCmd      `cmd:"" name:"add-rgb-setting" help:"Add setting to a RGB light"`
	RemoveSetting      RemoveSettingCmd      `cmd:"" name:"remove-setting" help:"Remove setting from a light"`
	ResetSettings      ResetSettingsCmd      `cmd:"" name:"reset-settings" help:"Reset settings from a light"`
	EnableAutoMode     EnableAutoModeCmd     `cmd:"" name:"enable-auto-mode" help:"Enable auto mode in a light"`
	SyncTime           SyncTimeCmd           `cmd:"" name:"sync-time" help:"Set the light's clock"`

	Encode EncodeCmd `cmd:"" help:"Print the frames a command would send, without connecting"`
	Alias  AliasCmd  `cmd:"" help:"Manage saved device aliases"`

	ctx context.Context
	in  io.Reader
	out io.Writer
}

// SetContext sets the context commands run under.
func (c *CLI) SetContext(ctx context.Context) {
	c.ctx = ctx
}

func (c *CLI) context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

func (c *CLI) stdin() io.Reader {
	if c.in == nil {
		return os.Stdin
	}
	return c.in
}

func (c *CLI) stdout() io.Writer {
	if c.out == nil {
		return os.Stdout
	}
	return c.out
}

func (c *CLI) configPath() (string, error) {
	if c.Config != "" {
		return c.Config, nil
	}
	return config.DefaultPath()
}

// setup applies global flags and loads the config file.
func (c *CLI) setup() (*config.File, error) {
	config.Verbose = c.Verbose

	path, err := c.configPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	level := c.LogLevel
	if level == "" && os.Getenv(logging.LogLevelEnvVar) == "" {
		level = cfg.LogLevel
	}
	if err := logging.Initialize(level); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *CLI) scanTimeout(cfg *config.File) time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return cfg.ScanTimeout
}

// run sends the operation built by args to target.
func (c *CLI) run(target string, args operationArgs) error {
	cfg, err := c.setup()
	if err != nil {
		return err
	}
	defer logging.Sync()

	op, err := args.operation()
	if err != nil {
		return err
	}
	return commands.Run(c.context(), c.stdout(), cfg, target, c.scanTimeout(cfg), op)
}

// encode prints the frames built by args for the --model fixture.
func (c *CLI) encode(args operationArgs) error {
	config.Verbose = c.Verbose
	op, err := args.operation()
	if err != nil {
		return err
	}
	return commands.Encode(c.stdout(), c.Encode.Model, op)
}

// --- TUI Command ---

type TuiCmd struct{}

func (c *TuiCmd) Run(globals *CLI) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the interactive UI needs a terminal; run a subcommand instead (see --help)")
	}
	cfg, err := globals.setup()
	if err != nil {
		return err
	}
	return tui.Run(globals.context(), cfg, globals.scanTimeout(cfg))
}

// --- Discovery Commands ---

type ListDevicesCmd struct{}

func (c *ListDevicesCmd) Run(globals *CLI) error {
	cfg, err := globals.setup()
	if err != nil {
		return err
	}
	return commands.ListDevices(globals.context(), globals.stdout(), globals.scanTimeout(cfg))
}

type ModelsCmd struct{}

func (c *ModelsCmd) Run(globals *CLI) error {
	fmt.Fprintln(globals.stdout(), commands.RenderModels(model.Profiles()))
	return nil
}

// --- Device Commands ---

// Target is the fixture a command is sent to.
type Target struct {
	Device string `arg:"" help:"Device address, advertised name or alias"`
}

type TurnOnCmd struct {
	Target     `embed:""`
	TurnOnArgs `embed:""`
}

func (c *TurnOnCmd) Run(globals *CLI) error {
	return globals.run(c.Device, c.TurnOnArgs)
}

type TurnOffCmd struct {
	Target      `embed:""`
	TurnOffArgs `embed:""`
}

func (c *TurnOffCmd) Run(globals *CLI) error {
	return globals.run(c.Device, c.TurnOffArgs)
}

type SetColorBrightnessCmd struct {
	Target                 `embed:""`
	SetColorBrightnessArgs `embed:""`
}

func (c *SetColorBrightnessCmd) Run(globals *CLI) error {
	return globals.run(c.Device, c.SetColorBrightnessArgs)
}

type SetBrightnessCmd struct {
	Target            `embed:""`
	SetBrightnessArgs `embed:""`
}

func (c *SetBrightnessCmd) Run(globals *CLI) error {
	return globals.run(c.Device, c.SetBrightnessArgs)
}

type SetRGBBrightnessCmd struct {
	Target               `embed:""`
	SetRGBBrightnessArgs `embed:""`
}

func (c *SetRGBBrightnessCmd) Run(globals *CLI) error {
	return globals.run(c.Device, c.SetRGBBrightnessArgs)
}

type SetRGBWBrightnessCmd struct {
	Target                `embed:""`
	SetRGBWBrightnessArgs `embed:""`
}

func (c *SetRGBWBrightnessCmd) Run(globals *CLI) error {
	return globals.run(c.Device, c.SetRGBWBrightnessArgs)
}

type SetWhiteBrightnessCmd struct {
	Target                 `embed:""`
	SetWhiteBrightnessArgs `embed:""`
}

func (c *SetWhiteBrightnessCmd) Run(globals *CLI) error {
	return globals.run(c.Device, c.SetWhiteBrightnessArgs)
}

type SetColorTempCmd struct {
	Target           `embed:""`
	SetColorTempArgs `embed:""`
}

func (c *SetColorTempCmd) Run(globals *CLI) error {
	return globals.run(c.Device, c.SetColorTempArgs)
}

type AddSettingCmd struct {
	Target         `embed:""`
	AddSettingArgs `embed:""`
}

func (c *AddSettingCmd) Run(globals *CLI) error {
	return globals.run(c.Device, c.AddSettingArgs)
}

type AddRGBSettingCmd struct {
	Target            `embed:""`
	AddRGBSettingArgs `embed:""`
}

func (c *AddRGBSettingCmd) Run(globals *CLI) error {
	return globals.run(c.Device, c.AddRGBSettingArgs)
}

type RemoveSettingCmd struct {
	Target            `embed:""`
	RemoveSettingArgs `embed:""`
}

func (c *RemoveSettingCmd) Run(globals *CLI) error {
	return globals.run(c.Device, c.RemoveSettingArgs)
}

type ResetSettingsCmd struct {
	Target            `embed:""`
	ResetSettingsArgs `embed:""`
	Yes               bool `short:"y" help:"Skip confirmation prompt"`
}

func (c *ResetSettingsCmd) Run(globals *CLI) error {
	if !c.Yes {
		prompt := fmt.Sprintf("This deletes every program stored on %s. Type 'yes' to continue: ", c.Device)
		if !commands.ConfirmAction(globals.stdin(), globals.stdout(), prompt) {
			fmt.Fprintln(globals.stdout(), "Aborted.")
			return nil
		}
	}
	return globals.run(c.Device, c.ResetSettingsArgs)
}

type EnableAutoModeCmd struct {
	Target             `embed:""`
	EnableAutoModeArgs `embed:""`
}

func (c *EnableAutoModeCmd) Run(globals *CLI) error {
	return globals.run(c.Device, c.EnableAutoModeArgs)
}

type SyncTimeCmd struct {
	Target       `embed:""`
	SyncTimeArgs `embed:""`
}

func (c *SyncTimeCmd) Run(globals *CLI) error {
	return globals.run(c.Device, c.SyncTimeArgs)
}

// --- Encode Commands ---

// EncodeCmd reuses the argument types of the device commands. Each of them
// runs as an encode subcommand.
type EncodeCmd struct {
	Model string `short:"m" required:"" help:"Model name, code or advertised name (e.g. \"WRGB II\", DYNWRGB)"`

	TurnOn             TurnOnArgs             `cmd:"" name:"turn-on"`
	TurnOff            TurnOffArgs            `cmd:"" name:"turn-off"`
	SetColorBrightness SetColorBrightnessArgs `cmd:"" name:"set-color-brightness"`
	SetBrightness      SetBrightnessArgs      `cmd:"" name:"set-brightness"`
	SetRGBBrightness   SetRGBBrightnessArgs   `cmd:"" name:"set-rgb-brightness"`
	SetRGBWBrightness  SetRGBWBrightnessArgs  `cmd:"" name:"set-rgbw-brightness"`
	SetWhiteBrightness SetWhiteBrightnessArgs `cmd:"" name:"set-white-brightness"`
	SetColorTemp       SetColorTempArgs       `cmd:"" name:"set-color-temp"`
	AddSetting         AddSettingArgs         `cmd:"" name:"add-setting"`
	AddRGBSetting      AddRGBSettingArgs      `cmd:"" name:"add-rgb-setting"`
	RemoveSetting      RemoveSettingArgs      `cmd:"" name:"remove-setting"`
	ResetSettings      ResetSettingsArgs      `cmd:"" name:"reset-settings"`
	EnableAutoMode     EnableAutoModeArgs     `cmd:"" name:"enable-auto-mode"`
	SyncTime           SyncTimeArgs           `cmd:"" name:"sync-time"`
}

// --- Alias Commands ---

type AliasCmd struct {
	Set  AliasSetCmd  `cmd:"" help:"Save a device under an alias"`
	Rm   AliasRmCmd   `cmd:"" help:"Remove an alias"`
	List AliasListCmd `cmd:"" help:"List saved aliases"`
}

type AliasSetCmd struct {
	Alias   string `arg:"" help:"Alias to save"`
	Address string `arg:"" help:"Device address or advertised name"`
	Model   string `help:"Model name or code, if the advertised name is not recognized"`
}

func (c *AliasSetCmd) Run(globals *CLI) error {
	if c.Model != "" {
		if _, ok := model.Lookup(c.Model); !ok {
			return fmt.Errorf("unknown model %q", c.Model)
		}
	}
	return globals.updateConfig(func(cfg *config.File) error {
		return cfg.SetDevice(c.Alias, c.Address, c.Model)
	})
}

type AliasRmCmd struct {
	Alias string `arg:"" help:"Alias to remove"`
}

func (c *AliasRmCmd) Run(globals *CLI) error {
	return globals.updateConfig(func(cfg *config.File) error {
		if !cfg.RemoveDevice(c.Alias) {
			return fmt.Errorf("no alias %q", c.Alias)
		}
		return nil
	})
}

type AliasListCmd struct{}

func (c *AliasListCmd) Run(globals *CLI) error {
	cfg, err := globals.setup()
	if err != nil {
		return err
	}
	w := globals.stdout()
	for _, alias := range cfg.Aliases() {
		d := cfg.Devices[alias]
		if d.Model != "" {
			fmt.Fprintf(w, "%s\t%s\t%s\n", alias, d.Address, d.Model)
		} else {
			fmt.Fprintf(w, "%s\t%s\n", alias, d.Address)
		}
	}
	return nil
}

func (c *CLI) updateConfig(update func(*config.File) error) error {
	cfg, err := c.setup()
	if err != nil {
		return err
	}
	if err := update(cfg); err != nil {
		return err
	}
	path, err := c.configPath()
	if err != nil {
		return err
	}
	return cfg.Save(path)
}
