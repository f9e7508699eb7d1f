package tui

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/vitaminmoo/chihirosctl/internal/ble"
	"github.com/vitaminmoo/chihirosctl/internal/commands"
	"github.com/vitaminmoo/chihirosctl/internal/config"
	"github.com/vitaminmoo/chihirosctl/internal/device"
)

// Backend finds and opens fixtures.
type Backend interface {
	Scan(ctx context.Context) ([]ble.Advertisement, error)
	Open(ctx context.Context, adv ble.Advertisement) (*device.Device, io.Closer, error)
}

// bleBackend talks to real hardware.
type bleBackend struct {
	cfg     *config.File
	timeout time.Duration
}

func (b bleBackend) Scan(ctx context.Context) ([]ble.Advertisement, error) {
	return ble.Scan(ctx, b.timeout)
}

func (b bleBackend) Open(ctx context.Context, adv ble.Advertisement) (*device.Device, io.Closer, error) {
	conn, err := ble.Connect(ctx, adv.Address, b.timeout, io.Discard)
	if err != nil {
		return nil, nil, err
	}
	d, err := commands.NewDevice(conn.Name(), modelOverride(b.cfg, adv.Address), conn)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return d, conn, nil
}

// aliasFor returns the saved alias for address, if any.
func aliasFor(cfg *config.File, address string) (string, *config.Device) {
	if cfg == nil {
		return "", nil
	}
	for _, alias := range cfg.Aliases() {
		if d := cfg.Devices[alias]; strings.EqualFold(d.Address, address) {
			return alias, d
		}
	}
	return "", nil
}

func modelOverride(cfg *config.File, address string) string {
	if _, d := aliasFor(cfg, address); d != nil {
		return d.Model
	}
	return ""
}
