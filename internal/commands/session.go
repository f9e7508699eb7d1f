// Package commands implements the work behind each CLI command, shared with
// the TUI.
package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/vitaminmoo/chihirosctl/internal/ble"
	"github.com/vitaminmoo/chihirosctl/internal/config"
	"github.com/vitaminmoo/chihirosctl/internal/device"
	"github.com/vitaminmoo/chihirosctl/internal/model"
)

// Session is an open connection to one fixture.
type Session struct {
	Device *device.Device
	conn   *ble.Conn
}

// Close disconnects from the fixture.
func (s *Session) Close() error {
	s.Device.Unbind()
	return s.conn.Close()
}

// Open resolves target through the config aliases, connects to it and binds
// a device to the connection. Connection progress is written to w.
func Open(ctx context.Context, w io.Writer, cfg *config.File, target string, timeout time.Duration) (*Session, error) {
	address, override := cfg.Resolve(target)
	if timeout <= 0 {
		timeout = cfg.ScanTimeout
	}

	conn, err := ble.Connect(ctx, address, timeout, w)
	if err != nil {
		return nil, err
	}

	d, err := NewDevice(conn.Name(), override, conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	config.Debugf("Model: %s (%s)", d.Profile().Name, d.Profile().Capabilities())
	return &Session{Device: d, conn: conn}, nil
}

// NewDevice builds a device for an advertised name. A non-empty override
// names the model explicitly.
func NewDevice(name, override string, t device.Transport) (*device.Device, error) {
	opts := []device.Option{device.WithTransport(t)}
	if override != "" {
		p, ok := model.Lookup(override)
		if !ok {
			return nil, fmt.Errorf("unknown model %q", override)
		}
		opts = append(opts, device.WithProfile(p))
	}

	d := device.New(name, opts...)
	if !d.Profile().Known() {
		return nil, fmt.Errorf("%q is not a recognized Chihiros fixture (set a model for it in the config)", name)
	}
	return d, nil
}

// Run opens target, executes op and closes the connection.
func Run(ctx context.Context, w io.Writer, cfg *config.File, target string, timeout time.Duration, op device.Operation) error {
	s, err := Open(ctx, w, cfg, target, timeout)
	if err != nil {
		return err
	}
	defer s.Close()

	return Execute(ctx, w, s.Device, op)
}

// Execute sends op to d and reports completion on w.
func Execute(ctx context.Context, w io.Writer, d *device.Device, op device.Operation) error {
	if err := d.Execute(ctx, op); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	fmt.Fprintf(w, "%s: done\n", op)
	return nil
}
