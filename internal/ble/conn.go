package ble

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"tinygo.org/x/bluetooth"

	"github.com/vitaminmoo/chihirosctl/internal/config"
	"github.com/vitaminmoo/chihirosctl/internal/logging"
	"github.com/vitaminmoo/chihirosctl/internal/protocol"
)

// Conn is an open link to one fixture. It implements device.Transport.
type Conn struct {
	device  bluetooth.Device
	rx      *bluetooth.DeviceCharacteristic
	tx      *bluetooth.DeviceCharacteristic
	name    string
	address string
	log     *zap.Logger

	mu sync.Mutex
}

// Name returns the advertised name, which identifies the model.
func (c *Conn) Name() string { return c.name }

// Address returns the device address.
func (c *Conn) Address() string { return c.address }

// Send writes one frame to the UART RX characteristic.
func (c *Conn) Send(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	logging.LogRawBytes("ble write", data)
	config.DebugDump("write "+c.address, data)
	if _, err := c.rx.WriteWithoutResponse(data); err != nil {
		return fmt.Errorf("write to %s: %w", c.address, err)
	}
	return nil
}

// onNotify logs frames the fixture sends back. Their content is not used.
func (c *Conn) onNotify(buf []byte) {
	f, err := protocol.ParseFrame(buf)
	if err != nil {
		c.log.Debug("notification", logging.Hex("raw", buf), zap.Error(err))
		return
	}
	c.log.Debug("notification",
		zap.Stringer("frame", f),
	)
}

// Close disconnects from the fixture.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.device.Disconnect(); err != nil {
		return fmt.Errorf("disconnect %s: %w", c.address, err)
	}
	return nil
}
