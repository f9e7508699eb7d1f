package ble

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"tinygo.org/x/bluetooth"

	"github.com/vitaminmoo/chihirosctl/internal/config"
	"github.com/vitaminmoo/chihirosctl/internal/logging"
	"github.com/vitaminmoo/chihirosctl/internal/model"
)

// ErrNotFound is returned when no advertisement matched before the scan
// timed out.
var ErrNotFound = errors.New("device not found")

var (
	enableOnce sync.Once
	enableErr  error
)

func adapter() (*bluetooth.Adapter, error) {
	a := bluetooth.DefaultAdapter
	enableOnce.Do(func() {
		enableErr = a.Enable()
	})
	if enableErr != nil {
		return nil, fmt.Errorf("failed to enable Bluetooth: %w", enableErr)
	}
	return a, nil
}

// Advertisement is one device seen during a scan.
type Advertisement struct {
	Name    string
	Address string
	RSSI    int16
	Model   model.Profile
}

func newAdvertisement(result bluetooth.ScanResult) Advertisement {
	name := result.LocalName()
	return Advertisement{
		Name:    name,
		Address: result.Address.String(),
		RSSI:    result.RSSI,
		Model:   model.Resolve(name),
	}
}

// scan runs until stop returns true, ctx is done or timeout elapses.
func scan(ctx context.Context, timeout time.Duration, stop func(Advertisement, bluetooth.ScanResult) bool) error {
	a, err := adapter()
	if err != nil {
		return err
	}
	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	go func() {
		<-ctx.Done()
		_ = a.StopScan()
	}()

	err = a.Scan(func(a *bluetooth.Adapter, result bluetooth.ScanResult) {
		adv := newAdvertisement(result)
		if config.Verbose && adv.Name != "" {
			config.Debugf("  Found: '%s' (%s) %d dBm", adv.Name, adv.Address, adv.RSSI)
		}
		if stop(adv, result) {
			cancel()
		}
	})
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	return nil
}

// Scan lists every named device advertising within timeout, Chihiros
// fixtures first.
func Scan(ctx context.Context, timeout time.Duration) ([]Advertisement, error) {
	var mu sync.Mutex
	seen := make(map[string]Advertisement)

	err := scan(ctx, timeout, func(adv Advertisement, _ bluetooth.ScanResult) bool {
		if adv.Name == "" {
			return false
		}
		mu.Lock()
		seen[adv.Address] = adv
		mu.Unlock()
		return false
	})
	if err != nil {
		return nil, err
	}

	out := make([]Advertisement, 0, len(seen))
	for _, adv := range seen {
		out = append(out, adv)
	}
	SortAdvertisements(out)
	return out, nil
}

// SortAdvertisements orders known fixtures before other devices, then by
// name and address.
func SortAdvertisements(advs []Advertisement) {
	sort.Slice(advs, func(i, j int) bool {
		a, b := advs[i], advs[j]
		if a.Model.Known() != b.Model.Known() {
			return a.Model.Known()
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Address < b.Address
	})
}

// Matches reports whether adv is the device target names. target is an
// address or an advertised name, compared without case.
func (adv Advertisement) Matches(target string) bool {
	target = strings.TrimSpace(target)
	if target == "" {
		return false
	}
	return strings.EqualFold(adv.Address, target) || strings.EqualFold(adv.Name, target)
}

// Connect scans for target, connects and discovers the UART characteristics.
// Progress messages go to progress; nil discards them.
func Connect(ctx context.Context, target string, timeout time.Duration, progress io.Writer) (*Conn, error) {
	progress = progressWriter(progress)
	var (
		found  bool
		adv    Advertisement
		result bluetooth.ScanResult
	)

	fmt.Fprintf(progress, "Scanning for %s...\n", target)
	err := scan(ctx, timeout, func(a Advertisement, r bluetooth.ScanResult) bool {
		if found || !a.Matches(target) {
			return false
		}
		found, adv, result = true, a, r
		return true
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", target, ErrNotFound)
	}

	fmt.Fprintf(progress, "Connecting to %s (%s)...\n", adv.Name, adv.Address)

	a, err := adapter()
	if err != nil {
		return nil, err
	}
	dev, err := a.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	conn, err := setup(dev, adv)
	if err != nil {
		_ = dev.Disconnect()
		return nil, err
	}
	fmt.Fprintln(progress, "Connected!")
	return conn, nil
}

func progressWriter(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// setup finds the UART service and subscribes to fixture notifications.
func setup(dev bluetooth.Device, adv Advertisement) (*Conn, error) {
	config.Debugf("Discovering services...")

	services, err := dev.DiscoverServices(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to discover services: %w", err)
	}

	var uart *bluetooth.DeviceService
	for i := range services {
		uuid := services[i].UUID().String()
		if strings.EqualFold(uuid, UARTServiceUUID) {
			uart = &services[i]
			config.Debugf("Found UART service: %s", uuid)
			break
		}
	}
	if uart == nil {
		return nil, errors.New("UART service not found")
	}

	chars, err := uart.DiscoverCharacteristics(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to discover characteristics: %w", err)
	}

	conn := &Conn{
		device:  dev,
		name:    adv.Name,
		address: adv.Address,
		log:     logging.Named("ble").With(zap.String("address", adv.Address)),
	}
	for i := range chars {
		uuid := chars[i].UUID().String()
		config.Debugf("Found characteristic: %s", uuid)
		switch {
		case strings.EqualFold(uuid, UARTRxCharUUID):
			conn.rx = &chars[i]
		case strings.EqualFold(uuid, UARTTxCharUUID):
			conn.tx = &chars[i]
		}
	}
	if conn.rx == nil {
		return nil, errors.New("UART write characteristic not found")
	}

	if conn.tx != nil {
		if err := conn.tx.EnableNotifications(conn.onNotify); err != nil {
			conn.log.Warn("notifications unavailable", zap.Error(err))
		}
	}
	return conn, nil
}
