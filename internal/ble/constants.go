package ble

import "time"

const (
	// UARTServiceUUID is the Nordic UART service the fixtures expose
	UARTServiceUUID = "6E400001-B5A3-F393-E0A9-E50E24DCCA9E"

	// UARTRxCharUUID is the characteristic commands are written to
	UARTRxCharUUID = "6E400002-B5A3-F393-E0A9-E50E24DCCA9E"

	// UARTTxCharUUID is the characteristic the fixture notifies on
	UARTTxCharUUID = "6E400003-B5A3-F393-E0A9-E50E24DCCA9E"
)

// DefaultScanTimeout bounds discovery when no timeout is configured.
const DefaultScanTimeout = 5 * time.Second
