// Package serialport opens and configures the RS-485 port.
package serialport

import (
	"fmt"

	"github.com/sattelink/sci-snmp-bridge/pkg/config"
	"go.bug.st/serial"
)

// Open opens the configured serial device. Failure here is fatal at
// startup; there is no reconnect logic.
func Open(cfg config.Serial) (serial.Port, error) {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
	}

	switch cfg.Parity {
	case "Even":
		mode.Parity = serial.EvenParity
	case "Odd":
		mode.Parity = serial.OddParity
	default:
		mode.Parity = serial.NoParity
	}

	if cfg.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	} else {
		mode.StopBits = serial.OneStopBit
	}

	port, err := serial.Open(cfg.PortName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %v", cfg.PortName, err)
	}
	return port, nil
}
