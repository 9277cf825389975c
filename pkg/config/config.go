// Package config loads the bridge configuration from an INI file.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// Serial holds the RS-485 port settings.
type Serial struct {
	PortName    string
	BaudRate    int
	DataBits    int
	Parity      string // None, Even, Odd
	StopBits    int
	FlowControl string // None only; the driver has no flow-control support
}

// SNMP holds the UDP peer settings. SubnetMask and Gateway are recorded for
// completeness; the pipeline does not use them.
type SNMP struct {
	IPAddress  string
	Port       int
	SubnetMask string
	Gateway    string
	Community  string
}

// Listen is the RS-485 source address filter. All accepts every source;
// otherwise only frames from Addr pass.
type Listen struct {
	All  bool
	Addr byte
}

// Redis holds the optional telemetry mirror settings. An empty Addr
// disables the mirror.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Config is the full bridge configuration.
type Config struct {
	Serial Serial
	SNMP   SNMP
	Listen Listen
	Redis  Redis
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %v", path, err)
	}

	cfg := &Config{
		Serial: Serial{
			PortName:    file.Section("SerialPort").Key("portName").MustString("/dev/ttyUSB0"),
			BaudRate:    file.Section("SerialPort").Key("baudRate").MustInt(19200),
			DataBits:    file.Section("SerialPort").Key("dataBits").MustInt(8),
			Parity:      file.Section("SerialPort").Key("parity").MustString("None"),
			StopBits:    file.Section("SerialPort").Key("stopBits").MustInt(1),
			FlowControl: file.Section("SerialPort").Key("flowControl").MustString("None"),
		},
		SNMP: SNMP{
			IPAddress:  file.Section("SNMP").Key("ipAddress").MustString("127.0.0.1"),
			Port:       file.Section("SNMP").Key("port").MustInt(161),
			SubnetMask: file.Section("SNMP").Key("subnetMask").MustString("255.255.255.0"),
			Gateway:    file.Section("SNMP").Key("gateway").MustString("0.0.0.0"),
			Community:  file.Section("SNMP").Key("community").MustString("public"),
		},
		Redis: Redis{
			Addr:     file.Section("Redis").Key("addr").MustString(""),
			Password: file.Section("Redis").Key("password").MustString(""),
			DB:       file.Section("Redis").Key("db").MustInt(0),
		},
	}

	listen, err := parseListenAddress(file.Section("RS485").Key("listenAddress").MustString("all"))
	if err != nil {
		return nil, err
	}
	cfg.Listen = listen

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseListenAddress accepts "all" or a hex address, with or without the
// "0x" prefix.
func parseListenAddress(raw string) (Listen, error) {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "all") {
		return Listen{All: true}, nil
	}
	cleaned := strings.TrimPrefix(strings.ToLower(raw), "0x")
	addr, err := strconv.ParseUint(cleaned, 16, 8)
	if err != nil || addr > 0x0F {
		return Listen{}, fmt.Errorf("invalid RS485 listen address %q", raw)
	}
	return Listen{Addr: byte(addr)}, nil
}

func (c *Config) validate() error {
	switch c.Serial.DataBits {
	case 5, 6, 7, 8:
	default:
		return fmt.Errorf("invalid data bits %d", c.Serial.DataBits)
	}
	switch c.Serial.Parity {
	case "None", "Even", "Odd":
	default:
		return fmt.Errorf("invalid parity %q", c.Serial.Parity)
	}
	switch c.Serial.StopBits {
	case 1, 2:
	default:
		return fmt.Errorf("invalid stop bits %d", c.Serial.StopBits)
	}
	if c.Serial.FlowControl != "None" {
		return fmt.Errorf("unsupported flow control %q", c.Serial.FlowControl)
	}
	if c.Serial.BaudRate <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.Serial.BaudRate)
	}
	if net.ParseIP(c.SNMP.IPAddress) == nil {
		return fmt.Errorf("invalid SNMP address %q", c.SNMP.IPAddress)
	}
	if c.SNMP.Port <= 0 || c.SNMP.Port > 65535 {
		return fmt.Errorf("invalid SNMP port %d", c.SNMP.Port)
	}
	return nil
}
