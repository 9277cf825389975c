package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/sattelink/sci-snmp-bridge/pkg/bridge"
	"github.com/sattelink/sci-snmp-bridge/pkg/config"
	"github.com/sattelink/sci-snmp-bridge/pkg/decoder"
	"github.com/sattelink/sci-snmp-bridge/pkg/serialport"
	"github.com/sattelink/sci-snmp-bridge/pkg/snmp"
	"github.com/sattelink/sci-snmp-bridge/pkg/telemetry"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.String("config", "config.ini", "Path to the INI configuration file")
	debug := pflag.Bool("debug", false, "Enable debug logging")
	pflag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	log.WithFields(log.Fields{
		"port": cfg.Serial.PortName,
		"baud": cfg.Serial.BaudRate,
		"peer": cfg.SNMP.IPAddress,
	}).Info("Starting SCI to SNMP bridge")

	port, err := serialport.Open(cfg.Serial)
	if err != nil {
		log.Fatalf("Serial port error: %v", err)
	}
	defer port.Close()
	log.Infof("Serial port %s opened at %d bps", cfg.Serial.PortName, cfg.Serial.BaudRate)

	emitter, closeEmitter, err := snmp.NewEmitter(cfg.SNMP.IPAddress, cfg.SNMP.Port, cfg.SNMP.Community)
	if err != nil {
		log.Fatalf("SNMP emitter error: %v", err)
	}
	defer closeEmitter()

	var mirror *telemetry.Client
	if cfg.Redis.Addr != "" {
		mirror, err = telemetry.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			// The mirror is best-effort; SNMP emission carries on without it.
			log.Warnf("Telemetry mirror disabled: %v", err)
		} else {
			defer mirror.Close()
			log.Infof("Telemetry mirror connected to %s", cfg.Redis.Addr)
		}
	}

	dec := decoder.New(decoder.Listen{All: cfg.Listen.All, Addr: cfg.Listen.Addr})
	b := bridge.New(port, dec, emitter, mirror)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b.Run(ctx)
	log.Info("Shutting down")
}
