// Package bridge wires the SCI framer, decoder and SNMP emitter into the
// forward-only pipeline.
package bridge

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/sattelink/sci-snmp-bridge/pkg/decoder"
	"github.com/sattelink/sci-snmp-bridge/pkg/mib"
	"github.com/sattelink/sci-snmp-bridge/pkg/sci"
	"github.com/sattelink/sci-snmp-bridge/pkg/snmp"
	"github.com/sattelink/sci-snmp-bridge/pkg/telemetry"
	log "github.com/sirupsen/logrus"
)

// Counters tracks runtime error accounting. All fields are cumulative.
type Counters struct {
	Frames       atomic.Uint64
	FrameErrors  atomic.Uint64
	DecodeErrors atomic.Uint64
	SendErrors   atomic.Uint64
	Sent         atomic.Uint64
}

// Bridge owns the pipeline. Decoding and emission run synchronously on the
// framer's goroutine, so bindings of one frame always hit the wire
// contiguously and in dispatch order.
type Bridge struct {
	framer   *sci.Framer
	decoder  *decoder.Decoder
	emitter  *snmp.Emitter
	mirror   *telemetry.Client
	counters Counters
}

// New builds a Bridge reading frames from r. mirror may be nil.
func New(r io.Reader, dec *decoder.Decoder, em *snmp.Emitter, mirror *telemetry.Client) *Bridge {
	b := &Bridge{
		decoder: dec,
		emitter: em,
		mirror:  mirror,
	}
	b.framer = sci.NewFramer(r, b.handleFrame, b.handleFrameError)
	return b
}

// Run starts the pipeline and blocks until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) {
	b.framer.Run()
	<-ctx.Done()
	b.framer.Stop()
}

// Counters exposes the error accounting, primarily for tests.
func (b *Bridge) Counters() *Counters {
	return &b.counters
}

func (b *Bridge) handleFrame(f sci.Frame) {
	b.counters.Frames.Add(1)

	bindings, err := b.decoder.Decode(f)
	if err != nil {
		b.counters.DecodeErrors.Add(1)
		log.WithFields(log.Fields{
			"src": f.Src(),
			"cmd": f.Cmd,
		}).Warnf("SCI decode error: %v", err)
		return
	}

	for _, binding := range bindings {
		if err := b.emitter.Send(binding); err != nil {
			b.counters.SendErrors.Add(1)
			log.WithField("oid", mib.Name(binding.OID)).Errorf("SNMP send error: %v", err)
			continue
		}
		b.counters.Sent.Add(1)

		if b.mirror != nil {
			if err := b.mirror.Mirror(binding); err != nil {
				log.WithField("oid", mib.Name(binding.OID)).Warnf("telemetry mirror error: %v", err)
			}
		}
	}
}

func (b *Bridge) handleFrameError(err error) {
	b.counters.FrameErrors.Add(1)
	log.Warnf("SCI frame error: %v", err)
}
