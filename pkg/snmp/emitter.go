package snmp

import (
	"encoding/hex"
	"fmt"
	"io"
	"net"

	log "github.com/sirupsen/logrus"
)

// Emitter ships one GetResponse datagram per binding to a fixed UDP peer.
// It owns the process-wide request-id counter: incremented exactly once per
// emitted message, starting at 1, wrapping on overflow.
type Emitter struct {
	conn      io.Writer
	community string
	requestID uint32
}

// NewEmitter dials the UDP peer and returns an Emitter ready to send.
func NewEmitter(addr string, port int, community string) (*Emitter, func() error, error) {
	if community == "" {
		community = DefaultCommunity
	}
	conn, err := net.Dial("udp", net.JoinHostPort(addr, fmt.Sprintf("%d", port)))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dial SNMP peer: %v", err)
	}
	return &Emitter{conn: conn, community: community}, conn.Close, nil
}

// NewEmitterWriter wires an Emitter to an arbitrary writer. Used by tests.
func NewEmitterWriter(w io.Writer, community string) *Emitter {
	if community == "" {
		community = DefaultCommunity
	}
	return &Emitter{conn: w, community: community}
}

// Send marshals b and transmits it as a single datagram. The binding is
// dropped on send failure; there is no retry.
func (e *Emitter) Send(b Binding) error {
	e.requestID++
	packet := Marshal(e.community, e.requestID, b)

	n, err := e.conn.Write(packet)
	if err != nil {
		return fmt.Errorf("UDP send failed: %v", err)
	}
	if n != len(packet) {
		return fmt.Errorf("short UDP write: %d of %d bytes", n, len(packet))
	}
	log.WithFields(log.Fields{
		"request_id": e.requestID,
		"bytes":      len(packet),
	}).Debugf("SNMP packet sent: %s", hex.EncodeToString(packet))
	return nil
}

// RequestID returns the id of the last emitted message.
func (e *Emitter) RequestID() uint32 {
	return e.requestID
}
