package sci

import (
	"bytes"
	"io"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Framer extracts validated SCI frames from a byte stream. Bytes outside a
// well-formed frame are discarded; a corrupted candidate costs only its
// leading STX, so a bad frame never blocks the ones behind it.
type Framer struct {
	r        io.Reader
	handler  func(Frame)
	errSink  func(error)
	stopChan chan struct{}
	wg       sync.WaitGroup
	buf      []byte
}

// NewFramer creates a Framer reading from r. Each validated frame is passed
// to handler; frame and read errors go to errSink. Call Run to start.
func NewFramer(r io.Reader, handler func(Frame), errSink func(error)) *Framer {
	return &Framer{
		r:        r,
		handler:  handler,
		errSink:  errSink,
		stopChan: make(chan struct{}),
		buf:      make([]byte, 0, 256),
	}
}

// Run starts the read loop in its own goroutine.
func (fr *Framer) Run() {
	fr.wg.Add(1)
	go fr.readLoop()
}

// Stop terminates the read loop and waits for it to exit. The underlying
// reader is not closed; the caller owns it.
func (fr *Framer) Stop() {
	close(fr.stopChan)
	fr.wg.Wait()
}

func (fr *Framer) readLoop() {
	defer fr.wg.Done()

	chunk := make([]byte, 64)
	log.Debug("starting SCI read loop")

	for {
		select {
		case <-fr.stopChan:
			return
		default:
			n, err := fr.r.Read(chunk)
			if n > 0 {
				fr.Feed(chunk[:n])
			}
			if err != nil {
				if err == io.EOF {
					return
				}
				fr.errSink(err)
				time.Sleep(10 * time.Millisecond)
			}
		}
	}
}

// Feed appends data to the rolling buffer and emits every complete frame it
// now contains. Exported so tests can drive the framer without a reader.
func (fr *Framer) Feed(data []byte) {
	fr.buf = append(fr.buf, data...)

	for {
		// Drop everything ahead of the next STX.
		start := bytes.IndexByte(fr.buf, STX)
		if start < 0 {
			fr.buf = fr.buf[:0]
			return
		}
		if start > 0 {
			fr.buf = fr.buf[start:]
		}

		// Need the header to know the declared frame length.
		if len(fr.buf) < 3 {
			return
		}
		frameLen := int(fr.buf[2]&0x0F) + MinFrameLength
		if len(fr.buf) < frameLen {
			return
		}

		frame, err := Parse(fr.buf[:frameLen])
		if err != nil {
			// Resync: discard only the leading STX and scan forward.
			fr.errSink(err)
			fr.buf = fr.buf[1:]
			continue
		}

		fr.buf = fr.buf[frameLen:]
		fr.handler(frame)
	}
}
