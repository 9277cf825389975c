package bridge

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sattelink/sci-snmp-bridge/pkg/decoder"
	"github.com/sattelink/sci-snmp-bridge/pkg/sci"
	"github.com/sattelink/sci-snmp-bridge/pkg/snmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// datagramWriter records each Write call as one datagram.
type datagramWriter struct {
	datagrams [][]byte
}

func (w *datagramWriter) Write(p []byte) (int, error) {
	out := make([]byte, len(p))
	copy(out, p)
	w.datagrams = append(w.datagrams, out)
	return len(p), nil
}

func buildFrame(destSrc, cmd byte, payload []byte) []byte {
	cmdLen := (cmd << 4) | byte(len(payload))
	out := []byte{sci.STX, destSrc, cmdLen}
	out = append(out, payload...)
	return append(out, sci.Checksum(destSrc, cmdLen, payload), sci.ETX)
}

// runPipeline feeds input through a full bridge and returns the captured
// datagrams once the reader is drained.
func runPipeline(t *testing.T, listen decoder.Listen, input []byte) (*datagramWriter, *Counters) {
	t.Helper()

	var w datagramWriter
	r, pw := io.Pipe()
	b := New(r, decoder.New(listen), snmp.NewEmitterWriter(&w, "public"), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()

	_, err := pw.Write(input)
	require.NoError(t, err)
	pw.Close()

	// The pipe write returns once consumed; allow the handler chain to
	// finish before stopping.
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	return &w, b.Counters()
}

func TestPipelineUPDEmitsSixDatagrams(t *testing.T) {
	payload := []byte{0xFF, 0x09, 0x00, 0x00, 0x00, 0x00, 0x3C, 0x00, 0x14, 0x00, 0x64}
	w, counters := runPipeline(t, decoder.Listen{All: true}, buildFrame(0x0A, 0x8, payload))

	require.Len(t, w.datagrams, 6)
	assert.Equal(t, uint64(1), counters.Frames.Load())
	assert.Equal(t, uint64(6), counters.Sent.Load())

	// OIDs arrive in dispatch order: .8 .10 .12 .5 .7 .3.
	wantSuffix := []byte{0x08, 0x0A, 0x0C, 0x05, 0x07, 0x03}
	for i, d := range w.datagrams {
		// The OID is the varbind name; its last sub-identifier sits right
		// before the value TLV. Locate it via the known 9-byte OID shape:
		// 06 09 2B 06 01 04 01 E2 F7 04 <suffix>.
		oidAt := indexOID(d)
		require.GreaterOrEqual(t, oidAt, 0, "datagram %d carries no OID", i)
		assert.Equal(t, wantSuffix[i], d[oidAt+10], "datagram %d", i)
	}
}

// indexOID finds the varbind OID TLV within an emitted datagram.
func indexOID(d []byte) int {
	for i := 0; i+10 < len(d); i++ {
		if d[i] == 0x06 && d[i+1] == 0x09 && d[i+2] == 0x2B && d[i+3] == 0x06 {
			return i
		}
	}
	return -1
}

func TestPipelineFilterSuppressesEmission(t *testing.T) {
	payload := []byte{0xFF, 0x09, 0x00, 0x00, 0x00, 0x00, 0x3C, 0x00, 0x14, 0x00, 0x64}
	w, counters := runPipeline(t, decoder.Listen{Addr: 0xA}, buildFrame(0x0B, 0x8, payload))

	assert.Empty(t, w.datagrams)
	assert.Equal(t, uint64(1), counters.Frames.Load())
	assert.Equal(t, uint64(0), counters.Sent.Load())
}

func TestPipelineRecoversAfterCorruptFrame(t *testing.T) {
	payload := []byte{0xFF, 0x19, 0x01, 0x2C}
	bad := buildFrame(0x0A, 0x8, payload)
	bad[4] ^= 0x01
	good := buildFrame(0x0A, 0x8, payload)

	w, counters := runPipeline(t, decoder.Listen{All: true}, append(bad, good...))

	assert.Len(t, w.datagrams, 1)
	assert.Equal(t, uint64(1), counters.Frames.Load())
	assert.GreaterOrEqual(t, counters.FrameErrors.Load(), uint64(1))
}

func TestPipelineSurroundingNoiseDiscarded(t *testing.T) {
	frame := buildFrame(0x0A, 0x8, []byte{0xFF, 0x03, 0x00})
	input := append([]byte{0xAA, 0xBB, 0xCC}, frame...)
	input = append(input, 0xDD)

	w, counters := runPipeline(t, decoder.Listen{All: true}, input)

	assert.Len(t, w.datagrams, 1)
	assert.Equal(t, uint64(1), counters.Frames.Load())
}

func TestPipelineDecodeErrorCounted(t *testing.T) {
	// Valid frame from an unmapped source address.
	frame := buildFrame(0x01, 0x8, []byte{0xFF, 0x03, 0x00})
	w, counters := runPipeline(t, decoder.Listen{All: true}, frame)

	assert.Empty(t, w.datagrams)
	assert.Equal(t, uint64(1), counters.DecodeErrors.Load())
}

func TestPipelineInterleavedFramesKeepOrder(t *testing.T) {
	upd := buildFrame(0x0A, 0x8, []byte{0xFF, 0x09, 0x00, 0x00, 0x00, 0x00, 0x3C, 0x00, 0x14, 0x00, 0x64})
	volt := buildFrame(0x0B, 0x8, []byte{0xFF, 0x19, 0x01, 0x2C})

	w, counters := runPipeline(t, decoder.Listen{All: true}, append(upd, volt...))

	// Six UPD datagrams first, then the voltage datagram.
	require.Len(t, w.datagrams, 7)
	assert.Equal(t, uint64(2), counters.Frames.Load())

	last := w.datagrams[6]
	oidAt := indexOID(last)
	require.GreaterOrEqual(t, oidAt, 0)
	assert.Equal(t, byte(0x17), last[oidAt+10], "inputVoltage for PA B is unitquery.23")
}
