// Package snmp builds SNMPv1 GetResponse datagrams from single varbinds
// and ships them over UDP. Only the BER shapes this bridge emits are
// implemented.
package snmp

// ASN.1 BER tags used by the bridge.
const (
	tagInteger     = 0x02
	tagOctetString = 0x04
	tagOID         = 0x06
	tagSequence    = 0x30
	tagGetResponse = 0xA2
)

// Value is a varbind value: Integer or OctetString.
type Value interface {
	appendTo(buf []byte) []byte
}

// Integer is an INTEGER varbind value. Signed selects two's-complement
// interpretation of V; unsigned values get a leading 0x00 pad when the
// top bit would otherwise read as a sign.
type Integer struct {
	Signed bool
	V      int32
}

// OctetString is an OCTET STRING varbind value.
type OctetString []byte

// Binding pairs a pre-encoded OID with the value to publish.
type Binding struct {
	OID   []byte
	Value Value
}

// appendLength writes a BER length: short form below 128, long form with a
// byte-count prefix otherwise.
func appendLength(buf []byte, n int) []byte {
	if n < 128 {
		return append(buf, byte(n))
	}
	var lenBytes []byte
	for v := n; v > 0; v >>= 8 {
		lenBytes = append([]byte{byte(v & 0xFF)}, lenBytes...)
	}
	buf = append(buf, byte(0x80|len(lenBytes)))
	return append(buf, lenBytes...)
}

// appendTLV writes tag, length and content.
func appendTLV(buf []byte, tag byte, content []byte) []byte {
	buf = append(buf, tag)
	buf = appendLength(buf, len(content))
	return append(buf, content...)
}

func (i Integer) appendTo(buf []byte) []byte {
	return appendTLV(buf, tagInteger, encodeIntegerBody(i.Signed, i.V))
}

func (s OctetString) appendTo(buf []byte) []byte {
	return appendTLV(buf, tagOctetString, s)
}

// encodeIntegerBody produces the minimal big-endian two's-complement
// content octets for v. Zero is the single byte 0x00.
func encodeIntegerBody(signed bool, v int32) []byte {
	if v == 0 {
		return []byte{0x00}
	}

	if signed {
		// Emit all four bytes, then strip redundant leading octets while
		// the sign bit of the next byte still agrees.
		out := []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
		if v < 0 {
			for len(out) > 1 && out[0] == 0xFF && out[1]&0x80 != 0 {
				out = out[1:]
			}
		} else {
			for len(out) > 1 && out[0] == 0x00 && out[1]&0x80 == 0 {
				out = out[1:]
			}
		}
		return out
	}

	// Unsigned: minimal magnitude bytes, padded with 0x00 when the MSB
	// would read as a sign bit.
	u := uint32(v)
	var out []byte
	for ; u > 0; u >>= 8 {
		out = append([]byte{byte(u & 0xFF)}, out...)
	}
	if out[0]&0x80 != 0 {
		out = append([]byte{0x00}, out...)
	}
	return out
}

// appendOID writes an OBJECT IDENTIFIER TLV around already-encoded
// sub-identifier bytes.
func appendOID(buf []byte, oid []byte) []byte {
	return appendTLV(buf, tagOID, oid)
}
