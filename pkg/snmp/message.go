package snmp

// DefaultCommunity is the community string used when none is configured.
const DefaultCommunity = "public"

// snmpVersion1 is the version field of every emitted message.
const snmpVersion1 = 0

// Marshal builds a complete SNMPv1 GetResponse message carrying exactly one
// varbind. Inner TLVs are built into their own buffers and wrapped outward
// so every length is known before it is written.
func Marshal(community string, requestID uint32, b Binding) []byte {
	// VarBind ::= SEQUENCE { name, value }
	var varBind []byte
	varBind = appendOID(varBind, b.OID)
	varBind = b.Value.appendTo(varBind)

	// VarBindList ::= SEQUENCE OF VarBind (always one here).
	var varBindList []byte
	varBindList = appendTLV(varBindList, tagSequence, varBind)

	// GetResponse-PDU ::= request-id, error-status, error-index, varbinds.
	var pdu []byte
	pdu = append(pdu, tagInteger, 0x04,
		byte(requestID>>24), byte(requestID>>16), byte(requestID>>8), byte(requestID))
	pdu = append(pdu, tagInteger, 0x01, 0x00) // error-status noError
	pdu = append(pdu, tagInteger, 0x01, 0x00) // error-index 0
	pdu = appendTLV(pdu, tagSequence, varBindList)

	// Message ::= SEQUENCE { version, community, PDU }.
	var msg []byte
	msg = append(msg, tagInteger, 0x01, snmpVersion1)
	msg = appendTLV(msg, tagOctetString, []byte(community))
	msg = appendTLV(msg, tagGetResponse, pdu)

	var out []byte
	return appendTLV(out, tagSequence, msg)
}
