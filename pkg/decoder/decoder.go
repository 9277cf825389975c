// Package decoder turns validated SCI frames into SNMP bindings according
// to the chassis MIB mapping.
package decoder

import (
	"fmt"

	"github.com/sattelink/sci-snmp-bridge/pkg/mib"
	"github.com/sattelink/sci-snmp-bridge/pkg/sci"
	"github.com/sattelink/sci-snmp-bridge/pkg/snmp"
	log "github.com/sirupsen/logrus"
)

// SCI command families.
const (
	cmdUpdate = 0x8
	cmdAck    = 0xE
	cmdNack   = 0xF
)

// Subcommands of the update family, carried in payload[1] after the 0xFF
// marker byte.
const (
	subSWVersion    = 0x00
	subFreqBand     = 0x03
	subFreqSetting  = 0x04
	subAlarmLog     = 0x05
	subRedundant    = 0x06
	subPAUpdate     = 0x09
	subSystemAlarms = 0x0C
	subLOFreq       = 0x17
	subTxFreq       = 0x18
	subInputVoltage = 0x19
	subMACAddress   = 0x20
	subHostName     = 0x21
	subDHCPConfig   = 0x31
)

// Alarm log unit kinds (payload[4] under sub 0x05).
const (
	alarmUnitPA       = 0x01
	alarmUnitSwitches = 0x04
)

// Listen is the RS-485 source address filter.
type Listen struct {
	All  bool
	Addr byte
}

// Decoder maps frames to bindings.
type Decoder struct {
	listen Listen
}

// New creates a Decoder with the given address filter.
func New(listen Listen) *Decoder {
	return &Decoder{listen: listen}
}

// Decode interprets one validated frame and returns the bindings it
// produces, in emission order. Filtered and unmapped frames return an empty
// slice and no error; malformed payloads return a decode error.
func (d *Decoder) Decode(f sci.Frame) ([]snmp.Binding, error) {
	src := f.Src()
	if !d.listen.All && src != d.listen.Addr {
		log.WithField("src", src).Debug("frame filtered by listen address")
		return nil, nil
	}

	unit, ok := mib.UnitFromSource(src)
	if !ok {
		return nil, fmt.Errorf("unknown source address 0x%X", src)
	}

	switch f.Cmd {
	case cmdUpdate:
		return d.decodeUpdate(unit, f.Payload)
	case cmdAck, cmdNack:
		// Handshake traffic; nothing in the MIB.
		return nil, nil
	default:
		log.WithFields(log.Fields{"cmd": f.Cmd, "src": src}).Debug("unmapped SCI command")
		return nil, nil
	}
}

// decodeUpdate dispatches the 0x8 update family on the subcommand byte.
func (d *Decoder) decodeUpdate(unit mib.Unit, p []byte) ([]snmp.Binding, error) {
	if len(p) < 2 || p[0] != 0xFF {
		return nil, nil
	}

	switch p[1] {
	case subPAUpdate:
		return decodePAUpdate(unit, p)
	case subSWVersion:
		return decodeSWVersion(unit, p)
	case subFreqBand:
		return decodeFreqBand(unit, p)
	case subAlarmLog:
		return decodeAlarmLog(unit, p)
	case subRedundant:
		return decodeRedundant(unit, p)
	case subSystemAlarms:
		return decodeSystemAlarms(unit, p)
	case subLOFreq:
		return decodeLOFreq(unit, p)
	case subTxFreq:
		return decodeWord16(unit, mib.ParamOperatingIF, p)
	case subInputVoltage:
		return decodeWord16(unit, mib.ParamInputVoltage, p)
	case subHostName:
		return decodeHostName(p)
	case subFreqSetting, subMACAddress, subDHCPConfig:
		// Nothing in the MIB.
		return nil, nil
	default:
		log.WithField("subcmd", p[1]).Debug("unmapped update subcommand")
		return nil, nil
	}
}

// decodePAUpdate handles the primary telemetry payload (UPD). Emission
// order is fixed: mute, summaryAlarm, tempAlarm, temperature, gain,
// outPower.
func decodePAUpdate(unit mib.Unit, p []byte) ([]snmp.Binding, error) {
	if len(p) < 11 {
		return nil, fmt.Errorf("UPD payload too short: %d bytes", len(p))
	}

	temperature := int16(uint16(p[5])<<8 | uint16(p[6]))

	return []snmp.Binding{
		{OID: mib.UnitOID(unit, mib.ParamMute), Value: snmp.Integer{V: int32(p[2])}},
		{OID: mib.UnitOID(unit, mib.ParamSummaryAlarm), Value: snmp.Integer{V: bit(p[3], 0x80)}},
		{OID: mib.UnitOID(unit, mib.ParamTempAlarm), Value: snmp.Integer{V: bit(p[4], 0x04)}},
		{OID: mib.UnitOID(unit, mib.ParamTemperature), Value: snmp.Integer{Signed: true, V: int32(temperature)}},
		{OID: mib.UnitOID(unit, mib.ParamGain), Value: snmp.Integer{V: int32(uint16(p[7])<<8 | uint16(p[8]))}},
		{OID: mib.UnitOID(unit, mib.ParamOutPower), Value: snmp.Integer{V: int32(uint16(p[9])<<8 | uint16(p[10]))}},
	}, nil
}

// decodeSWVersion assembles the firmware version string and publishes it to
// both product.version and the per-unit info column.
func decodeSWVersion(unit mib.Unit, p []byte) ([]snmp.Binding, error) {
	if len(p) < 10 {
		return nil, fmt.Errorf("version payload too short: %d bytes", len(p))
	}

	version := fmt.Sprintf("%02x.%02x.%02x.%02x-%02x.%02x-%c%c",
		p[2], p[3], p[4], p[5], p[6], p[7], p[8], p[9])

	return []snmp.Binding{
		{OID: mib.OidProductVersion, Value: snmp.OctetString(version)},
		{OID: mib.VersionOID(unit), Value: snmp.OctetString(version)},
	}, nil
}

// decodeFreqBand maps the band selector onto the LO frequency in MHz.
func decodeFreqBand(unit mib.Unit, p []byte) ([]snmp.Binding, error) {
	if len(p) < 3 {
		return nil, fmt.Errorf("frequency band payload too short: %d bytes", len(p))
	}
	freq := int32(12800)
	if p[2] == 0 {
		freq = 13050
	}
	return []snmp.Binding{
		{OID: mib.UnitOID(unit, mib.ParamOperatingIF), Value: snmp.Integer{V: freq}},
	}, nil
}

// decodeAlarmLog publishes a formatted alarm history entry. The event id is
// read from payload[1], matching the deployed converter; since that byte is
// the subcommand itself (0x05), the 0x11..0x15 window never matches and no
// entry is emitted on this path until the chassis vendor clarifies which
// byte carries the event id.
func decodeAlarmLog(unit mib.Unit, p []byte) ([]snmp.Binding, error) {
	if len(p) < 5 {
		return nil, fmt.Errorf("alarm log payload too short: %d bytes", len(p))
	}

	eventID := p[1]
	if eventID < 0x11 || eventID > 0x15 {
		return nil, nil
	}
	logIndex := int(eventID) - 0x11 + 1
	if logIndex > 3 {
		return nil, nil
	}

	var entry string
	var oid []byte
	switch p[4] {
	case alarmUnitPA:
		entry = fmt.Sprintf("PA %s: %02x%02x", unit.Letter(), p[2], p[3])
		oid = mib.UnitOID(unit, mib.AlarmLogParam(logIndex))
	case alarmUnitSwitches:
		entry = fmt.Sprintf("Switches: %02x%02x", p[2], p[3])
		oid = mib.SwitchAlarmLogOID(logIndex)
	default:
		return nil, nil
	}

	return []snmp.Binding{{OID: oid, Value: snmp.OctetString(entry)}}, nil
}

// decodeRedundant handles the redundant system status word pair: WW is
// read from payload[3] and YY from payload[4].
func decodeRedundant(unit mib.Unit, p []byte) ([]snmp.Binding, error) {
	if len(p) < 5 {
		return nil, fmt.Errorf("redundant status payload too short: %d bytes", len(p))
	}
	system := p[3]
	sw := p[4]

	unitType := int32(0) // 1:1
	if system&0x01 != 0 {
		unitType = 3 // 1:2
	}
	if system&0x80 != 0 {
		unitType = 1 // standalone
	}

	uplink := int32(2)
	switch sw {
	case 0x01:
		uplink = 0
	case 0x02:
		uplink = 1
	}

	paStatus := int32(1)
	if sw == 0x01 {
		paStatus = 0
	}

	return []snmp.Binding{
		{OID: mib.OidInfoUnitType, Value: snmp.Integer{V: unitType}},
		{OID: mib.OidInfoOpMode, Value: snmp.Integer{V: bit(system, 0x02)}},
		{OID: mib.OidConfigUplinkChain, Value: snmp.Integer{V: uplink}},
		{OID: mib.UnitOID(unit, mib.ParamStatus), Value: snmp.Integer{V: paStatus}},
	}, nil
}

// decodeSystemAlarms handles system and switch alarm words: VV, WW and YY
// are read from payload[2], payload[3] and payload[4]. Switch alarm
// precedence: out of position, unable to move, communication alarm.
func decodeSystemAlarms(unit mib.Unit, p []byte) ([]snmp.Binding, error) {
	if len(p) < 5 {
		return nil, fmt.Errorf("system alarm payload too short: %d bytes", len(p))
	}
	system := p[2] // VV
	pa := p[3]     // WW
	sw := p[4]     // YY

	switch1 := int32(0)
	if sw&0x01 != 0 {
		switch1 = 2
	} else if sw&0x04 != 0 {
		switch1 = 3
	} else if system&0x01 != 0 {
		switch1 = 1
	}

	switch2 := int32(0)
	if sw&0x08 != 0 {
		switch2 = 2
	} else if sw&0x20 != 0 {
		switch2 = 3
	} else if system&0x02 != 0 {
		switch2 = 1
	}

	var summaryBit byte
	switch unit {
	case mib.PaA:
		summaryBit = 0x01
	case mib.PaB:
		summaryBit = 0x02
	case mib.PaC:
		summaryBit = 0x04
	}

	return []snmp.Binding{
		{OID: mib.OidUpSwitchAlarm, Value: snmp.Integer{V: switch1}},
		{OID: mib.OidUpSwitch2Alarm, Value: snmp.Integer{V: switch2}},
		{OID: mib.UnitOID(unit, mib.ParamSummaryAlarm), Value: snmp.Integer{V: bit(pa, summaryBit)}},
	}, nil
}

// decodeLOFreq handles the LO frequency update (FF 17 17 L1 L2 ...). The
// frequency word sits one byte deeper than in the 0x18/0x19 layouts.
func decodeLOFreq(unit mib.Unit, p []byte) ([]snmp.Binding, error) {
	if len(p) < 5 {
		return nil, fmt.Errorf("LO frequency payload too short: %d bytes", len(p))
	}
	if p[2] != subLOFreq {
		return nil, nil
	}
	value := int32(uint16(p[3])<<8 | uint16(p[4]))
	return []snmp.Binding{
		{OID: mib.UnitOID(unit, mib.ParamOperatingIF), Value: snmp.Integer{V: value}},
	}, nil
}

// decodeHostName publishes the 11-character ASCII host name
// (FF 21 Y1..Y11).
func decodeHostName(p []byte) ([]snmp.Binding, error) {
	if len(p) < 13 {
		return nil, fmt.Errorf("host name payload too short: %d bytes", len(p))
	}
	name := make([]byte, 11)
	copy(name, p[2:13])
	return []snmp.Binding{
		{OID: mib.OidProductName, Value: snmp.OctetString(name)},
	}, nil
}

// decodeWord16 emits one unsigned 16-bit value from payload offsets 2..3.
func decodeWord16(unit mib.Unit, param mib.Param, p []byte) ([]snmp.Binding, error) {
	if len(p) < 4 {
		return nil, fmt.Errorf("payload too short for 16-bit value: %d bytes", len(p))
	}
	value := int32(uint16(p[2])<<8 | uint16(p[3]))
	return []snmp.Binding{
		{OID: mib.UnitOID(unit, param), Value: snmp.Integer{V: value}},
	}, nil
}

func bit(b, mask byte) int32 {
	if b&mask != 0 {
		return 1
	}
	return 0
}
