// Package mib holds the pre-encoded OID coordinates of the PA chassis MIB
// rooted at 1.3.6.1.4.1.58039.
package mib

// Unit identifies a monitored power amplifier by its SCI source address.
type Unit byte

const (
	PaA Unit = 0xA
	PaB Unit = 0xB
	PaC Unit = 0xC
)

// Letter returns the amplifier designator used in formatted alarm strings.
func (u Unit) Letter() string {
	switch u {
	case PaA:
		return "A"
	case PaB:
		return "B"
	case PaC:
		return "C"
	}
	return "?"
}

// UnitFromSource maps an SCI source nibble to a Unit.
func UnitFromSource(src byte) (Unit, bool) {
	switch Unit(src) {
	case PaA, PaB, PaC:
		return Unit(src), true
	}
	return 0, false
}

// Param is a per-unit monitoring variable in the unitquery subtree.
type Param int

const (
	ParamStatus Param = iota
	ParamOutPower
	ParamReflectedPower
	ParamTemperature
	ParamInputVoltage
	ParamGain
	ParamMute
	ParamOperatingIF
	ParamSummaryAlarm
	ParamOutOfLockAlarm
	ParamTempAlarm
	ParamInputVoltageAlarm
	ParamOverPowerAlarm
	ParamAlarmLog1
	ParamAlarmLog2
	ParamAlarmLog3
	paramCount
)

// prefixUnitQuery is 1.3.6.1.4.1.58039.4 in BER sub-identifier form.
var prefixUnitQuery = []byte{0x2B, 0x06, 0x01, 0x04, 0x01, 0xE2, 0xF7, 0x04}

// Scalar OIDs outside the per-unit table, pre-encoded.
var (
	OidProductName       = oid(0x01, 0x01) // product.name        .1.1
	OidProductVersion    = oid(0x01, 0x02) // product.version     .1.2
	OidInfoUnitType      = oid(0x02, 0x01) // info.unitType       .2.1
	OidInfoOpMode        = oid(0x02, 0x02) // info.opMode         .2.2
	OidInfoPaAVer        = oid(0x02, 0x04) // info.paAVer         .2.4
	OidInfoPaBVer        = oid(0x02, 0x05) // info.paBVer         .2.5
	OidInfoPaCVer        = oid(0x02, 0x06) // info.paCVer         .2.6
	OidConfigUplinkChain = oid(0x03, 0x06) // config.uplinkChain  .3.6
	OidUpSwitchAlarm     = oid(0x04, 0x3C) // unitquery.60
	OidUpSwitch2Alarm    = oid(0x04, 0x3D) // unitquery.61
	OidSwitchAlarmLog1   = oid(0x04, 0x44) // unitquery.68
	OidSwitchAlarmLog2   = oid(0x04, 0x45) // unitquery.69
	OidSwitchAlarmLog3   = oid(0x04, 0x46) // unitquery.70
)

// unitSuffix maps (unit, param) to the single sub-identifier appended to
// the unitquery prefix. Values are the fixed per-unit offsets of the MIB.
var unitSuffix = map[Unit][paramCount]byte{
	PaA: {
		ParamStatus:            0x01, // .1
		ParamOutPower:          0x03, // .3
		ParamReflectedPower:    0x04, // .4
		ParamTemperature:       0x05, // .5
		ParamInputVoltage:      0x06, // .6
		ParamGain:              0x07, // .7
		ParamMute:              0x08, // .8
		ParamOperatingIF:       0x09, // .9
		ParamSummaryAlarm:      0x0A, // .10
		ParamOutOfLockAlarm:    0x0B, // .11
		ParamTempAlarm:         0x0C, // .12
		ParamInputVoltageAlarm: 0x0D, // .13
		ParamOverPowerAlarm:    0x0E, // .14
		ParamAlarmLog1:         0x3E, // .62
		ParamAlarmLog2:         0x3F, // .63
		ParamAlarmLog3:         0x40, // .64
	},
	PaB: {
		ParamStatus:            0x02, // .2
		ParamOutPower:          0x14, // .20
		ParamReflectedPower:    0x15, // .21
		ParamTemperature:       0x16, // .22
		ParamInputVoltage:      0x17, // .23
		ParamGain:              0x18, // .24
		ParamMute:              0x19, // .25
		ParamOperatingIF:       0x1A, // .26
		ParamSummaryAlarm:      0x1B, // .27
		ParamOutOfLockAlarm:    0x1C, // .28
		ParamTempAlarm:         0x1D, // .29
		ParamInputVoltageAlarm: 0x1E, // .30
		ParamOverPowerAlarm:    0x1F, // .31
		ParamAlarmLog1:         0x41, // .65
		ParamAlarmLog2:         0x42, // .66
		ParamAlarmLog3:         0x43, // .67
	},
	PaC: {
		ParamStatus:            0x28, // .40
		ParamOutPower:          0x29, // .41
		ParamReflectedPower:    0x2A, // .42
		ParamTemperature:       0x2B, // .43
		ParamInputVoltage:      0x2C, // .44
		ParamGain:              0x2D, // .45
		ParamMute:              0x2E, // .46
		ParamOperatingIF:       0x2F, // .47
		ParamSummaryAlarm:      0x30, // .48
		ParamOutOfLockAlarm:    0x31, // .49
		ParamTempAlarm:         0x32, // .50
		ParamInputVoltageAlarm: 0x33, // .51
		ParamOverPowerAlarm:    0x34, // .52
		ParamAlarmLog1:         0x4A, // .74
		ParamAlarmLog2:         0x4B, // .75
		ParamAlarmLog3:         0x4C, // .76
	},
}

// UnitOID returns the pre-encoded OID of param for unit, under the
// unitquery subtree.
func UnitOID(u Unit, p Param) []byte {
	return oid(0x04, unitSuffix[u][p])
}

// VersionOID returns the per-unit firmware version OID in the info subtree.
func VersionOID(u Unit) []byte {
	switch u {
	case PaB:
		return OidInfoPaBVer
	case PaC:
		return OidInfoPaCVer
	}
	return OidInfoPaAVer
}

// SwitchAlarmLogOID returns the global switch alarm log OID for a 1-based
// log index.
func SwitchAlarmLogOID(index int) []byte {
	switch index {
	case 2:
		return OidSwitchAlarmLog2
	case 3:
		return OidSwitchAlarmLog3
	}
	return OidSwitchAlarmLog1
}

// AlarmLogParam returns the per-unit alarm log Param for a 1-based index.
func AlarmLogParam(index int) Param {
	switch index {
	case 2:
		return ParamAlarmLog2
	case 3:
		return ParamAlarmLog3
	}
	return ParamAlarmLog1
}

// oid builds enterprise-prefix + suffix. All sub-identifiers used by this
// MIB are below 128 and therefore encode as single bytes.
func oid(suffix ...byte) []byte {
	// 1.3.6.1.4.1.58039 = 2B 06 01 04 01 E2 F7
	out := make([]byte, 0, 7+len(suffix))
	out = append(out, 0x2B, 0x06, 0x01, 0x04, 0x01, 0xE2, 0xF7)
	return append(out, suffix...)
}

// PrefixUnitQuery returns a copy of the unitquery subtree prefix bytes.
func PrefixUnitQuery() []byte {
	out := make([]byte, len(prefixUnitQuery))
	copy(out, prefixUnitQuery)
	return out
}
