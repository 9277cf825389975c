package mib

import "encoding/hex"

var paramNames = [paramCount]string{
	ParamStatus:            "status",
	ParamOutPower:          "outPower",
	ParamReflectedPower:    "reflectedPower",
	ParamTemperature:       "temperature",
	ParamInputVoltage:      "inputVoltage",
	ParamGain:              "gain",
	ParamMute:              "mute",
	ParamOperatingIF:       "operatingIF",
	ParamSummaryAlarm:      "summaryAlarm",
	ParamOutOfLockAlarm:    "outOfLockAlarm",
	ParamTempAlarm:         "tempAlarm",
	ParamInputVoltageAlarm: "inputVoltageAlarm",
	ParamOverPowerAlarm:    "overPowerAlarm",
	ParamAlarmLog1:         "alarmLog1",
	ParamAlarmLog2:         "alarmLog2",
	ParamAlarmLog3:         "alarmLog3",
}

// String returns the MIB column name of the parameter.
func (p Param) String() string {
	if p < 0 || p >= paramCount {
		return "unknown"
	}
	return paramNames[p]
}

// names maps hex-encoded OID bytes to symbolic MIB names, for logs and the
// telemetry mirror.
var names = map[string]string{}

func register(oid []byte, name string) {
	names[hex.EncodeToString(oid)] = name
}

func init() {
	register(OidProductName, "product.name")
	register(OidProductVersion, "product.version")
	register(OidInfoUnitType, "info.unitType")
	register(OidInfoOpMode, "info.opMode")
	register(OidInfoPaAVer, "info.paAVer")
	register(OidInfoPaBVer, "info.paBVer")
	register(OidInfoPaCVer, "info.paCVer")
	register(OidConfigUplinkChain, "config.uplinkChain")
	register(OidUpSwitchAlarm, "unitquery.upSwitchAlarm")
	register(OidUpSwitch2Alarm, "unitquery.upSwitch2Alarm")
	register(OidSwitchAlarmLog1, "unitquery.switchAlarmLog1")
	register(OidSwitchAlarmLog2, "unitquery.switchAlarmLog2")
	register(OidSwitchAlarmLog3, "unitquery.switchAlarmLog3")

	for _, u := range []Unit{PaA, PaB, PaC} {
		for p := Param(0); p < paramCount; p++ {
			register(UnitOID(u, p), "pa"+u.Letter()+"."+p.String())
		}
	}
}

// Name returns the symbolic name of a pre-encoded OID, or its hex form when
// the OID is not part of this MIB.
func Name(oid []byte) string {
	if n, ok := names[hex.EncodeToString(oid)]; ok {
		return n
	}
	return hex.EncodeToString(oid)
}
