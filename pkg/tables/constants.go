package tables

// Normative constants used as table defaults.
const (
	STCTemperatureC   = 25.0  // °C, standard test conditions
	IscSafetyFactor   = 1.25  // normative margin on short-circuit current
	CopperResistivity = 0.023 // Ω·mm²/m, copper at operating temperature
	DropTargetPercent = 1.0   // % design target, advisory

	// FuseParallelThreshold is a simplified fuse-sizing rule: string fuses
	// are required once an MPPT input carries more than this many parallel
	// strings. It is not a selectivity calculation.
	FuseParallelThreshold = 2

	VoltageMono        = 230.0 // V phase-neutral
	VoltageTri         = 400.0 // V phase-phase
	MicroBranchVoltage = 230.0 // V, microinverter branches are single-phase

	SubscriptionHeadroom = 1.0 // kVA per installed kWc
)

// Fallbacks used when external data is missing.
const (
	DefaultVmaxDCMono = 600.0  // V
	DefaultVmaxDCTri  = 1000.0 // V
	DefaultVminMPPT   = 80.0   // V
	DefaultTempMinC   = -10.0  // °C
	DefaultTempMaxC   = 70.0   // °C cell temperature
)

// RCD types.
const (
	RCDTypeA = "A"
	RCDTypeB = "B"
	RCDTypeF = "F"
)
