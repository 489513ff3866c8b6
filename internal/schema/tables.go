package schema

// Keys read by Transform.
const (
	KeyNominalPower = "NOMPOWER"
	KeyLoadPercent  = "LOADPCT"
	KeyWatts        = "WATTS"
)

// removeKeys is protocol metadata that carries no telemetry.
var removeKeys = []string{
	"APC",
	"DATE",
	"HOSTNAME",
	"VERSION",
	"CABLE",
	"DRIVER",
	"UPSMODE",
	"STARTTIME",
	"MASTER",
	"MASTERUPD",
	"END APC",
}

var tagKeys = []string{
	"UPSNAME",
	"MODEL",
	"APCMODEL",
	"FIRMWARE",
	"SERIALNO",
	"STATUS",
}

// dataTypes is the type table for apcupsd status keys, values in the units
// apcupsd reports once the unit suffix is stripped.
var dataTypes = map[string]Kind{
	// identity and state
	"UPSNAME":  String,
	"MODEL":    String,
	"APCMODEL": String,
	"FIRMWARE": String,
	"SERIALNO": String,
	"STATUS":   String,
	"SENSE":    String,
	"LASTXFER": String,
	"SELFTEST": String,
	"STESTI":   String,
	"STATFLAG": String,
	"DIPSW":    String,
	"REG1":     String,
	"REG2":     String,
	"REG3":     String,
	"ALARMDEL": String,
	"BATTDATE": String,
	"MANDATE":  String,
	"XONBATT":  String,
	"XOFFBATT": String,

	// volts, percent, minutes, hertz, celsius
	"LINEV":    Float,
	"MAXLINEV": Float,
	"MINLINEV": Float,
	"OUTPUTV":  Float,
	"LOTRANS":  Float,
	"HITRANS":  Float,
	"BATTV":    Float,
	"NOMOUTV":  Float,
	"NOMINV":   Float,
	"NOMBATTV": Float,
	"LINEFREQ": Float,
	"OUTCURNT": Float,
	"LOADPCT":  Float,
	"LOADAPNT": Float,
	"BCHARGE":  Float,
	"MBATTCHG": Float,
	"RETPCT":   Float,
	"HUMIDITY": Float,
	"TIMELEFT": Float,
	"MINTIMEL": Float,
	"ITEMP":    Float,
	"AMBTEMP":  Float,

	// seconds, counts, watts, volt-amps
	"MAXTIME":   Int,
	"DWAKE":     Int,
	"DSHUTD":    Int,
	"DLOWBATT":  Int,
	"NUMXFERS":  Int,
	"TONBATT":   Int,
	"CUMONBATT": Int,
	"EXTBATTS":  Int,
	"BADBATTS":  Int,
	"NOMPOWER":  Int,
	"NOMAPNT":   Int,
}

// Default returns the schema used by the exporter.
func Default() *Schema {
	s, err := New(dataTypes, removeKeys, tagKeys)
	if err != nil {
		panic(err)
	}
	return s
}
