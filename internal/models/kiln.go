package models

// Temperature units accepted for raw sensor input.
const (
	UnitCelsius = "Celsius"
	UnitKelvin  = "Kelvin"
)

// CelsiusOffset is the Celsius-to-Kelvin shift used throughout.
const CelsiusOffset = 273.0

// KilnParams carries raw, pre-validation analysis input as supplied by the
// operator (CLI flags or API request body). Temperatures are in TempUnit.
type KilnParams struct {
	DiameterM        float64 `json:"diameter_m"`       // shell diameter, meters
	AmbientVelocity  float64 `json:"ambient_velocity"` // m/s
	AmbientTemp      float64 `json:"ambient_temp"`     // in TempUnit
	TempUnit         string  `json:"temp_unit"`        // Celsius or Kelvin
	Emissivity       float64 `json:"emissivity"`       // 0..1
	IntervalM        int     `json:"interval_m"`       // distance between readings, meters
	ClinkerKgPerHour float64 `json:"clinker_kg_per_hour"`
}

// KilnConfig is validated, immutable kiln geometry and ambient conditions.
// All temperatures are Kelvin.
type KilnConfig struct {
	DiameterM        float64 `json:"diameter_m"`
	AmbientVelocity  float64 `json:"ambient_velocity"`
	AmbientTempK     float64 `json:"ambient_temp_k"`
	Emissivity       float64 `json:"emissivity"`
	IntervalM        int     `json:"interval_m"`
	ClinkerKgPerHour float64 `json:"clinker_kg_per_hour"`
	SectionAreaM2    float64 `json:"section_area_m2"` // π · diameter · interval
}

// Reading is the representative surface temperature at one location along
// the kiln, measured from the outlet side.
type Reading struct {
	LengthM float64 `json:"length_m"`
	TempK   float64 `json:"temp_k"`
}
