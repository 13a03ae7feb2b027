package physics

import (
	"math"

	"kiln-shell-audit/internal/models"
)

// StefanBoltzmann is the radiation constant used by the loss correlation.
const StefanBoltzmann = 5.67e-8

// Forced convection takes over above this ambient air velocity.
const forcedConvectionThreshold = 3.0 // m/s

// Kiln evaluates shell heat loss for one validated kiln configuration.
// All methods are pure; a Kiln is safe to share.
type Kiln struct {
	cfg models.KilnConfig
}

// New validates params, converts the ambient temperature to Kelvin and
// derives the section area. Every violated bound is a ConfigError carrying
// the offending value.
func New(p models.KilnParams) (*Kiln, error) {
	if p.DiameterM <= 0 || p.DiameterM > 100 {
		return nil, &models.ConfigError{Field: "diameter_m", Value: p.DiameterM, Reason: "must be in (0, 100]"}
	}
	if p.AmbientVelocity < 0 || p.AmbientVelocity > 100 {
		return nil, &models.ConfigError{Field: "ambient_velocity", Value: p.AmbientVelocity, Reason: "must be in [0, 100]"}
	}
	if p.AmbientTemp < 0 || p.AmbientTemp > 373 {
		return nil, &models.ConfigError{Field: "ambient_temp", Value: p.AmbientTemp, Reason: "must be in [0, 373]"}
	}
	if p.TempUnit != models.UnitCelsius && p.TempUnit != models.UnitKelvin {
		return nil, &models.ConfigError{Field: "temp_unit", Value: p.TempUnit, Reason: "must be Celsius or Kelvin"}
	}
	if p.Emissivity < 0 || p.Emissivity > 1 {
		return nil, &models.ConfigError{Field: "emissivity", Value: p.Emissivity, Reason: "must be in [0, 1]"}
	}
	if p.IntervalM < 1 || p.IntervalM > 10 {
		return nil, &models.ConfigError{Field: "interval_m", Value: p.IntervalM, Reason: "must be an integer in [1, 10]"}
	}
	if p.ClinkerKgPerHour <= 0 || p.ClinkerKgPerHour > 1e8 {
		return nil, &models.ConfigError{Field: "clinker_kg_per_hour", Value: p.ClinkerKgPerHour, Reason: "must be in (0, 1e8]"}
	}

	ambientK := p.AmbientTemp
	if p.TempUnit == models.UnitCelsius {
		ambientK += models.CelsiusOffset
	}

	return &Kiln{cfg: models.KilnConfig{
		DiameterM:        p.DiameterM,
		AmbientVelocity:  p.AmbientVelocity,
		AmbientTempK:     ambientK,
		Emissivity:       p.Emissivity,
		IntervalM:        p.IntervalM,
		ClinkerKgPerHour: p.ClinkerKgPerHour,
		SectionAreaM2:    math.Pi * p.DiameterM * float64(p.IntervalM),
	}}, nil
}

// Config returns the validated configuration.
func (k *Kiln) Config() models.KilnConfig {
	return k.cfg
}

// Radiation is the radiative loss of one kiln segment at surface temperature
// tempK, in kcal/hr. Negative when tempK is below ambient; that sign is a
// data-quality signal and is deliberately not clamped.
func (k *Kiln) Radiation(tempK float64) float64 {
	return k.cfg.Emissivity * k.cfg.SectionAreaM2 * StefanBoltzmann *
		(math.Pow(tempK, 4) - math.Pow(k.cfg.AmbientTempK, 4))
}

// Convection is the convective loss of one kiln segment at surface
// temperature tempK, in kcal/hr. Under natural convection (ambient velocity
// below 3 m/s) a temperature below ambient puts the fractional-exponent term
// on a negative base, which has no real value; that case is a DomainError.
func (k *Kiln) Convection(tempK float64) (float64, error) {
	ambient := k.cfg.AmbientTempK
	if k.cfg.AmbientVelocity < forcedConvectionThreshold {
		if tempK < ambient {
			return 0, &models.DomainError{Op: "natural convection", TempK: tempK}
		}
		return 80.33 * math.Pow((tempK+ambient)/2, -0.724) *
			math.Pow(tempK-ambient, 1.333) * k.cfg.SectionAreaM2, nil
	}
	return 28.03 * math.Pow(tempK*ambient, -0.351) *
		math.Pow(k.cfg.AmbientVelocity, 0.805) *
		math.Pow(k.cfg.DiameterM, -0.195) *
		(tempK - ambient) * k.cfg.SectionAreaM2, nil
}

// EstimateLoss runs both correlations over a temperature series and
// normalizes each segment's loss by the clinker production rate, yielding
// kcal per kg clinker per location.
func (k *Kiln) EstimateLoss(tempsK []float64) (models.LossEstimate, error) {
	est := models.LossEstimate{
		RadiationPerKg:  make([]float64, len(tempsK)),
		ConvectionPerKg: make([]float64, len(tempsK)),
		TotalPerKg:      make([]float64, len(tempsK)),
	}
	rate := k.cfg.ClinkerKgPerHour
	for i, t := range tempsK {
		conv, err := k.Convection(t)
		if err != nil {
			return models.LossEstimate{}, err
		}
		est.RadiationPerKg[i] = k.Radiation(t) / rate
		est.ConvectionPerKg[i] = conv / rate
		est.TotalPerKg[i] = est.RadiationPerKg[i] + est.ConvectionPerKg[i]
	}
	return est, nil
}
