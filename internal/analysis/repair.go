package analysis

import (
	"math"

	"kiln-shell-audit/internal/models"
	"kiln-shell-audit/internal/physics"
	"kiln-shell-audit/internal/stats"
)

// RepairConstants are the fixed policy figures behind the savings and repair
// cost estimates. They are plant conventions, not derived quantities.
type RepairConstants struct {
	WorkingDaysPerYear   float64 `json:"working_days_per_year"`
	HoursPerDay          float64 `json:"hours_per_day"`
	CoalCalorificKcalKg  float64 `json:"coal_calorific_kcal_kg"`
	CoalCostPerTonRupees float64 `json:"coal_cost_per_ton_rupees"`
	ShellThicknessMm     float64 `json:"shell_thickness_mm"`
	BrickHeightMm        float64 `json:"brick_height_mm"`
	RingsPerMeter        float64 `json:"rings_per_meter"`
	BrickArcFactorMm     float64 `json:"brick_arc_factor_mm"`
	BrickCostRupees      float64 `json:"brick_cost_rupees"`
	// CircleFactor is the rounded π the brick-count convention uses.
	CircleFactor float64 `json:"circle_factor"`
}

// DefaultRepairConstants returns the standard plant figures.
func DefaultRepairConstants() RepairConstants {
	return RepairConstants{
		WorkingDaysPerYear:   330,
		HoursPerDay:          24,
		CoalCalorificKcalKg:  4500,
		CoalCostPerTonRupees: 4500,
		ShellThicknessMm:     16,
		BrickHeightMm:        220,
		RingsPerMeter:        5,
		BrickArcFactorMm:     71.5,
		BrickCostRupees:      100,
		CircleFactor:         3.14,
	}
}

// EstimateRepair models replacing the refractory at high-outlier locations:
// their temperatures are substituted with the median of the undamaged,
// uncoated locations, loss is recomputed, and the saved heat is converted to
// annual coal money net of brick cost. Low outliers indicate coating, not
// damage, and are never substituted. With no high outliers there is nothing
// to repair and the zero result is returned.
func EstimateRepair(k *physics.Kiln, readings []models.Reading, loss models.LossEstimate, outliers models.OutlierSet, consts RepairConstants) (models.RepairResult, error) {
	var res models.RepairResult
	if len(outliers.High) == 0 {
		return res, nil
	}

	exclude := make(map[int]bool, len(outliers.High)+len(outliers.Low))
	for _, i := range outliers.High {
		exclude[i] = true
	}
	for _, i := range outliers.Low {
		exclude[i] = true
	}

	var baseline []float64
	for i, r := range readings {
		if !exclude[i] {
			baseline = append(baseline, r.TempK)
		}
	}
	if len(baseline) == 0 {
		return res, &models.ConfigError{
			Field:  "readings",
			Value:  len(readings),
			Reason: "every location is an outlier; no baseline temperature for repair",
		}
	}
	medianTemp := stats.Median(baseline)

	corrected := Temperatures(readings)
	for _, i := range outliers.High {
		corrected[i] = medianTemp
	}

	correctedLoss, err := k.EstimateLoss(corrected)
	if err != nil {
		return res, err
	}

	res.Repaired = true
	res.CorrectedTempK = corrected
	res.Corrected = &correctedLoss
	res.SavingsPerKg = loss.TotalLoss() - correctedLoss.TotalLoss()

	// Repair must reduce loss; anything else means the input data cannot be
	// trusted, so the money figures are withheld.
	if res.SavingsPerKg <= 0 {
		res.Inconsistent = true
		return res, nil
	}

	cfg := k.Config()
	savingsPerHour := res.SavingsPerKg * cfg.ClinkerKgPerHour
	savingsPerYear := savingsPerHour * consts.WorkingDaysPerYear * consts.HoursPerDay
	coalSavedTons := savingsPerYear / consts.CoalCalorificKcalKg / 1000
	res.AnnualSavingsRupees = coalSavedTons * consts.CoalCostPerTonRupees

	internalDiameterMm := cfg.DiameterM*1000 - 2*consts.ShellThicknessMm
	bricksPerRing := math.Floor(consts.CircleFactor * (internalDiameterMm - consts.BrickHeightMm) / consts.BrickArcFactorMm)
	bricksPerMeter := bricksPerRing * consts.RingsPerMeter
	res.BricksDamaged = int(bricksPerMeter) * len(outliers.High)
	res.RepairCostRupees = float64(res.BricksDamaged) * consts.BrickCostRupees

	res.NetAnnualSavingsRupees = res.AnnualSavingsRupees - res.RepairCostRupees
	return res, nil
}
