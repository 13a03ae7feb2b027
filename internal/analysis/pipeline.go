package analysis

import (
	"kiln-shell-audit/internal/models"
	"kiln-shell-audit/internal/physics"
	"kiln-shell-audit/internal/stats"
)

// Run executes one full audit over a raw reading matrix: aggregate, first
// loss pass, outlier detection, repair estimate, summary. It is stateless;
// every call is independent.
func Run(params models.KilnParams, matrix [][]float64) (*models.AnalysisResult, error) {
	return RunWithConstants(params, matrix, DefaultRepairConstants())
}

// RunWithConstants is Run with explicit policy constants.
func RunWithConstants(params models.KilnParams, matrix [][]float64, consts RepairConstants) (*models.AnalysisResult, error) {
	kiln, err := physics.New(params)
	if err != nil {
		return nil, err
	}

	readings, err := Aggregate(matrix, params.TempUnit, kiln.Config().IntervalM)
	if err != nil {
		return nil, err
	}

	loss, err := kiln.EstimateLoss(Temperatures(readings))
	if err != nil {
		return nil, err
	}

	outliers := stats.DetectOutliers(loss.TotalPerKg)

	repair, err := EstimateRepair(kiln, readings, loss, outliers, consts)
	if err != nil {
		return nil, err
	}

	res := &models.AnalysisResult{
		Config:   kiln.Config(),
		Readings: readings,
		Loss:     loss,
		Outliers: outliers,
		Repair:   repair,
	}
	res.Summary = summarize(res)
	return res, nil
}

func summarize(res *models.AnalysisResult) models.Summary {
	s := models.Summary{
		Locations:      len(res.Readings),
		TotalLossPerKg: res.Loss.TotalLoss(),
		Inconsistent:   res.Repair.Inconsistent,
	}
	for _, i := range res.Outliers.High {
		s.DamagedLengthsM = append(s.DamagedLengthsM, res.Readings[i].LengthM)
	}
	for _, i := range res.Outliers.Low {
		s.CoatingLengthsM = append(s.CoatingLengthsM, res.Readings[i].LengthM)
	}
	if res.Repair.Repaired {
		s.CorrectedLossPerKg = res.Repair.Corrected.TotalLoss()
		s.SavingsPerKg = res.Repair.SavingsPerKg
		if !res.Repair.Inconsistent {
			s.AnnualSavingsRupees = res.Repair.AnnualSavingsRupees
			s.RepairCostRupees = res.Repair.RepairCostRupees
			s.NetAnnualSavingsRupees = res.Repair.NetAnnualSavingsRupees
		}
	}
	return s
}

// ExportRows flattens the pre-repair per-location table into serializable
// rows for download by the presentation layer.
func ExportRows(res *models.AnalysisResult) []models.ExportRow {
	rows := make([]models.ExportRow, len(res.Readings))
	for i, r := range res.Readings {
		rows[i] = models.ExportRow{
			LengthM:         r.LengthM,
			TempK:           r.TempK,
			RadiationPerKg:  res.Loss.RadiationPerKg[i],
			ConvectionPerKg: res.Loss.ConvectionPerKg[i],
			TotalPerKg:      res.Loss.TotalPerKg[i],
		}
	}
	return rows
}
