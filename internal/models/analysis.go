package models

// LossEstimate holds per-location heat loss, normalized per kg of clinker
// produced. All three slices are aligned with the Reading sequence.
type LossEstimate struct {
	RadiationPerKg  []float64 `json:"radiation_per_kg"`
	ConvectionPerKg []float64 `json:"convection_per_kg"`
	TotalPerKg      []float64 `json:"total_per_kg"`
}

// TotalLoss sums total loss over all locations, kcal per kg clinker.
func (l LossEstimate) TotalLoss() float64 {
	var sum float64
	for _, v := range l.TotalPerKg {
		sum += v
	}
	return sum
}

// OutlierSet classifies location indices whose total loss falls outside the
// Tukey fences. High and Low are disjoint.
type OutlierSet struct {
	High []int `json:"high"`
	Low  []int `json:"low"`
}

// RepairResult describes the outcome of the repair simulation. When no high
// outliers exist there is nothing to repair and only the flags are set.
type RepairResult struct {
	Repaired bool `json:"repaired"`

	// Inconsistent marks the anomalous case where substituting the median
	// temperature at damaged locations did not reduce total loss. The money
	// fields below are left zero when set.
	Inconsistent bool `json:"inconsistent"`

	CorrectedTempK []float64     `json:"corrected_temp_k,omitempty"`
	Corrected      *LossEstimate `json:"corrected,omitempty"`

	SavingsPerKg           float64 `json:"savings_per_kg"` // kcal per kg clinker
	AnnualSavingsRupees    float64 `json:"annual_savings_rupees"`
	BricksDamaged          int     `json:"bricks_damaged"`
	RepairCostRupees       float64 `json:"repair_cost_rupees"`
	NetAnnualSavingsRupees float64 `json:"net_annual_savings_rupees"`
}

// Summary carries the headline figures of one analysis run.
type Summary struct {
	Locations          int     `json:"locations"`
	TotalLossPerKg     float64 `json:"total_loss_per_kg"`
	CorrectedLossPerKg float64 `json:"corrected_loss_per_kg,omitempty"`
	SavingsPerKg       float64 `json:"savings_per_kg,omitempty"`

	AnnualSavingsRupees    float64 `json:"annual_savings_rupees,omitempty"`
	RepairCostRupees       float64 `json:"repair_cost_rupees,omitempty"`
	NetAnnualSavingsRupees float64 `json:"net_annual_savings_rupees,omitempty"`

	// Lengths (meters from the outlet) of locations flagged as shell damage
	// and suspected coating formation respectively.
	DamagedLengthsM []float64 `json:"damaged_lengths_m,omitempty"`
	CoatingLengthsM []float64 `json:"coating_lengths_m,omitempty"`

	Inconsistent bool `json:"inconsistent,omitempty"`
}

// AnalysisResult bundles everything one audit run produced.
type AnalysisResult struct {
	Config   KilnConfig   `json:"config"`
	Readings []Reading    `json:"readings"`
	Loss     LossEstimate `json:"loss"`
	Outliers OutlierSet   `json:"outliers"`
	Repair   RepairResult `json:"repair"`
	Summary  Summary      `json:"summary"`
}

// ExportRow is one line of the pre-repair calculation table offered for
// download by the presentation layer.
type ExportRow struct {
	LengthM         float64 `json:"length_m"`
	TempK           float64 `json:"temp_k"`
	RadiationPerKg  float64 `json:"radiation_per_kg"`
	ConvectionPerKg float64 `json:"convection_per_kg"`
	TotalPerKg      float64 `json:"total_per_kg"`
}
