package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"

	"kiln-shell-audit/internal/analysis"
	"kiln-shell-audit/internal/api"
	"kiln-shell-audit/internal/models"
	"kiln-shell-audit/internal/parser"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kiln-audit",
		Short: "Kiln Shell Audit - rotary kiln heat loss and repair economics",
		Long: `A CLI tool for estimating heat loss from a rotary kiln's shell using
surface-temperature readings. Locations with anomalously high loss are
flagged as damaged refractory, abnormally low ones as coating formation,
and the savings from repairing the damaged stretches are estimated net
of brick cost.`,
	}

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(serverCmd())
	rootCmd.AddCommand(constantsCmd())
	rootCmd.AddCommand(generateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// kilnFlags registers the kiln parameter flags shared by commands that run
// an analysis. Defaults mirror a typical cement plant kiln.
func kilnFlags(cmd *cobra.Command, p *models.KilnParams) {
	cmd.Flags().Float64VarP(&p.DiameterM, "diameter", "d", 4.75, "Kiln diameter (m)")
	cmd.Flags().Float64VarP(&p.ClinkerKgPerHour, "clinker", "c", 290000, "Clinker production (kg/hr)")
	cmd.Flags().Float64VarP(&p.AmbientVelocity, "velocity", "w", 0, "Ambient air velocity (m/s)")
	cmd.Flags().Float64VarP(&p.AmbientTemp, "ambient", "a", 29, "Ambient temperature (in --unit)")
	cmd.Flags().StringVarP(&p.TempUnit, "unit", "u", models.UnitCelsius, "Temperature unit of input (Celsius, Kelvin)")
	cmd.Flags().Float64VarP(&p.Emissivity, "emissivity", "e", 0.77, "Shell emissivity (0-1)")
	cmd.Flags().IntVarP(&p.IntervalM, "interval", "i", 1, "Distance between consecutive readings (m)")
}

// analyzeCmd runs the full audit over a reading file
func analyzeCmd() *cobra.Command {
	var params models.KilnParams
	var format string
	var outputFormat string
	var exportPath string

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a surface-temperature reading file",
		Long: `Reads a matrix of surface temperatures (rows = locations starting one
interval from the kiln outlet, columns = repeat sensor passes at the same
location) and reports heat loss, outlier locations and repair economics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := parser.NewParser(format)
			matrix, err := p.ParseFile(args[0])
			if err != nil {
				return err
			}

			res, err := analysis.Run(params, matrix)
			if err != nil {
				return err
			}

			switch outputFormat {
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				enc.Encode(res)
			default:
				printResult(res)
			}

			if exportPath != "" {
				if err := exportCSV(exportPath, res); err != nil {
					return fmt.Errorf("export error: %w", err)
				}
				fmt.Printf("Calculations exported to %s\n", exportPath)
			}

			return nil
		},
	}

	kilnFlags(cmd, &params)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Reading file format (csv, json)")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json)")
	cmd.Flags().StringVarP(&exportPath, "export", "x", "", "Write pre-repair calculation table to CSV file")
	return cmd
}

// printResult renders the per-location table and summary
func printResult(res *models.AnalysisResult) {
	fmt.Printf("%-10s %-10s %-12s %-12s %-12s\n", "Length(m)", "Temp(K)", "Radiation", "Convection", "Total loss")
	for i, r := range res.Readings {
		fmt.Printf("%-10.0f %-10.2f %-12.4f %-12.4f %-12.4f\n",
			r.LengthM, r.TempK,
			res.Loss.RadiationPerKg[i], res.Loss.ConvectionPerKg[i], res.Loss.TotalPerKg[i])
	}

	s := res.Summary
	fmt.Println("\nSummary")
	fmt.Println("=======")
	fmt.Printf("  Total heat loss:      %.2f kcal per kg clinker\n", s.TotalLossPerKg)

	if len(s.CoatingLengthsM) > 0 {
		fmt.Printf("  Coating suspected at: %s\n", lengthsText(s.CoatingLengthsM))
	} else {
		fmt.Println("  No coating formation suspected")
	}

	if !res.Repair.Repaired {
		fmt.Println("  No high outliers found; nothing to repair")
		return
	}

	fmt.Printf("  Damage found at:      %s (%d locations)\n", lengthsText(s.DamagedLengthsM), len(s.DamagedLengthsM))
	fmt.Printf("  Loss after repairs:   %.2f kcal per kg clinker\n", s.CorrectedLossPerKg)

	if res.Repair.Inconsistent {
		fmt.Println("  ⚠️  Loss after removing high outliers is not lower than before.")
		fmt.Println("      The reading set looks inconsistent; savings were not estimated.")
		return
	}

	fmt.Printf("  Savings on repairing: %.2f kcal per kg clinker\n", s.SavingsPerKg)
	fmt.Printf("  Annual coal savings:  ₹%.2f lakh\n", s.AnnualSavingsRupees/1e5)
	fmt.Printf("  Repair cost:          ₹%.2f lakh (%d bricks)\n", s.RepairCostRupees/1e5, res.Repair.BricksDamaged)
	fmt.Printf("  Net annual savings:   ₹%.2f lakh\n", s.NetAnnualSavingsRupees/1e5)
}

func lengthsText(lengths []float64) string {
	text := ""
	for _, l := range lengths {
		text += fmt.Sprintf("%.0fm ", l)
	}
	return text
}

// exportCSV writes the pre-repair calculation table
func exportCSV(path string, res *models.AnalysisResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"length_m", "temp_k", "radiation_per_kg", "convection_per_kg", "total_per_kg"}); err != nil {
		return err
	}
	for _, row := range analysis.ExportRows(res) {
		record := []string{
			strconv.FormatFloat(row.LengthM, 'f', -1, 64),
			strconv.FormatFloat(row.TempK, 'f', -1, 64),
			strconv.FormatFloat(row.RadiationPerKg, 'f', -1, 64),
			strconv.FormatFloat(row.ConvectionPerKg, 'f', -1, 64),
			strconv.FormatFloat(row.TotalPerKg, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// serverCmd starts the REST API server
func serverCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := api.NewServer()
			addr := fmt.Sprintf(":%d", port)

			fmt.Printf("🔥 Kiln Shell Audit API Server\n")
			fmt.Printf("   Listening on http://localhost%s\n\n", addr)
			fmt.Println("Available endpoints:")
			fmt.Println("  GET  /health")
			fmt.Println("  POST /api/v1/analyze")
			fmt.Println("  GET  /api/v1/runs")
			fmt.Println("  GET  /api/v1/runs/{id}")
			fmt.Println("  GET  /api/v1/runs/{id}/export")
			fmt.Println("  GET  /api/v1/constants")
			fmt.Println()

			return http.ListenAndServe(addr, server.Handler())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Server port")
	return cmd
}

// constantsCmd prints the policy constants behind the money figures
func constantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "constants",
		Short: "Show the policy constants used for savings and repair cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(analysis.DefaultRepairConstants())
		},
	}
}

// generateCmd generates a sample reading matrix
func generateCmd() *cobra.Command {
	var locations int
	var sensors int
	var damaged int
	var output string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a sample surface-temperature reading file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("error creating output file: %w", err)
			}
			defer file.Close()

			writer := csv.NewWriter(file)
			defer writer.Flush()

			// Healthy shell runs around 380-420K near the outlet; damaged
			// stretches read far hotter.
			damagedAt := map[int]bool{}
			for len(damagedAt) < damaged && len(damagedAt) < locations {
				damagedAt[rand.Intn(locations)] = true
			}

			for i := 0; i < locations; i++ {
				base := 380 + rand.Float64()*40
				if damagedAt[i] {
					base = 480 + rand.Float64()*60
				}
				record := make([]string, sensors)
				for j := 0; j < sensors; j++ {
					record[j] = strconv.FormatFloat(base+rand.Float64()*4-2, 'f', 1, 64)
				}
				if err := writer.Write(record); err != nil {
					return err
				}
			}

			fmt.Printf("✓ Generated %d locations x %d sensor passes (Kelvin) to %s\n", locations, sensors, output)
			if damaged > 0 {
				fmt.Printf("  %d damaged stretches seeded\n", len(damagedAt))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&locations, "locations", "n", 60, "Number of kiln locations")
	cmd.Flags().IntVarP(&sensors, "sensors", "s", 3, "Sensor passes per location")
	cmd.Flags().IntVarP(&damaged, "damaged", "D", 2, "Damaged stretches to seed")
	cmd.Flags().StringVarP(&output, "output", "o", "readings.csv", "Output CSV file")
	return cmd
}
