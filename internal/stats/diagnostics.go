package stats

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"skylark/internal/model"
)

// Summarize reduces one generation's fitness values to per-generation
// diagnostics. The input slice is not modified.
func Summarize(generation int, fitnesses []float64) (model.GenerationDiagnostics, error) {
	if len(fitnesses) == 0 {
		return model.GenerationDiagnostics{}, fmt.Errorf("fitnesses are required")
	}

	sorted := append([]float64(nil), fitnesses...)
	sort.Float64s(sorted)

	diagnostics := model.GenerationDiagnostics{
		Generation: generation,
		Best:       sorted[len(sorted)-1],
		Min:        sorted[0],
		Mean:       stat.Mean(sorted, nil),
		Median:     stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
	if len(sorted) > 1 {
		diagnostics.StdDev = stat.StdDev(sorted, nil)
	}
	return diagnostics, nil
}
