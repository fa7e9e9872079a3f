// Package params loads run parameters from INI files. Values left unset in
// the file keep their zero value; the caller layers its own defaults and flag
// overrides on top.
package params

import (
	"fmt"

	"gopkg.in/ini.v1"
)

const runSection = "run"

// RunParams mirrors the [run] section of a parameters file.
type RunParams struct {
	World               string  `ini:"world"`
	Seed                int64   `ini:"seed"`
	Population          int     `ini:"population"`
	FoodCount           int     `ini:"food_count"`
	Generations         int     `ini:"generations"`
	GenerationSteps     int     `ini:"generation_steps"`
	MutationChance      float64 `ini:"mutation_chance"`
	MutationCoefficient float64 `ini:"mutation_coefficient"`
	FitnessGoal         float64 `ini:"fitness_goal"`
}

// Load reads a parameters file and maps its [run] section. Keys outside the
// known set are ignored so files can carry driver-specific extras.
func Load(path string) (RunParams, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, path)
	if err != nil {
		return RunParams{}, fmt.Errorf("load params file %s: %w", path, err)
	}

	var p RunParams
	if err := cfg.Section(runSection).MapTo(&p); err != nil {
		return RunParams{}, fmt.Errorf("map params file %s: %w", path, err)
	}
	if err := p.validate(); err != nil {
		return RunParams{}, fmt.Errorf("params file %s: %w", path, err)
	}
	return p, nil
}

func (p RunParams) validate() error {
	if p.Population < 0 {
		return fmt.Errorf("population must be >= 0, got %d", p.Population)
	}
	if p.FoodCount < 0 {
		return fmt.Errorf("food_count must be >= 0, got %d", p.FoodCount)
	}
	if p.Generations < 0 {
		return fmt.Errorf("generations must be >= 0, got %d", p.Generations)
	}
	if p.GenerationSteps < 0 {
		return fmt.Errorf("generation_steps must be >= 0, got %d", p.GenerationSteps)
	}
	if p.MutationChance < 0 || p.MutationChance > 1 {
		return fmt.Errorf("mutation_chance must be in [0,1], got %v", p.MutationChance)
	}
	if p.MutationCoefficient < 0 {
		return fmt.Errorf("mutation_coefficient must be >= 0, got %v", p.MutationCoefficient)
	}
	return nil
}
