package genetic

import (
	"fmt"
	"math/rand"
)

// MutationMethod perturbs a genome in place. Implementations draw all
// randomness from the rng argument.
type MutationMethod interface {
	Name() string
	Mutate(rng *rand.Rand, genome Genome) error
}

// GaussianMutation perturbs each gene with probability Chance by adding
// sign * Coefficient * u, where the sign is +1 or -1 with equal probability
// and u is uniform in [0,1). The sign and the chance check consume rng values
// for every gene whether or not the perturbation is applied; only the
// magnitude draw is conditional.
type GaussianMutation struct {
	// Chance is the per-gene mutation probability in [0,1].
	Chance float64
	// Coefficient scales the perturbation magnitude; must be >= 0.
	Coefficient float32
}

// NewGaussianMutation validates the parameters eagerly so misconfiguration
// surfaces at construction rather than mid-run.
func NewGaussianMutation(chance float64, coefficient float32) (GaussianMutation, error) {
	m := GaussianMutation{Chance: chance, Coefficient: coefficient}
	if err := m.validate(); err != nil {
		return GaussianMutation{}, err
	}
	return m, nil
}

func (GaussianMutation) Name() string {
	return "gaussian"
}

func (m GaussianMutation) Mutate(rng *rand.Rand, genome Genome) error {
	if rng == nil {
		return fmt.Errorf("random source is required")
	}
	if err := m.validate(); err != nil {
		return err
	}

	for i := range genome {
		sign := float32(1)
		if rng.Intn(2) == 0 {
			sign = -1
		}
		if rng.Float64() < m.Chance {
			genome[i] += sign * m.Coefficient * rng.Float32()
		}
	}
	return nil
}

func (m GaussianMutation) validate() error {
	if m.Chance < 0 || m.Chance > 1 {
		return fmt.Errorf("mutation chance must be in [0,1], got %v", m.Chance)
	}
	if m.Coefficient < 0 {
		return fmt.Errorf("mutation coefficient must be >= 0, got %v", m.Coefficient)
	}
	return nil
}
