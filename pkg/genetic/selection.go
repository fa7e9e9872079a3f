package genetic

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrEmptyPopulation reports selection or evolution over a population with no
// individuals.
var ErrEmptyPopulation = errors.New("population is empty")

// Individual is the capability set the engine requires of population members:
// a non-negative fitness score, a read-only view of the genome, and
// construction of a fresh member from a child genome. The engine never looks
// past these three operations.
type Individual[T any] interface {
	Fitness() float64
	Genome() Genome
	Create(genome Genome) T
}

// SelectionMethod draws one parent from a population. Selection is with
// replacement and keeps no memory across calls; repeated calls may return the
// same individual.
type SelectionMethod[T Individual[T]] interface {
	Name() string
	Select(rng *rand.Rand, population []T) (T, error)
}

// RouletteSelection picks an individual with probability proportional to its
// fitness share of the population total.
type RouletteSelection[T Individual[T]] struct{}

func (RouletteSelection[T]) Name() string {
	return "roulette"
}

func (RouletteSelection[T]) Select(rng *rand.Rand, population []T) (T, error) {
	var zero T
	if rng == nil {
		return zero, fmt.Errorf("random source is required")
	}
	if len(population) == 0 {
		return zero, ErrEmptyPopulation
	}

	total := 0.0
	for i, individual := range population {
		fitness := individual.Fitness()
		if fitness < 0 {
			return zero, fmt.Errorf("negative fitness %v at index %d", fitness, i)
		}
		total += fitness
	}
	if total <= 0 {
		return zero, fmt.Errorf("total fitness must be > 0, got %v", total)
	}

	pick := rng.Float64() * total
	acc := 0.0
	for _, individual := range population {
		acc += individual.Fitness()
		if pick <= acc {
			return individual, nil
		}
	}
	return population[len(population)-1], nil
}
