package genetic

import (
	"fmt"
	"math/rand"
)

// Engine advances a population one full generation at a time. It composes one
// selection method with one crossover and one mutation method; the concrete
// strategies may vary at runtime behind their interfaces.
//
// Everything is sequential: each output slot draws from the same rng stream
// in slot order, so the iteration order is part of the observable contract
// and identical seeds reproduce identical generations.
type Engine[T Individual[T]] struct {
	selection SelectionMethod[T]
	crossover CrossoverMethod
	mutation  MutationMethod
}

// NewEngine wires the three strategies together. All three are required.
func NewEngine[T Individual[T]](selection SelectionMethod[T], crossover CrossoverMethod, mutation MutationMethod) (*Engine[T], error) {
	if selection == nil {
		return nil, fmt.Errorf("selection method is required")
	}
	if crossover == nil {
		return nil, fmt.Errorf("crossover method is required")
	}
	if mutation == nil {
		return nil, fmt.Errorf("mutation method is required")
	}
	return &Engine[T]{
		selection: selection,
		crossover: crossover,
		mutation:  mutation,
	}, nil
}

// Evolve produces the next generation from population: for each of the
// len(population) output slots it selects two parents (independently, with
// replacement, so they may coincide), crosses their genomes, mutates the
// child genome in place, and constructs the new individual from the first
// parent's Create capability. Fitness of the returned individuals has not
// been evaluated.
func (e *Engine[T]) Evolve(rng *rand.Rand, population []T) ([]T, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if len(population) == 0 {
		return nil, ErrEmptyPopulation
	}

	next := make([]T, 0, len(population))
	for i := 0; i < len(population); i++ {
		parentA, err := e.selection.Select(rng, population)
		if err != nil {
			return nil, fmt.Errorf("select first parent: %w", err)
		}
		parentB, err := e.selection.Select(rng, population)
		if err != nil {
			return nil, fmt.Errorf("select second parent: %w", err)
		}
		child, err := e.crossover.Crossover(rng, parentA.Genome(), parentB.Genome())
		if err != nil {
			return nil, fmt.Errorf("crossover: %w", err)
		}
		if err := e.mutation.Mutate(rng, child); err != nil {
			return nil, fmt.Errorf("mutate: %w", err)
		}
		next = append(next, parentA.Create(child))
	}
	return next, nil
}
