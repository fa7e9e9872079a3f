package genetic

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

func TestRouletteSelectionEmptyPopulation(t *testing.T) {
	selection := RouletteSelection[testIndividual]{}
	for _, seed := range []int64{0, 1, 42} {
		rng := rand.New(rand.NewSource(seed))
		if _, err := selection.Select(rng, nil); !errors.Is(err, ErrEmptyPopulation) {
			t.Fatalf("seed %d: expected ErrEmptyPopulation, got %v", seed, err)
		}
	}
}

func TestRouletteSelectionNilRand(t *testing.T) {
	selection := RouletteSelection[testIndividual]{}
	population := []testIndividual{newTestIndividual(1, 1)}
	if _, err := selection.Select(nil, population); err == nil {
		t.Fatal("expected error for nil random source")
	}
}

func TestRouletteSelectionRejectsNegativeFitness(t *testing.T) {
	selection := RouletteSelection[testIndividual]{}
	population := []testIndividual{
		newTestIndividual(2, 1),
		newTestIndividual(-0.5, 1),
	}
	rng := rand.New(rand.NewSource(1))
	_, err := selection.Select(rng, population)
	if err == nil || !strings.Contains(err.Error(), "negative fitness") {
		t.Fatalf("expected negative fitness error, got %v", err)
	}
}

func TestRouletteSelectionRejectsZeroTotalFitness(t *testing.T) {
	selection := RouletteSelection[testIndividual]{}
	population := []testIndividual{
		newTestIndividual(0, 1),
		newTestIndividual(0, 1),
	}
	rng := rand.New(rand.NewSource(1))
	_, err := selection.Select(rng, population)
	if err == nil || !strings.Contains(err.Error(), "total fitness") {
		t.Fatalf("expected total fitness error, got %v", err)
	}
}

func TestRouletteSelectionFollowsFitnessProportions(t *testing.T) {
	population := []testIndividual{
		newTestIndividual(1, 1),
		newTestIndividual(2, 2),
		newTestIndividual(3, 3),
		newTestIndividual(4, 4),
	}
	selection := RouletteSelection[testIndividual]{}
	rng := rand.New(rand.NewSource(7))

	counts := make(map[float64]int, len(population))
	for i := 0; i < 2000; i++ {
		picked, err := selection.Select(rng, population)
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		counts[picked.Fitness()]++
	}

	for i := 1; i < len(population); i++ {
		lower := population[i-1].Fitness()
		higher := population[i].Fitness()
		if counts[higher] <= counts[lower] {
			t.Fatalf("expected fitness %v to be picked more often than %v: %d vs %d",
				higher, lower, counts[higher], counts[lower])
		}
	}
	if counts[1] == 0 {
		t.Fatal("expected the weakest individual to be picked at least once")
	}
}

func TestRouletteSelectionDeterministicForSeed(t *testing.T) {
	population := []testIndividual{
		newTestIndividual(1, 1),
		newTestIndividual(5, 2),
		newTestIndividual(2, 3),
	}
	selection := RouletteSelection[testIndividual]{}

	rngA := rand.New(rand.NewSource(99))
	rngB := rand.New(rand.NewSource(99))
	for i := 0; i < 50; i++ {
		a, err := selection.Select(rngA, population)
		if err != nil {
			t.Fatalf("select a: %v", err)
		}
		b, err := selection.Select(rngB, population)
		if err != nil {
			t.Fatalf("select b: %v", err)
		}
		if a.Fitness() != b.Fitness() {
			t.Fatalf("pick %d: expected identical selections for identical seeds, got %v and %v",
				i, a.Fitness(), b.Fitness())
		}
	}
}
