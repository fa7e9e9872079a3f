package genetic

import (
	"math"
	"math/rand"
	"testing"
)

func TestNewGaussianMutationValidation(t *testing.T) {
	cases := []struct {
		name        string
		chance      float64
		coefficient float32
		wantErr     bool
	}{
		{name: "valid", chance: 0.5, coefficient: 0.3},
		{name: "zero chance", chance: 0, coefficient: 1},
		{name: "full chance", chance: 1, coefficient: 0},
		{name: "negative chance", chance: -0.1, coefficient: 1, wantErr: true},
		{name: "chance above one", chance: 1.1, coefficient: 1, wantErr: true},
		{name: "negative coefficient", chance: 0.5, coefficient: -1, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGaussianMutation(tc.chance, tc.coefficient)
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestGaussianMutationZeroChanceKeepsValuesButAdvancesRng(t *testing.T) {
	mutation, err := NewGaussianMutation(0, 0.5)
	if err != nil {
		t.Fatalf("new mutation: %v", err)
	}
	genome := NewGenome([]float32{1, 2, 3, 4, 5, 6, 7, 8})
	original := genome.Clone()

	mutated := rand.New(rand.NewSource(7))
	if err := mutation.Mutate(mutated, genome); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	for i := range genome {
		if genome[i] != original[i] {
			t.Fatalf("gene %d: expected unchanged value %v, got %v", i, original[i], genome[i])
		}
	}

	// The sign and chance draws happen for every gene even when nothing is
	// applied, so the stream must sit exactly two draws per gene ahead.
	reference := rand.New(rand.NewSource(7))
	for i := 0; i < genome.Len(); i++ {
		reference.Intn(2)
		reference.Float64()
	}
	if mutated.Int63() != reference.Int63() {
		t.Fatal("expected rng to advance two draws per gene")
	}
}

func TestGaussianMutationZeroCoefficientKeepsValues(t *testing.T) {
	mutation, err := NewGaussianMutation(1, 0)
	if err != nil {
		t.Fatalf("new mutation: %v", err)
	}
	genome := NewGenome([]float32{1, -2, 3.5})
	original := genome.Clone()

	rng := rand.New(rand.NewSource(11))
	if err := mutation.Mutate(rng, genome); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	for i := range genome {
		if genome[i] != original[i] {
			t.Fatalf("gene %d: expected unchanged value %v, got %v", i, original[i], genome[i])
		}
	}
}

func TestGaussianMutationFullChanceBoundsDeltas(t *testing.T) {
	const coefficient = 0.75
	mutation, err := NewGaussianMutation(1, coefficient)
	if err != nil {
		t.Fatalf("new mutation: %v", err)
	}
	genome := make(Genome, 32)
	original := genome.Clone()

	rng := rand.New(rand.NewSource(3))
	if err := mutation.Mutate(rng, genome); err != nil {
		t.Fatalf("mutate: %v", err)
	}

	changed := 0
	for i := range genome {
		delta := math.Abs(float64(genome[i] - original[i]))
		if delta >= coefficient {
			t.Fatalf("gene %d: delta %v exceeds coefficient %v", i, delta, coefficient)
		}
		if delta > 0 {
			changed++
		}
	}
	if changed < len(genome)/2 {
		t.Fatalf("expected most genes to change under full chance, got %d of %d", changed, len(genome))
	}
}

func TestGaussianMutationRespectsChance(t *testing.T) {
	const chance = 0.3
	mutation, err := NewGaussianMutation(chance, 1)
	if err != nil {
		t.Fatalf("new mutation: %v", err)
	}
	genome := make(Genome, 1000)
	original := genome.Clone()

	rng := rand.New(rand.NewSource(13))
	if err := mutation.Mutate(rng, genome); err != nil {
		t.Fatalf("mutate: %v", err)
	}

	changed := 0
	for i := range genome {
		if genome[i] != original[i] {
			changed++
		}
	}
	expected := chance * float64(len(genome))
	if float64(changed) < expected*0.7 || float64(changed) > expected*1.3 {
		t.Fatalf("expected roughly %.0f mutated genes, got %d", expected, changed)
	}
}

func TestGaussianMutationNilRand(t *testing.T) {
	mutation := GaussianMutation{Chance: 0.5, Coefficient: 1}
	if err := mutation.Mutate(nil, NewGenome([]float32{1})); err == nil {
		t.Fatal("expected error for nil random source")
	}
}

func TestGaussianMutationRejectsInvalidParameters(t *testing.T) {
	mutation := GaussianMutation{Chance: 2, Coefficient: 1}
	rng := rand.New(rand.NewSource(1))
	if err := mutation.Mutate(rng, NewGenome([]float32{1})); err == nil {
		t.Fatal("expected error for out-of-range chance")
	}
}

func TestGaussianMutationDeterministicForSeed(t *testing.T) {
	mutation, err := NewGaussianMutation(0.5, 0.25)
	if err != nil {
		t.Fatalf("new mutation: %v", err)
	}

	first := NewGenome([]float32{1, 2, 3, 4, 5, 6, 7, 8})
	second := first.Clone()
	if err := mutation.Mutate(rand.New(rand.NewSource(17)), first); err != nil {
		t.Fatalf("first mutate: %v", err)
	}
	if err := mutation.Mutate(rand.New(rand.NewSource(17)), second); err != nil {
		t.Fatalf("second mutate: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("gene %d: expected identical mutations for identical seeds, got %v and %v", i, first[i], second[i])
		}
	}
}
