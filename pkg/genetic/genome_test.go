package genetic

import "testing"

func TestNewGenomeCopiesInput(t *testing.T) {
	genes := []float32{0.5, -1.25, 3}
	g := NewGenome(genes)

	genes[0] = 99
	if g.At(0) != 0.5 {
		t.Fatalf("expected genome to be independent of its source slice, got %v", g.At(0))
	}
	if g.Len() != 3 {
		t.Fatalf("expected length 3, got %d", g.Len())
	}
}

func TestGenomePreservesOrder(t *testing.T) {
	g := NewGenome([]float32{1, 2, 3, 4})
	for i, want := range []float32{1, 2, 3, 4} {
		if g.At(i) != want {
			t.Fatalf("gene %d: expected %v, got %v", i, want, g.At(i))
		}
	}
}

func TestGenomeCloneIsIndependent(t *testing.T) {
	original := NewGenome([]float32{1, 2, 3})
	clone := original.Clone()

	clone[1] = -7
	if original.At(1) != 2 {
		t.Fatalf("expected original to be unaffected by clone mutation, got %v", original.At(1))
	}
	if clone.At(1) != -7 {
		t.Fatalf("expected clone mutation to stick, got %v", clone.At(1))
	}
}

func TestGenomeGenesReturnsCopy(t *testing.T) {
	g := NewGenome([]float32{1, 2, 3})
	genes := g.Genes()

	genes[0] = 42
	if g.At(0) != 1 {
		t.Fatalf("expected Genes to return a copy, got %v", g.At(0))
	}
	if len(genes) != g.Len() {
		t.Fatalf("expected %d genes, got %d", g.Len(), len(genes))
	}
}

func TestGenomeOutOfBoundsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected out-of-bounds access to panic")
		}
	}()
	g := NewGenome([]float32{1})
	_ = g.At(1)
}
