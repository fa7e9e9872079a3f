package genetic

// Genome is a fixed-length ordered sequence of 32-bit genes. Length is set at
// construction and never changes; gene values change only through mutation.
// Copies made with NewGenome or Clone never share backing storage, so mutating
// one genome cannot affect another.
type Genome []float32

// NewGenome builds a genome from genes, preserving order. The input slice is
// copied so later changes to it do not leak into the genome.
func NewGenome(genes []float32) Genome {
	g := make(Genome, len(genes))
	copy(g, genes)
	return g
}

// Len reports the number of genes.
func (g Genome) Len() int {
	return len(g)
}

// At returns the gene at index i. Indexes outside [0, Len) panic with the
// usual runtime bounds error.
func (g Genome) At(i int) float32 {
	return g[i]
}

// Clone returns an independent copy of the genome.
func (g Genome) Clone() Genome {
	out := make(Genome, len(g))
	copy(out, g)
	return out
}

// Genes returns the gene values as a plain slice. The result is a copy; the
// caller may modify it freely.
func (g Genome) Genes() []float32 {
	out := make([]float32, len(g))
	copy(out, g)
	return out
}
