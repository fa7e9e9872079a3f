package genetic

import (
	"fmt"
	"math/rand"
)

// CrossoverMethod combines two equal-length parent genomes into one child
// genome. The child never aliases either parent.
type CrossoverMethod interface {
	Name() string
	Crossover(rng *rand.Rand, parentA, parentB Genome) (Genome, error)
}

// UniformCrossover decides every gene position independently with a fair
// coin: heads takes the gene from parentA, tails from parentB. Adjacent
// positions carry no correlation, which trades linkage preservation for
// diversity compared to point crossover.
type UniformCrossover struct{}

func (UniformCrossover) Name() string {
	return "uniform"
}

func (UniformCrossover) Crossover(rng *rand.Rand, parentA, parentB Genome) (Genome, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if parentA.Len() != parentB.Len() {
		return nil, fmt.Errorf("parent length mismatch: %d != %d", parentA.Len(), parentB.Len())
	}

	child := make(Genome, parentA.Len())
	for i := range child {
		if rng.Intn(2) == 0 {
			child[i] = parentA[i]
		} else {
			child[i] = parentB[i]
		}
	}
	return child, nil
}
