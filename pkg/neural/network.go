// Package neural implements a deterministic feed-forward network evaluator
// with rectified-linear activation. A network is built once from a topology
// and evaluates input vectors without learning; weights come either from
// random initialization or from a flattened weight sequence supplied by the
// caller (typically decoded from an evolved genome).
package neural

import (
	"fmt"
	"math/rand"
)

// Neuron holds one weight per input of its layer plus a scalar bias. Its
// output is max(0, bias + dot(weights, input)).
type Neuron struct {
	Bias    float32
	Weights []float32
}

// Layer is an ordered set of neurons sharing one input vector. Every neuron
// produces one scalar, so the layer maps len(input) values to len(Neurons)
// values.
type Layer struct {
	Neurons []Neuron
}

// Network threads an input vector through its layers in order. It is
// stateless per call: evaluating never modifies the network.
type Network struct {
	topology []int
	layers   []Layer
}

// NewNetwork builds a network for topology with weights and biases drawn
// uniformly from [-1, 1] using rng. Topology lists layer sizes input-first
// and must have at least two entries, all positive.
func NewNetwork(rng *rand.Rand, topology []int) (*Network, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if err := validateTopology(topology); err != nil {
		return nil, err
	}

	layers := make([]Layer, 0, len(topology)-1)
	for i := 0; i+1 < len(topology); i++ {
		inputs, outputs := topology[i], topology[i+1]
		neurons := make([]Neuron, outputs)
		for j := range neurons {
			weights := make([]float32, inputs)
			for k := range weights {
				weights[k] = uniformUnit(rng)
			}
			neurons[j] = Neuron{Bias: uniformUnit(rng), Weights: weights}
		}
		layers = append(layers, Layer{Neurons: neurons})
	}

	return &Network{topology: cloneTopology(topology), layers: layers}, nil
}

// NewNetworkFromWeights builds a network for topology from a flattened weight
// sequence: for each layer, for each neuron, the bias followed by the weights
// in input order. The sequence length must equal WeightCount(topology).
func NewNetworkFromWeights(topology []int, weights []float32) (*Network, error) {
	if err := validateTopology(topology); err != nil {
		return nil, err
	}
	want, err := WeightCount(topology)
	if err != nil {
		return nil, err
	}
	if len(weights) != want {
		return nil, fmt.Errorf("weight count mismatch: topology %v needs %d values, got %d", topology, want, len(weights))
	}

	next := 0
	layers := make([]Layer, 0, len(topology)-1)
	for i := 0; i+1 < len(topology); i++ {
		inputs, outputs := topology[i], topology[i+1]
		neurons := make([]Neuron, outputs)
		for j := range neurons {
			bias := weights[next]
			next++
			w := make([]float32, inputs)
			copy(w, weights[next:next+inputs])
			next += inputs
			neurons[j] = Neuron{Bias: bias, Weights: w}
		}
		layers = append(layers, Layer{Neurons: neurons})
	}

	return &Network{topology: cloneTopology(topology), layers: layers}, nil
}

// WeightCount reports how many flattened values (biases included) a network
// with the given topology carries. Drivers use it to size genomes.
func WeightCount(topology []int) (int, error) {
	if err := validateTopology(topology); err != nil {
		return 0, err
	}
	total := 0
	for i := 0; i+1 < len(topology); i++ {
		total += topology[i+1] * (topology[i] + 1)
	}
	return total, nil
}

// Evaluate threads inputs through every layer and returns one value per
// neuron of the last layer. The input length must equal the first topology
// entry.
func (n *Network) Evaluate(inputs []float32) ([]float32, error) {
	if len(inputs) != n.topology[0] {
		return nil, fmt.Errorf("input length mismatch: topology expects %d values, got %d", n.topology[0], len(inputs))
	}

	current := make([]float32, len(inputs))
	copy(current, inputs)
	for _, layer := range n.layers {
		next := make([]float32, len(layer.Neurons))
		for i, neuron := range layer.Neurons {
			sum := neuron.Bias
			for j, w := range neuron.Weights {
				sum += w * current[j]
			}
			if sum < 0 {
				sum = 0
			}
			next[i] = sum
		}
		current = next
	}
	return current, nil
}

// Weights returns the flattened weight sequence in the same order
// NewNetworkFromWeights consumes, so Weights followed by
// NewNetworkFromWeights round-trips the network.
func (n *Network) Weights() []float32 {
	count := 0
	for _, layer := range n.layers {
		for _, neuron := range layer.Neurons {
			count += 1 + len(neuron.Weights)
		}
	}
	out := make([]float32, 0, count)
	for _, layer := range n.layers {
		for _, neuron := range layer.Neurons {
			out = append(out, neuron.Bias)
			out = append(out, neuron.Weights...)
		}
	}
	return out
}

// Topology returns a copy of the layer sizes the network was built with.
func (n *Network) Topology() []int {
	return cloneTopology(n.topology)
}

func validateTopology(topology []int) error {
	if len(topology) < 2 {
		return fmt.Errorf("topology needs at least 2 layer sizes, got %d", len(topology))
	}
	for i, size := range topology {
		if size <= 0 {
			return fmt.Errorf("topology layer size must be > 0, got %d at index %d", size, i)
		}
	}
	return nil
}

func uniformUnit(rng *rand.Rand) float32 {
	return rng.Float32()*2 - 1
}

func cloneTopology(topology []int) []int {
	out := make([]int, len(topology))
	copy(out, topology)
	return out
}
