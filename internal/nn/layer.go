package nn

import (
	"fmt"
	"math/rand"
)

// Layer is an ordered, fixed-size collection of neurons sharing one
// input width and one activation kind.
//
// A layer orchestrates the per-neuron forward and backward calls across
// the whole collection; it holds no state of its own beyond the neurons.
// The layer's output width equals its neuron count.
type Layer struct {
	neurons    []*Neuron
	inputSize  int
	activation ActivationKind
}

// newLayer creates a layer of layerSize neurons with inputSize inputs
// each, initializing weights from rng.
func newLayer(inputSize, layerSize int, activation ActivationKind, rng *rand.Rand) *Layer {
	neurons := make([]*Neuron, layerSize)
	for i := range neurons {
		neurons[i] = newNeuron(xavierWeights(inputSize, layerSize, rng), 0, activation)
	}
	return &Layer{
		neurons:    neurons,
		inputSize:  inputSize,
		activation: activation,
	}
}

// Activate runs the forward pass over every neuron in order and returns
// the ordered outputs.
//
// Returns a *SizeMismatchError if len(inputs) differs from the layer's
// input size. A per-neuron size failure past that check indicates a
// construction bug and panics.
func (l *Layer) Activate(inputs []float64) ([]float64, error) {
	if len(inputs) != l.inputSize {
		return nil, &SizeMismatchError{Component: "layer", Got: len(inputs), Want: l.inputSize}
	}

	outputs := make([]float64, len(l.neurons))
	for i, neuron := range l.neurons {
		out, err := neuron.Activate(inputs)
		if err != nil {
			// Width was checked above and every neuron was built
			// with the layer's input size.
			panic(fmt.Sprintf("nn: neuron width diverged from layer width: %v", err))
		}
		outputs[i] = out
	}
	return outputs, nil
}

// updateOutputErrors computes the error term of every neuron of an
// output layer against the matching expected output, and accumulates
// each neuron's gradient.
func (l *Layer) updateOutputErrors(expected []float64) error {
	if len(expected) != len(l.neurons) {
		return &SizeMismatchError{Component: "layer", Got: len(expected), Want: len(l.neurons)}
	}
	for i, neuron := range l.neurons {
		neuron.computeOutputError(expected[i])
		neuron.accumulateGradient()
	}
	return nil
}

// updateHiddenErrors computes the error term of every neuron of a hidden
// layer from the next layer's already-computed error terms, and
// accumulates each neuron's gradient.
func (l *Layer) updateHiddenErrors(next *Layer) {
	for i, neuron := range l.neurons {
		neuron.computeHiddenError(next, i)
		neuron.accumulateGradient()
	}
}

// applyAndReset applies the accumulated gradients of every neuron with
// the given (pre-scaled) learning rate and zeroes the accumulators.
func (l *Layer) applyAndReset(learnRate float64) {
	for _, neuron := range l.neurons {
		neuron.applyAndReset(learnRate)
	}
}

// Size returns the number of neurons, which is also the layer's output
// width.
func (l *Layer) Size() int {
	return len(l.neurons)
}

// InputSize returns the input width shared by every neuron.
func (l *Layer) InputSize() int {
	return l.inputSize
}

// Activation returns the activation kind shared by every neuron.
func (l *Layer) Activation() ActivationKind {
	return l.activation
}

// Neuron returns the neuron at index i.
func (l *Layer) Neuron(i int) *Neuron {
	return l.neurons[i]
}
