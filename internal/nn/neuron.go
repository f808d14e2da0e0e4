package nn

import (
	"gonum.org/v1/gonum/floats"
)

// Neuron is a single processing unit of a fully connected layer.
//
// A neuron owns two logically separate regions of state:
//
//   - Parameters: a weight vector (one weight per input) and a bias
//     scalar. These mutate only through ApplyAndReset during training.
//   - A transient per-sample cache: the last input vector, the
//     pre-activation sum, the activation output and the backpropagated
//     error term. The cache is overwritten by every forward call and is
//     only valid immediately after one; backward operations read it.
//
// In between sits the gradient accumulator (per-weight gradients plus a
// bias gradient), which sums contributions across a batch and is zeroed
// when the accumulated update is applied.
//
// Neurons are not safe for concurrent use: forward and backward calls
// mutate the cache in place.
type Neuron struct {
	weights    []float64
	bias       float64
	activation ActivationKind

	// Transient per-sample cache. Valid only immediately after a
	// forward call; stale otherwise.
	lastInputs    []float64
	preActivation float64
	output        float64
	errorTerm     float64

	// Accumulated gradient, summed across the samples of a batch.
	weightGrads []float64
	biasGrad    float64
}

// newNeuron creates a neuron with the given weights. The weight slice is
// owned by the neuron afterwards.
func newNeuron(weights []float64, bias float64, activation ActivationKind) *Neuron {
	return &Neuron{
		weights:     weights,
		bias:        bias,
		activation:  activation,
		lastInputs:  make([]float64, len(weights)),
		weightGrads: make([]float64, len(weights)),
	}
}

// Activate runs the forward pass for one neuron.
//
// It computes pre_activation = dot(inputs, weights) + bias, applies the
// activation function, and returns the result. As a side effect it caches
// the inputs, the pre-activation sum and the output, which the subsequent
// backward pass depends on.
//
// Returns a *SizeMismatchError if len(inputs) differs from the neuron's
// input size.
func (n *Neuron) Activate(inputs []float64) (float64, error) {
	if len(inputs) != len(n.weights) {
		return 0, &SizeMismatchError{Component: "neuron", Got: len(inputs), Want: len(n.weights)}
	}

	copy(n.lastInputs, inputs)
	n.preActivation = floats.Dot(inputs, n.weights) + n.bias
	n.output = n.activation.Call(n.preActivation)
	return n.output, nil
}

// computeOutputError computes the error term of an output-layer neuron
// from the expected output of the last forward call.
//
// The loss derivative is that of the squared error, d/dout (out-exp)^2 =
// 2*(out-exp), chained with the activation derivative at the cached
// pre-activation value.
func (n *Neuron) computeOutputError(expected float64) {
	lossDerivative := 2 * (n.output - expected)
	n.errorTerm = n.activation.Derivative(n.preActivation) * lossDerivative
}

// computeHiddenError computes the error term of a hidden neuron at index
// idx of its layer, by propagating the already-computed error terms of
// the next layer back through that layer's weights.
//
// Every neuron j of the next layer holds one weight per neuron of this
// layer, so the chain-rule contribution of neuron j is
// next.neurons[j].errorTerm * next.neurons[j].weights[idx]. The next
// layer's error terms must already be up to date, which is what forces
// the strict last-to-first traversal of the backward pass.
func (n *Neuron) computeHiddenError(next *Layer, idx int) {
	weightedError := 0.0
	for _, downstream := range next.neurons {
		weightedError += downstream.errorTerm * downstream.weights[idx]
	}
	n.errorTerm = n.activation.Derivative(n.preActivation) * weightedError
}

// accumulateGradient folds the current error term into the gradient
// accumulator. Called once per neuron per sample, after the neuron's
// error term is known.
func (n *Neuron) accumulateGradient() {
	floats.AddScaled(n.weightGrads, n.errorTerm, n.lastInputs)
	n.biasGrad += n.errorTerm
}

// applyAndReset applies the accumulated gradient to the parameters,
// scaled by learnRate, and zeroes the accumulator.
//
// Batch averaging happens here by convention: the caller pre-scales
// learnRate by 1/batchSize, so the summed gradients become a mean.
func (n *Neuron) applyAndReset(learnRate float64) {
	floats.AddScaled(n.weights, -learnRate, n.weightGrads)
	n.bias -= learnRate * n.biasGrad

	clear(n.weightGrads)
	n.biasGrad = 0
}

// InputSize returns the number of inputs the neuron accepts.
func (n *Neuron) InputSize() int {
	return len(n.weights)
}

// Weights returns the live weight vector of the neuron.
//
// The returned slice aliases the neuron's parameters: writes through it
// change the neuron. This mirrors how trained parameters are inspected
// and restored without copying.
func (n *Neuron) Weights() []float64 {
	return n.weights
}

// Bias returns the neuron's bias.
func (n *Neuron) Bias() float64 {
	return n.bias
}

// SetBias sets the neuron's bias.
func (n *Neuron) SetBias(bias float64) {
	n.bias = bias
}

// Activation returns the neuron's activation kind.
func (n *Neuron) Activation() ActivationKind {
	return n.activation
}
