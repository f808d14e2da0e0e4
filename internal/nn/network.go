package nn

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Network is a feedforward multilayer perceptron: an ordered sequence of
// fully connected layers with a fixed input width, where each layer's
// output feeds the next layer's input.
//
// A network owns the end-to-end forward pass, the squared-error loss,
// the backward pass across all layers and the parameter update. Topology
// is fixed at construction; only weights and biases change, and only
// through training.
//
// A network must not be shared across concurrent callers: forward and
// backward passes overwrite per-neuron caches in place, one sample at a
// time.
//
// Example:
//
//	rng := rand.New(rand.NewSource(42))
//	net, err := nn.New([]int{100, 10}, 784, []nn.ActivationKind{nn.Sigmoid, nn.Sigmoid}, rng)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := net.Activate(pixels)
type Network struct {
	layers    []*Layer
	inputSize int
	rng       *rand.Rand
}

// ErrNoSamples is returned by training and loss operations that were
// given an empty sample set.
var ErrNoSamples = errors.New("no samples given")

// New constructs a network with one layer per entry of layerSizes,
// chaining each layer's output width into the next layer's input width.
// activations assigns one activation kind per layer.
//
// rng seeds the Xavier weight initialization and the mini-batch
// shuffling of LearnRandomly; passing nil falls back to a time-seeded
// source. Supply a fixed-seed source for reproducible construction.
//
// Returns a *InvalidTopologyError when layerSizes is empty, when the
// layerSizes and activations lengths disagree, when a layer size is not
// positive, when inputSize is not positive, or when an activation kind
// is not one of the defined constants.
func New(layerSizes []int, inputSize int, activations []ActivationKind, rng *rand.Rand) (*Network, error) {
	if len(layerSizes) == 0 {
		return nil, &InvalidTopologyError{Reason: "no layer sizes given"}
	}
	if len(layerSizes) != len(activations) {
		return nil, &InvalidTopologyError{Reason: fmt.Sprintf(
			"%d layer sizes but %d activations", len(layerSizes), len(activations))}
	}
	if inputSize <= 0 {
		return nil, &InvalidTopologyError{Reason: fmt.Sprintf("input size %d is not positive", inputSize)}
	}
	for i, size := range layerSizes {
		if size <= 0 {
			return nil, &InvalidTopologyError{Reason: fmt.Sprintf("layer %d size %d is not positive", i, size)}
		}
		if !activations[i].Valid() {
			return nil, &InvalidTopologyError{Reason: fmt.Sprintf("layer %d has an unknown activation kind", i)}
		}
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	layers := make([]*Layer, 0, len(layerSizes))
	previousSize := inputSize
	for i, layerSize := range layerSizes {
		layers = append(layers, newLayer(previousSize, layerSize, activations[i], rng))
		previousSize = layerSize
	}

	return &Network{
		layers:    layers,
		inputSize: inputSize,
		rng:       rng,
	}, nil
}

// Activate runs the forward pass: it threads inputs through every layer
// in order and returns the last layer's output.
//
// Returns a *SizeMismatchError if len(inputs) differs from the network's
// input size. Width mismatches between adjacent layers are impossible by
// construction and panic if they ever surface.
func (n *Network) Activate(inputs []float64) ([]float64, error) {
	if len(inputs) != n.inputSize {
		return nil, &SizeMismatchError{Component: "network", Got: len(inputs), Want: n.inputSize}
	}

	next := inputs
	for _, layer := range n.layers {
		out, err := layer.Activate(next)
		if err != nil {
			// Construction chained every layer's width into the
			// next one.
			panic(fmt.Sprintf("nn: layer width diverged inside network: %v", err))
		}
		next = out
	}
	return next, nil
}

// LossSample returns the squared error of the network on one sample:
// the sum over output indices of (output[i] - expected[i])^2.
func (n *Network) LossSample(sample Sample) (float64, error) {
	output, err := n.Activate(sample.Input)
	if err != nil {
		return 0, err
	}
	if len(sample.ExpectedOutput) != len(output) {
		return 0, &SizeMismatchError{Component: "network", Got: len(sample.ExpectedOutput), Want: len(output)}
	}

	loss := 0.0
	for i, actual := range output {
		diff := actual - sample.ExpectedOutput[i]
		loss += diff * diff
	}
	return loss, nil
}

// Loss returns the mean per-sample squared error over the sample set.
func (n *Network) Loss(samples []Sample) (float64, error) {
	if len(samples) == 0 {
		return 0, ErrNoSamples
	}

	total := 0.0
	for _, sample := range samples {
		loss, err := n.LossSample(sample)
		if err != nil {
			return 0, err
		}
		total += loss
	}
	return total / float64(len(samples)), nil
}

// Learn runs one full training step over the given batch.
//
// For every sample it runs the forward pass, computes the output layer's
// error terms, and propagates hidden error terms strictly from the last
// hidden layer back to the first: each hidden layer's error terms depend
// on the already-computed error terms of the layer after it. Gradients
// are summed across the whole batch, then applied in one update with the
// learning rate pre-scaled by 1/len(samples), which turns the sum into
// an average.
//
// Every sample's widths are checked before any gradient is accumulated,
// so a failed call leaves the network unchanged and can be retried with
// corrected samples.
func (n *Network) Learn(samples []Sample, learnRate float64) error {
	if len(samples) == 0 {
		return ErrNoSamples
	}

	// Reject the whole batch before touching any accumulator: a
	// mid-batch failure would strand the gradients of the samples
	// already processed, and the next Learn call would apply them on
	// top of its own.
	outputSize := n.OutputSize()
	for _, sample := range samples {
		if len(sample.Input) != n.inputSize {
			return &SizeMismatchError{Component: "network", Got: len(sample.Input), Want: n.inputSize}
		}
		if len(sample.ExpectedOutput) != outputSize {
			return &SizeMismatchError{Component: "layer", Got: len(sample.ExpectedOutput), Want: outputSize}
		}
	}

	last := len(n.layers) - 1
	for _, sample := range samples {
		if _, err := n.Activate(sample.Input); err != nil {
			return err
		}
		if err := n.layers[last].updateOutputErrors(sample.ExpectedOutput); err != nil {
			return err
		}
		for i := last - 1; i >= 0; i-- {
			n.layers[i].updateHiddenErrors(n.layers[i+1])
		}
	}

	scaled := learnRate / float64(len(samples))
	for _, layer := range n.layers {
		layer.applyAndReset(scaled)
	}
	return nil
}

// LearnRandomly draws a uniformly shuffled mini-batch of batchSize
// samples and runs one Learn step on it. The input slice is not
// reordered; shuffling happens on a copy. Each call consumes fresh
// randomness from the network's source.
//
// Fails if batchSize is not positive or exceeds len(samples).
func (n *Network) LearnRandomly(samples []Sample, learnRate float64, batchSize int) error {
	if len(samples) == 0 {
		return ErrNoSamples
	}
	if batchSize <= 0 {
		return fmt.Errorf("batch size %d is not positive", batchSize)
	}
	if batchSize > len(samples) {
		return fmt.Errorf("batch size %d exceeds sample count %d", batchSize, len(samples))
	}

	batch := make([]Sample, batchSize)
	for i, j := range n.rng.Perm(len(samples))[:batchSize] {
		batch[i] = samples[j]
	}
	return n.Learn(batch, learnRate)
}

// InputSize returns the input width of the network.
func (n *Network) InputSize() int {
	return n.inputSize
}

// OutputSize returns the output width of the last layer.
func (n *Network) OutputSize() int {
	return n.layers[len(n.layers)-1].Size()
}

// LayerCount returns the number of layers.
func (n *Network) LayerCount() int {
	return len(n.layers)
}

// UnitCount returns the total number of neurons across all layers.
func (n *Network) UnitCount() int {
	total := 0
	for _, layer := range n.layers {
		total += layer.Size()
	}
	return total
}

// Layer returns the layer at index i.
func (n *Network) Layer(i int) *Layer {
	return n.layers[i]
}
