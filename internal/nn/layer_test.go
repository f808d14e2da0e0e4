package nn

import (
	"errors"
	"math/rand"
	"testing"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

// TestLayerActivate verifies per-neuron forwarding and output ordering.
func TestLayerActivate(t *testing.T) {
	layer := &Layer{
		neurons: []*Neuron{
			newNeuron([]float64{1, 0}, 0, Linear),
			newNeuron([]float64{0, 1}, 1, Linear),
		},
		inputSize:  2,
		activation: Linear,
	}

	out, err := layer.Activate([]float64{3, 4})
	if err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("output length = %d, want 2", len(out))
	}
	if out[0] != 3 || out[1] != 5 {
		t.Errorf("output = %v, want [3 5]", out)
	}
}

// TestLayerSizeMismatch verifies the layer-level width check.
func TestLayerSizeMismatch(t *testing.T) {
	layer := newLayer(3, 2, Sigmoid, testRNG())

	_, err := layer.Activate([]float64{1, 2})
	if err == nil {
		t.Fatal("layer accepted a wrong-sized input")
	}

	var mismatch *SizeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error is %T, want *SizeMismatchError", err)
	}
	if mismatch.Component != "layer" || mismatch.Got != 2 || mismatch.Want != 3 {
		t.Errorf("mismatch = %+v, want component=layer got=2 want=3", mismatch)
	}
}

// TestLayerConstruction verifies newLayer wires sizes and activation
// through to every neuron.
func TestLayerConstruction(t *testing.T) {
	layer := newLayer(4, 3, HyperTan, testRNG())

	if layer.Size() != 3 {
		t.Errorf("Size() = %d, want 3", layer.Size())
	}
	if layer.InputSize() != 4 {
		t.Errorf("InputSize() = %d, want 4", layer.InputSize())
	}
	if layer.Activation() != HyperTan {
		t.Errorf("Activation() = %v, want HyperTan", layer.Activation())
	}
	for i := 0; i < layer.Size(); i++ {
		if got := layer.Neuron(i).InputSize(); got != 4 {
			t.Errorf("neuron %d input size = %d, want 4", i, got)
		}
		if got := layer.Neuron(i).Activation(); got != HyperTan {
			t.Errorf("neuron %d activation = %v, want HyperTan", i, got)
		}
	}
}

// TestLayerUpdateOutputErrors verifies expected outputs are zipped 1:1
// with neurons and wrong lengths are rejected.
func TestLayerUpdateOutputErrors(t *testing.T) {
	layer := &Layer{
		neurons: []*Neuron{
			newNeuron([]float64{1}, 0, Linear),
			newNeuron([]float64{2}, 0, Linear),
		},
		inputSize:  1,
		activation: Linear,
	}
	if _, err := layer.Activate([]float64{1}); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}

	if err := layer.updateOutputErrors([]float64{0}); err == nil {
		t.Error("updateOutputErrors accepted a short expected vector")
	}

	if err := layer.updateOutputErrors([]float64{0, 0}); err != nil {
		t.Fatalf("updateOutputErrors failed: %v", err)
	}

	// Linear derivative is 1, so errorTerm = 2*(output - 0).
	if !floatEqual(layer.neurons[0].errorTerm, 2, 1e-12) {
		t.Errorf("neuron 0 errorTerm = %v, want 2", layer.neurons[0].errorTerm)
	}
	if !floatEqual(layer.neurons[1].errorTerm, 4, 1e-12) {
		t.Errorf("neuron 1 errorTerm = %v, want 4", layer.neurons[1].errorTerm)
	}
	// Gradients were accumulated in the same pass.
	if !floatEqual(layer.neurons[0].weightGrads[0], 2, 1e-12) {
		t.Errorf("neuron 0 weightGrad = %v, want 2", layer.neurons[0].weightGrads[0])
	}
}
