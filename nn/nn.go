// Copyright 2025 The Neuralib Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/Jacoblightning/neuralib/internal/nn"
)

// ActivationKind selects one of the built-in activation functions.
type ActivationKind = nn.ActivationKind

// Activation kinds.
const (
	Linear    = nn.Linear
	Step      = nn.Step
	Sigmoid   = nn.Sigmoid
	HyperTan  = nn.HyperTan
	SiLU      = nn.SiLU
	ReLU      = nn.ReLU
	LeakyReLU = nn.LeakyReLU
)

// ParseActivationKind resolves a canonical name back to its kind.
func ParseActivationKind(name string) (ActivationKind, error) {
	return nn.ParseActivationKind(name)
}

// Neuron is a single processing unit of a fully connected layer.
type Neuron = nn.Neuron

// Layer is an ordered collection of neurons sharing one input width and
// one activation kind.
type Layer = nn.Layer

// Network is a feedforward multilayer perceptron.
type Network = nn.Network

// Sample pairs one input vector with its expected output.
type Sample = nn.Sample

// SizeMismatchError reports a wrong-sized input vector.
type SizeMismatchError = nn.SizeMismatchError

// InvalidTopologyError reports an impossible network shape at
// construction.
type InvalidTopologyError = nn.InvalidTopologyError

// ErrNoSamples is returned by training and loss operations given an
// empty sample set.
var ErrNoSamples = nn.ErrNoSamples

// New constructs a network with one layer per entry of layerSizes.
//
// Example:
//
//	rng := rand.New(rand.NewSource(42))
//	net, err := nn.New([]int{100, 10}, 784, []nn.ActivationKind{nn.Sigmoid, nn.Sigmoid}, rng)
func New(layerSizes []int, inputSize int, activations []ActivationKind, rng *rand.Rand) (*Network, error) {
	return nn.New(layerSizes, inputSize, activations, rng)
}

// Persistence

// Snapshot is a serialized copy of a network's parameters.
type Snapshot = nn.Snapshot

// LayerSnapshot holds one layer's parameters and activation kind.
type LayerSnapshot = nn.LayerSnapshot

// NeuronSnapshot holds one neuron's parameters.
type NeuronSnapshot = nn.NeuronSnapshot

// Checkpoint is a training-state snapshot with resume metadata.
type Checkpoint = nn.Checkpoint

// FromSnapshot reconstructs a network from a snapshot.
func FromSnapshot(snap *Snapshot, rng *rand.Rand) (*Network, error) {
	return nn.FromSnapshot(snap, rng)
}

// LoadCheckpoint reads a checkpoint from path and reconstructs its
// network.
func LoadCheckpoint(path string, rng *rand.Rand) (*Checkpoint, error) {
	return nn.LoadCheckpoint(path, rng)
}

// SaveCheckpoint saves a network with epoch and loss metadata in one
// call.
func SaveCheckpoint(path string, network *Network, epoch int, loss float64) error {
	return nn.SaveCheckpoint(path, network, epoch, loss)
}
