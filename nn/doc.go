// Copyright 2025 The Neuralib Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides a feedforward multilayer perceptron: layered
// processing units with tag-dispatched activation functions, forward
// inference and gradient-descent training via backpropagation.
//
// # Overview
//
// This package contains:
//   - Network: ordered fully connected layers with a fixed input width
//   - Activations: Linear, Step, Sigmoid, HyperTan, SiLU, ReLU, LeakyReLU
//   - Training: Learn (full batch) and LearnRandomly (mini-batch)
//   - Persistence: Snapshot and Checkpoint for saving trained networks
//
// # Basic Usage
//
//	import (
//	    "math/rand"
//
//	    "github.com/Jacoblightning/neuralib/nn"
//	)
//
//	func main() {
//	    rng := rand.New(rand.NewSource(42))
//
//	    // 784 inputs, a 100-neuron hidden layer, 10 outputs.
//	    net, err := nn.New([]int{100, 10}, 784, []nn.ActivationKind{nn.Sigmoid, nn.Sigmoid}, rng)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Inference
//	    out, err := net.Activate(pixels)
//
//	    // Training
//	    err = net.Learn(samples, 0.5)
//	    err = net.LearnRandomly(samples, 0.5, 32)
//	}
//
// # Errors
//
// Wrong-sized input vectors fail with *SizeMismatchError at every level
// (neuron, layer, network); impossible shapes at construction fail with
// *InvalidTopologyError. Width violations between layers the network
// built itself are construction bugs and panic.
//
// # Concurrency
//
// A Network is not safe for concurrent use: forward and backward passes
// overwrite per-neuron caches in place.
package nn
