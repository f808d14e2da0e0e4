// Copyright 2025 The Neuralib Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset converts labeled image records into training samples:
// MNIST-style IDX files become normalized inputs with one-hot expected
// outputs.
package dataset

import (
	"github.com/Jacoblightning/neuralib/internal/dataset"
	"github.com/Jacoblightning/neuralib/internal/nn"
)

// Classes is the number of MNIST digit classes.
const Classes = dataset.Classes

// OneHot encodes label as a vector with a single 1 at the label's
// index.
func OneHot(label, classes int) ([]float64, error) {
	return dataset.OneHot(label, classes)
}

// Load reads the gzipped MNIST train and test sets from dir.
func Load(dir string) (train, test []nn.Sample, err error) {
	return dataset.Load(dir)
}

// LoadPair reads one gzipped image/label IDX file pair.
func LoadPair(imageFile, labelFile string) ([]nn.Sample, error) {
	return dataset.LoadPair(imageFile, labelFile)
}

// Accuracy returns the fraction of samples whose highest network output
// matches the expected class.
func Accuracy(net *nn.Network, samples []nn.Sample) (float64, error) {
	return dataset.Accuracy(net, samples)
}
