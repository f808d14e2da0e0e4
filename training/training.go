// Copyright 2025 The Neuralib Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package training drives epoch loops over a network with progress
// reporting and optional run-history persistence.
//
// # Basic Usage
//
//	trainer, err := training.New(net, training.Config{
//	    Epochs:    100,
//	    LearnRate: 0.5,
//	    BatchSize: 32,
//	    Progress: func(epoch int, loss float64) {
//	        fmt.Printf("epoch %d loss %.6f\n", epoch, loss)
//	    },
//	})
//	report, err := trainer.Run(ctx, samples)
package training

import (
	"github.com/Jacoblightning/neuralib/internal/nn"
	"github.com/Jacoblightning/neuralib/internal/training"
)

// Config holds the hyperparameters and hooks of a training run.
type Config = training.Config

// ProgressFunc is called after every epoch with the epoch index and the
// current loss.
type ProgressFunc = training.ProgressFunc

// Report summarizes a finished training run.
type Report = training.Report

// Trainer runs the training loop of one network.
type Trainer = training.Trainer

// New validates the configuration and builds a trainer.
func New(network *nn.Network, config Config) (*Trainer, error) {
	return training.New(network, config)
}
