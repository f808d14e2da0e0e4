// Package training drives epoch loops over a network: full-batch or
// random mini-batch steps, per-epoch loss tracking, progress reporting
// and optional run-history persistence.
package training

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/Jacoblightning/neuralib/internal/nn"
	"github.com/Jacoblightning/neuralib/internal/storage"
)

// ProgressFunc is called after every epoch with the epoch index and the
// loss over the training set.
type ProgressFunc func(epoch int, loss float64)

// Config holds the hyperparameters and hooks of a training run.
type Config struct {
	// Epochs is the number of full training steps to run.
	Epochs int

	// LearnRate is the gradient-descent step size.
	LearnRate float64

	// BatchSize selects random mini-batches of this size per epoch.
	// Zero trains on the full sample set every epoch.
	BatchSize int

	// Progress, when non-nil, receives the loss after every epoch.
	Progress ProgressFunc

	// Store, when non-nil, records the run and its per-epoch losses.
	Store storage.Store

	// RunID identifies the run in the store. Empty generates a fresh
	// UUID.
	RunID string
}

// Report summarizes a finished training run.
type Report struct {
	RunID     string
	Epochs    int
	Losses    []float64 // loss after each epoch, in order
	FinalLoss float64
	MeanLoss  float64
	StdDev    float64
	Duration  time.Duration
}

// Trainer runs the training loop of one network.
type Trainer struct {
	network *nn.Network
	config  Config
}

// New validates the configuration and builds a trainer.
func New(network *nn.Network, config Config) (*Trainer, error) {
	if network == nil {
		return nil, errors.New("training requires a network")
	}
	if config.Epochs <= 0 {
		return nil, fmt.Errorf("epochs %d is not positive", config.Epochs)
	}
	if config.LearnRate <= 0 {
		return nil, fmt.Errorf("learn rate %v is not positive", config.LearnRate)
	}
	if config.BatchSize < 0 {
		return nil, fmt.Errorf("batch size %d is negative", config.BatchSize)
	}
	return &Trainer{network: network, config: config}, nil
}

// Run trains for the configured number of epochs and reports the loss
// trajectory. Cancellation is checked between epochs; a canceled context
// aborts with its error and leaves the network in the state of the last
// completed epoch.
func (t *Trainer) Run(ctx context.Context, samples []nn.Sample) (*Report, error) {
	if len(samples) == 0 {
		return nil, nn.ErrNoSamples
	}

	runID := t.config.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	started := time.Now()
	if t.config.Store != nil {
		if err := t.config.Store.SaveRun(ctx, t.describeRun(runID, started)); err != nil {
			return nil, fmt.Errorf("record run: %w", err)
		}
	}

	losses := make([]float64, 0, t.config.Epochs)
	for epoch := 0; epoch < t.config.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if t.config.BatchSize > 0 {
			if err := t.network.LearnRandomly(samples, t.config.LearnRate, t.config.BatchSize); err != nil {
				return nil, fmt.Errorf("epoch %d: %w", epoch, err)
			}
		} else {
			if err := t.network.Learn(samples, t.config.LearnRate); err != nil {
				return nil, fmt.Errorf("epoch %d: %w", epoch, err)
			}
		}

		loss, err := t.network.Loss(samples)
		if err != nil {
			return nil, fmt.Errorf("epoch %d loss: %w", epoch, err)
		}
		losses = append(losses, loss)

		if t.config.Progress != nil {
			t.config.Progress(epoch, loss)
		}
		if t.config.Store != nil {
			record := storage.EpochRecord{
				RunID:      runID,
				Epoch:      epoch,
				Loss:       loss,
				RecordedAt: time.Now().UTC(),
			}
			if err := t.config.Store.RecordEpoch(ctx, record); err != nil {
				return nil, fmt.Errorf("record epoch %d: %w", epoch, err)
			}
		}
	}

	// stat.StdDev of a single value is NaN (sample variance divides by
	// n-1); a one-epoch run reports 0 instead.
	stdDev := 0.0
	if len(losses) > 1 {
		stdDev = stat.StdDev(losses, nil)
	}

	return &Report{
		RunID:     runID,
		Epochs:    t.config.Epochs,
		Losses:    losses,
		FinalLoss: losses[len(losses)-1],
		MeanLoss:  stat.Mean(losses, nil),
		StdDev:    stdDev,
		Duration:  time.Since(started),
	}, nil
}

// describeRun captures the network shape and hyperparameters for the
// run-history store.
func (t *Trainer) describeRun(runID string, started time.Time) storage.Run {
	layerSizes := make([]int, t.network.LayerCount())
	activations := make([]string, t.network.LayerCount())
	for i := range layerSizes {
		layerSizes[i] = t.network.Layer(i).Size()
		activations[i] = t.network.Layer(i).Activation().String()
	}

	return storage.Run{
		ID:          runID,
		StartedAt:   started.UTC(),
		InputSize:   t.network.InputSize(),
		LayerSizes:  layerSizes,
		Activations: activations,
		LearnRate:   t.config.LearnRate,
		BatchSize:   t.config.BatchSize,
		Epochs:      t.config.Epochs,
	}
}
