package nn

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"
)

// snapshotFormatVersion identifies the on-disk checkpoint layout.
const snapshotFormatVersion = 1

// NeuronSnapshot holds one neuron's parameters.
type NeuronSnapshot struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// LayerSnapshot holds one layer's parameters and activation kind.
type LayerSnapshot struct {
	InputSize  int              `json:"input_size"`
	Activation ActivationKind   `json:"activation"`
	Neurons    []NeuronSnapshot `json:"neurons"`
}

// Snapshot is a serialized copy of all layer and neuron parameters,
// sufficient to reconstruct an identical network without retraining.
// Transient caches and gradient accumulators are deliberately excluded;
// they are only meaningful mid-step.
type Snapshot struct {
	InputSize int             `json:"input_size"`
	Layers    []LayerSnapshot `json:"layers"`
}

// Snapshot returns a deep copy of the network's parameters.
func (n *Network) Snapshot() *Snapshot {
	snap := &Snapshot{
		InputSize: n.inputSize,
		Layers:    make([]LayerSnapshot, len(n.layers)),
	}
	for i, layer := range n.layers {
		ls := LayerSnapshot{
			InputSize:  layer.inputSize,
			Activation: layer.activation,
			Neurons:    make([]NeuronSnapshot, len(layer.neurons)),
		}
		for j, neuron := range layer.neurons {
			weights := make([]float64, len(neuron.weights))
			copy(weights, neuron.weights)
			ls.Neurons[j] = NeuronSnapshot{Weights: weights, Bias: neuron.bias}
		}
		snap.Layers[i] = ls
	}
	return snap
}

// FromSnapshot reconstructs a network from a snapshot.
//
// The snapshot's topology is validated the same way New validates a
// fresh one, plus the width chaining between stored layers. rng is only
// consumed by later LearnRandomly calls; nil falls back to a time-seeded
// source.
func FromSnapshot(snap *Snapshot, rng *rand.Rand) (*Network, error) {
	if len(snap.Layers) == 0 {
		return nil, &InvalidTopologyError{Reason: "snapshot has no layers"}
	}
	if snap.InputSize <= 0 {
		return nil, &InvalidTopologyError{Reason: fmt.Sprintf("input size %d is not positive", snap.InputSize)}
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	layers := make([]*Layer, len(snap.Layers))
	previousSize := snap.InputSize
	for i, ls := range snap.Layers {
		if ls.InputSize != previousSize {
			return nil, &InvalidTopologyError{Reason: fmt.Sprintf(
				"layer %d expects %d inputs but the previous width is %d", i, ls.InputSize, previousSize)}
		}
		if len(ls.Neurons) == 0 {
			return nil, &InvalidTopologyError{Reason: fmt.Sprintf("layer %d has no neurons", i)}
		}
		if !ls.Activation.Valid() {
			return nil, &InvalidTopologyError{Reason: fmt.Sprintf("layer %d has an unknown activation kind", i)}
		}

		neurons := make([]*Neuron, len(ls.Neurons))
		for j, ns := range ls.Neurons {
			if len(ns.Weights) != ls.InputSize {
				return nil, &InvalidTopologyError{Reason: fmt.Sprintf(
					"layer %d neuron %d has %d weights for %d inputs", i, j, len(ns.Weights), ls.InputSize)}
			}
			weights := make([]float64, len(ns.Weights))
			copy(weights, ns.Weights)
			neurons[j] = newNeuron(weights, ns.Bias, ls.Activation)
		}

		layers[i] = &Layer{neurons: neurons, inputSize: ls.InputSize, activation: ls.Activation}
		previousSize = len(ls.Neurons)
	}

	return &Network{
		layers:    layers,
		inputSize: snap.InputSize,
		rng:       rng,
	}, nil
}

// Checkpoint is a training-state snapshot: the network parameters plus
// enough metadata to resume or audit a run.
//
// Example:
//
//	cp := &nn.Checkpoint{Network: net, Epoch: 10, Loss: 0.123}
//	if err := cp.Save("mnist.ckpt"); err != nil {
//	    log.Fatal(err)
//	}
type Checkpoint struct {
	Network   *Network
	Epoch     int
	Loss      float64
	Metadata  map[string]any
	CreatedAt time.Time
}

// checkpointFile is the on-disk JSON layout of a checkpoint.
type checkpointFile struct {
	FormatVersion int            `json:"format_version"`
	CreatedAt     time.Time      `json:"created_at"`
	Epoch         int            `json:"epoch"`
	Loss          float64        `json:"loss"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Network       *Snapshot      `json:"network"`
}

// Save writes the checkpoint to path as JSON.
func (c *Checkpoint) Save(path string) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	file := checkpointFile{
		FormatVersion: snapshotFormatVersion,
		CreatedAt:     createdAt,
		Epoch:         c.Epoch,
		Loss:          c.Loss,
		Metadata:      c.Metadata,
		Network:       c.Network.Snapshot(),
	}

	data, err := json.MarshalIndent(&file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint reads a checkpoint from path and reconstructs its
// network. rng is handed to the restored network, as in FromSnapshot.
func LoadCheckpoint(path string, rng *rand.Rand) (*Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var file checkpointFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}
	if file.FormatVersion != snapshotFormatVersion {
		return nil, fmt.Errorf("unsupported checkpoint format version %d", file.FormatVersion)
	}
	if file.Network == nil {
		return nil, fmt.Errorf("checkpoint has no network snapshot")
	}

	network, err := FromSnapshot(file.Network, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to restore network: %w", err)
	}

	return &Checkpoint{
		Network:   network,
		Epoch:     file.Epoch,
		Loss:      file.Loss,
		Metadata:  file.Metadata,
		CreatedAt: file.CreatedAt,
	}, nil
}

// SaveCheckpoint is a convenience wrapper that saves a network with
// epoch and loss metadata in one call.
func SaveCheckpoint(path string, network *Network, epoch int, loss float64) error {
	cp := &Checkpoint{
		Network:   network,
		Epoch:     epoch,
		Loss:      loss,
		CreatedAt: time.Now().UTC(),
	}
	return cp.Save(path)
}
