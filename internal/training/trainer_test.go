package training

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jacoblightning/neuralib/internal/nn"
	"github.com/Jacoblightning/neuralib/internal/storage"
)

func testNetwork(t *testing.T) *nn.Network {
	t.Helper()
	net, err := nn.New([]int{3, 1}, 2, []nn.ActivationKind{nn.Sigmoid, nn.Sigmoid}, rand.New(rand.NewSource(13)))
	require.NoError(t, err)
	return net
}

func testSamples() []nn.Sample {
	return []nn.Sample{
		{Input: []float64{0, 0}, ExpectedOutput: []float64{0.1}},
		{Input: []float64{0, 1}, ExpectedOutput: []float64{0.9}},
		{Input: []float64{1, 0}, ExpectedOutput: []float64{0.9}},
		{Input: []float64{1, 1}, ExpectedOutput: []float64{0.1}},
	}
}

// TestNewValidatesConfig covers the trainer's configuration checks.
func TestNewValidatesConfig(t *testing.T) {
	net := testNetwork(t)

	_, err := New(nil, Config{Epochs: 1, LearnRate: 0.5})
	assert.Error(t, err)
	_, err = New(net, Config{Epochs: 0, LearnRate: 0.5})
	assert.Error(t, err)
	_, err = New(net, Config{Epochs: 1, LearnRate: 0})
	assert.Error(t, err)
	_, err = New(net, Config{Epochs: 1, LearnRate: 0.5, BatchSize: -1})
	assert.Error(t, err)

	_, err = New(net, Config{Epochs: 1, LearnRate: 0.5})
	assert.NoError(t, err)
}

// TestRunReducesLoss trains a small network and checks the loss
// trajectory ends below where it started.
func TestRunReducesLoss(t *testing.T) {
	trainer, err := New(testNetwork(t), Config{Epochs: 200, LearnRate: 0.5})
	require.NoError(t, err)

	report, err := trainer.Run(context.Background(), testSamples())
	require.NoError(t, err)

	require.Len(t, report.Losses, 200)
	assert.Equal(t, report.Losses[199], report.FinalLoss)
	assert.Less(t, report.FinalLoss, report.Losses[0])
	assert.NotEmpty(t, report.RunID)
	assert.Greater(t, report.MeanLoss, 0.0)
	assert.False(t, math.IsNaN(report.StdDev))
}

// TestRunSingleEpochStdDev verifies a one-epoch report carries a zero
// standard deviation instead of the NaN a one-element sample variance
// would produce.
func TestRunSingleEpochStdDev(t *testing.T) {
	trainer, err := New(testNetwork(t), Config{Epochs: 1, LearnRate: 0.5})
	require.NoError(t, err)

	report, err := trainer.Run(context.Background(), testSamples())
	require.NoError(t, err)

	require.Len(t, report.Losses, 1)
	assert.Equal(t, 0.0, report.StdDev)
	assert.Equal(t, report.Losses[0], report.MeanLoss)
}

// TestRunCallsProgress verifies the progress hook fires once per epoch
// in order.
func TestRunCallsProgress(t *testing.T) {
	var epochs []int
	trainer, err := New(testNetwork(t), Config{
		Epochs:    5,
		LearnRate: 0.5,
		Progress:  func(epoch int, _ float64) { epochs = append(epochs, epoch) },
	})
	require.NoError(t, err)

	_, err = trainer.Run(context.Background(), testSamples())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, epochs)
}

// TestRunRecordsHistory verifies the run and every epoch land in the
// store.
func TestRunRecordsHistory(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Init(ctx))

	trainer, err := New(testNetwork(t), Config{
		Epochs:    3,
		LearnRate: 0.5,
		RunID:     "test-run",
		Store:     store,
	})
	require.NoError(t, err)

	report, err := trainer.Run(ctx, testSamples())
	require.NoError(t, err)
	assert.Equal(t, "test-run", report.RunID)

	run, ok, err := store.GetRun(ctx, "test-run")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, run.InputSize)
	assert.Equal(t, []int{3, 1}, run.LayerSizes)
	assert.Equal(t, []string{"sigmoid", "sigmoid"}, run.Activations)
	assert.InDelta(t, 0.5, run.LearnRate, 1e-12)

	records, err := store.GetEpochRecords(ctx, "test-run")
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, record := range records {
		assert.Equal(t, i, record.Epoch)
		assert.Equal(t, report.Losses[i], record.Loss)
	}
}

// TestRunMiniBatch trains with random mini-batches.
func TestRunMiniBatch(t *testing.T) {
	trainer, err := New(testNetwork(t), Config{Epochs: 50, LearnRate: 0.5, BatchSize: 2})
	require.NoError(t, err)

	report, err := trainer.Run(context.Background(), testSamples())
	require.NoError(t, err)
	assert.Len(t, report.Losses, 50)
}

// TestRunMiniBatchTooLarge surfaces the batch-size validation from the
// network.
func TestRunMiniBatchTooLarge(t *testing.T) {
	trainer, err := New(testNetwork(t), Config{Epochs: 1, LearnRate: 0.5, BatchSize: 10})
	require.NoError(t, err)

	_, err = trainer.Run(context.Background(), testSamples())
	assert.Error(t, err)
}

// TestRunHonorsCancellation verifies a canceled context stops the loop.
func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	trainer, err := New(testNetwork(t), Config{Epochs: 1000, LearnRate: 0.5})
	require.NoError(t, err)

	_, err = trainer.Run(ctx, testSamples())
	assert.ErrorIs(t, err, context.Canceled)
}

// TestRunEmptySamples rejects an empty training set.
func TestRunEmptySamples(t *testing.T) {
	trainer, err := New(testNetwork(t), Config{Epochs: 1, LearnRate: 0.5})
	require.NoError(t, err)

	_, err = trainer.Run(context.Background(), nil)
	assert.ErrorIs(t, err, nn.ErrNoSamples)
}
