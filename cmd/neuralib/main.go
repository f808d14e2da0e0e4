// Package main provides the neuralib CLI: train and evaluate
// feedforward networks on MNIST-style datasets from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Jacoblightning/neuralib/dataset"
	"github.com/Jacoblightning/neuralib/nn"
	"github.com/Jacoblightning/neuralib/storage"
	"github.com/Jacoblightning/neuralib/training"
)

const version = "v0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("neuralib %s\n", version)
	case "train":
		err = runTrain(os.Args[2:])
	case "eval":
		err = runEval(os.Args[2:])
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "neuralib: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("neuralib - feedforward neural network trainer")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  train      Train a network on an IDX image/label pair")
	fmt.Println("  eval       Evaluate a checkpoint against an IDX image/label pair")
	fmt.Println("  version    Show version")
}

func runTrain(args []string) error {
	flags := flag.NewFlagSet("train", flag.ExitOnError)
	images := flags.String("images", "", "path to the gzipped IDX image file (required)")
	labels := flags.String("labels", "", "path to the gzipped IDX label file (required)")
	layers := flags.String("layers", "100,10", "comma-separated layer sizes")
	activations := flags.String("activations", "sigmoid,sigmoid", "comma-separated activation kinds, one per layer")
	epochs := flags.Int("epochs", 100, "number of training epochs")
	learnRate := flags.Float64("lr", 0.5, "learning rate")
	batchSize := flags.Int("batch", 0, "mini-batch size (0 trains on the full set)")
	seed := flags.Int64("seed", time.Now().UnixNano(), "random seed")
	checkpointPath := flags.String("checkpoint", "", "write the trained network to this file")
	historyPath := flags.String("history", "", "record run history in this SQLite database")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *images == "" || *labels == "" {
		return fmt.Errorf("both -images and -labels are required")
	}

	samples, err := dataset.LoadPair(*images, *labels)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("dataset %s is empty", *images)
	}
	inputSize := len(samples[0].Input)
	fmt.Printf("Loaded %d samples with %d inputs each.\n", len(samples), inputSize)

	layerSizes, err := parseLayerSizes(*layers)
	if err != nil {
		return err
	}
	kinds, err := parseActivations(*activations)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))
	net, err := nn.New(layerSizes, inputSize, kinds, rng)
	if err != nil {
		return err
	}

	config := training.Config{
		Epochs:    *epochs,
		LearnRate: *learnRate,
		BatchSize: *batchSize,
		Progress: func(epoch int, loss float64) {
			fmt.Printf("Epoch: %d. Loss: %.6f\n", epoch, loss)
		},
	}

	ctx := context.Background()
	if *historyPath != "" {
		store := storage.NewSQLiteStore(*historyPath)
		if err := store.Init(ctx); err != nil {
			return fmt.Errorf("open history database: %w", err)
		}
		defer store.Close()
		config.Store = store
	}

	trainer, err := training.New(net, config)
	if err != nil {
		return err
	}

	fmt.Println("Learning...")
	report, err := trainer.Run(ctx, samples)
	if err != nil {
		return err
	}
	fmt.Printf("Run %s finished in %s. Final loss: %.6f\n", report.RunID, report.Duration.Round(time.Millisecond), report.FinalLoss)

	accuracy, err := dataset.Accuracy(net, samples)
	if err != nil {
		return err
	}
	fmt.Printf("Training-set accuracy: %.2f%%\n", accuracy*100)

	if *checkpointPath != "" {
		if err := nn.SaveCheckpoint(*checkpointPath, net, report.Epochs, report.FinalLoss); err != nil {
			return err
		}
		fmt.Printf("Checkpoint written to %s\n", *checkpointPath)
	}
	return nil
}

func runEval(args []string) error {
	flags := flag.NewFlagSet("eval", flag.ExitOnError)
	checkpointPath := flags.String("checkpoint", "", "checkpoint file to load (required)")
	images := flags.String("images", "", "path to the gzipped IDX image file (required)")
	labels := flags.String("labels", "", "path to the gzipped IDX label file (required)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *checkpointPath == "" || *images == "" || *labels == "" {
		return fmt.Errorf("-checkpoint, -images and -labels are required")
	}

	checkpoint, err := nn.LoadCheckpoint(*checkpointPath, nil)
	if err != nil {
		return err
	}

	samples, err := dataset.LoadPair(*images, *labels)
	if err != nil {
		return err
	}

	loss, err := checkpoint.Network.Loss(samples)
	if err != nil {
		return err
	}
	accuracy, err := dataset.Accuracy(checkpoint.Network, samples)
	if err != nil {
		return err
	}

	fmt.Printf("Checkpoint from epoch %d (saved loss %.6f)\n", checkpoint.Epoch, checkpoint.Loss)
	fmt.Printf("Evaluation loss: %.6f\n", loss)
	fmt.Printf("Accuracy: %.2f%% over %d samples\n", accuracy*100, len(samples))
	return nil
}

func parseLayerSizes(value string) ([]int, error) {
	parts := splitNonEmpty(value)
	if len(parts) == 0 {
		return nil, fmt.Errorf("no layer sizes given")
	}
	sizes := make([]int, len(parts))
	for i, part := range parts {
		size, err := parsePositiveInt(part)
		if err != nil {
			return nil, fmt.Errorf("layer size %q: %w", part, err)
		}
		sizes[i] = size
	}
	return sizes, nil
}

func parseActivations(value string) ([]nn.ActivationKind, error) {
	parts := splitNonEmpty(value)
	kinds := make([]nn.ActivationKind, len(parts))
	for i, part := range parts {
		kind, err := nn.ParseActivationKind(part)
		if err != nil {
			return nil, err
		}
		kinds[i] = kind
	}
	return kinds, nil
}

func splitNonEmpty(value string) []string {
	var parts []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func parsePositiveInt(value string) (int, error) {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", parsed)
	}
	return parsed, nil
}
