// Package dataset converts labeled image records into training samples.
//
// MNIST-style IDX files are read with github.com/petar/GoMNIST; pixels
// are normalized to [0, 1] and labels are one-hot encoded over the
// digit range.
package dataset

import (
	"fmt"

	mnist "github.com/petar/GoMNIST"
	"gonum.org/v1/gonum/floats"

	"github.com/Jacoblightning/neuralib/internal/nn"
)

// Classes is the number of MNIST digit classes.
const Classes = 10

// OneHot encodes label as a vector of length classes with a single 1 at
// the label's index.
func OneHot(label, classes int) ([]float64, error) {
	if classes <= 0 {
		return nil, fmt.Errorf("class count %d is not positive", classes)
	}
	if label < 0 || label >= classes {
		return nil, fmt.Errorf("label %d outside [0, %d)", label, classes)
	}
	encoded := make([]float64, classes)
	encoded[label] = 1
	return encoded, nil
}

// FromSet converts a GoMNIST set into samples: one input value per
// pixel scaled to [0, 1], and a one-hot expected output per label.
func FromSet(set *mnist.Set) ([]nn.Sample, error) {
	if len(set.Images) != len(set.Labels) {
		return nil, fmt.Errorf("image count %d does not match label count %d",
			len(set.Images), len(set.Labels))
	}

	samples := make([]nn.Sample, len(set.Images))
	for i, image := range set.Images {
		input := make([]float64, len(image))
		for j, pixel := range image {
			input[j] = float64(pixel) / 255.0
		}

		expected, err := OneHot(int(set.Labels[i]), Classes)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}

		samples[i] = nn.Sample{Input: input, ExpectedOutput: expected}
	}
	return samples, nil
}

// Load reads the gzipped MNIST train and test sets from dir, using the
// official file names (train-images-idx3-ubyte.gz and so on).
func Load(dir string) (train, test []nn.Sample, err error) {
	trainSet, testSet, err := mnist.Load(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("load mnist from %s: %w", dir, err)
	}

	if train, err = FromSet(trainSet); err != nil {
		return nil, nil, fmt.Errorf("train set: %w", err)
	}
	if test, err = FromSet(testSet); err != nil {
		return nil, nil, fmt.Errorf("test set: %w", err)
	}
	return train, test, nil
}

// LoadPair reads one image/label IDX file pair. Both files must be
// gzipped; raw IDX files are rejected by the reader.
func LoadPair(imageFile, labelFile string) ([]nn.Sample, error) {
	nrow, ncol, images, err := mnist.ReadImageFile(imageFile)
	if err != nil {
		return nil, fmt.Errorf("read images %s: %w", imageFile, err)
	}
	labels, err := mnist.ReadLabelFile(labelFile)
	if err != nil {
		return nil, fmt.Errorf("read labels %s: %w", labelFile, err)
	}

	return FromSet(&mnist.Set{NRow: nrow, NCol: ncol, Images: images, Labels: labels})
}

// Accuracy runs the network over the samples and returns the fraction
// whose highest output matches the one-hot expected class.
func Accuracy(net *nn.Network, samples []nn.Sample) (float64, error) {
	if len(samples) == 0 {
		return 0, nn.ErrNoSamples
	}

	correct := 0
	for _, sample := range samples {
		output, err := net.Activate(sample.Input)
		if err != nil {
			return 0, err
		}
		if floats.MaxIdx(output) == floats.MaxIdx(sample.ExpectedOutput) {
			correct++
		}
	}
	return float64(correct) / float64(len(samples)), nil
}
