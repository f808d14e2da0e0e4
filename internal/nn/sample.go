package nn

// Sample pairs one input vector with the output the network is expected
// to produce for it.
//
// Input length must equal the network's input size and ExpectedOutput
// length must equal the last layer's output size. Samples are never
// mutated by the library.
type Sample struct {
	Input          []float64
	ExpectedOutput []float64
}
