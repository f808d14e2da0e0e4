package nn

import "fmt"

// SizeMismatchError reports an input vector whose length disagrees with
// the configured width of the component that received it.
//
// It is always recoverable: the caller supplied a wrong-sized vector and
// can retry with a corrected one. Width violations between adjacent
// layers that the network itself built are construction bugs, not user
// errors, and panic instead.
type SizeMismatchError struct {
	Component string // "neuron", "layer" or "network"
	Got       int    // length the caller supplied
	Want      int    // length the component is configured for
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("incorrect size passed to %s: expected %d inputs, got %d",
		e.Component, e.Want, e.Got)
}

// InvalidTopologyError reports an impossible network shape at
// construction time: no layers requested, mismatched layer-size and
// activation lists, or a non-positive width.
type InvalidTopologyError struct {
	Reason string
}

func (e *InvalidTopologyError) Error() string {
	return "invalid network topology: " + e.Reason
}
