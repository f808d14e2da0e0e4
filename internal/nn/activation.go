package nn

import (
	"fmt"
	"math"
)

// ActivationKind selects one of the built-in activation functions.
//
// The set is closed: every kind maps to a pure scalar function and its
// derivative, dispatched by tag. There is no runtime registration
// mechanism; snapshots and the CLI refer to kinds by name via
// encoding.TextMarshaler / TextUnmarshaler.
//
// Example:
//
//	y := nn.Sigmoid.Call(0.5)
//	dy := nn.Sigmoid.Derivative(0.5)
type ActivationKind int

const (
	// Linear is the identity function f(x) = x.
	Linear ActivationKind = iota

	// Step is the Heaviside step: 0 for x <= 0, 1 otherwise.
	// Its derivative is defined as 0 everywhere.
	Step

	// Sigmoid is the logistic function 1 / (1 + e^-x).
	Sigmoid

	// HyperTan is the hyperbolic tangent.
	HyperTan

	// SiLU is the sigmoid-weighted linear unit x * sigmoid(x).
	SiLU

	// ReLU is the rectified linear unit max(0, x).
	// Its derivative at x = 0 is defined as 1.
	ReLU

	// LeakyReLU is max(x, 0.15*x): ReLU with a 0.15 slope for
	// negative inputs.
	LeakyReLU
)

// leakySlope is the negative-side slope of LeakyReLU.
const leakySlope = 0.15

// sigmoid computes the logistic function.
func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// Call evaluates the activation function at x.
func (k ActivationKind) Call(x float64) float64 {
	switch k {
	case Linear:
		return x
	case Step:
		if x > 0 {
			return 1
		}
		return 0
	case Sigmoid:
		return sigmoid(x)
	case HyperTan:
		return math.Tanh(x)
	case SiLU:
		return x * sigmoid(x)
	case ReLU:
		return math.Max(0, x)
	case LeakyReLU:
		return math.Max(x, leakySlope*x)
	default:
		panic(fmt.Sprintf("nn: unknown activation kind %d", int(k)))
	}
}

// Derivative evaluates d/dx of the activation function at x.
//
// The derivative must be evaluated at the same pre-activation value that
// was used during the matching forward call. Two conventions are baked in
// and must not be "corrected": Step's derivative is 0 everywhere, and
// ReLU's derivative at exactly x = 0 is 1. Training behavior depends on
// these exact policies.
func (k ActivationKind) Derivative(x float64) float64 {
	switch k {
	case Linear:
		return 1
	case Step:
		return 0
	case Sigmoid:
		s := sigmoid(x)
		return s * (1 - s)
	case HyperTan:
		t := math.Tanh(x)
		return 1 - t*t
	case SiLU:
		s := sigmoid(x)
		return s + x*s*(1-s)
	case ReLU:
		if x < 0 {
			return 0
		}
		return 1
	case LeakyReLU:
		if x < 0 {
			return leakySlope
		}
		return 1
	default:
		panic(fmt.Sprintf("nn: unknown activation kind %d", int(k)))
	}
}

// Valid reports whether k is one of the defined activation kinds.
func (k ActivationKind) Valid() bool {
	return k >= Linear && k <= LeakyReLU
}

// activationNames maps kinds to their canonical names.
var activationNames = [...]string{
	Linear:    "linear",
	Step:      "step",
	Sigmoid:   "sigmoid",
	HyperTan:  "hypertan",
	SiLU:      "silu",
	ReLU:      "relu",
	LeakyReLU: "leakyrelu",
}

// String returns the canonical lower-case name of the kind.
func (k ActivationKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("ActivationKind(%d)", int(k))
	}
	return activationNames[k]
}

// ParseActivationKind resolves a canonical name (as produced by String)
// back to its ActivationKind.
func ParseActivationKind(name string) (ActivationKind, error) {
	for k, n := range activationNames {
		if n == name {
			return ActivationKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown activation kind %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (k ActivationKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid activation kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ActivationKind) UnmarshalText(text []byte) error {
	parsed, err := ParseActivationKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
