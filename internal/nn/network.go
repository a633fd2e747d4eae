// Package nn implements a small dense feed-forward network with ReLU hidden
// layers, a sigmoid output layer and online (per-sample) backpropagation.
package nn

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
)

var (
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrInvalidLayers = errors.New("invalid layer configuration")
	ErrInvalidState  = errors.New("invalid network state")
)

const sigmoidClamp = 500.0

// Sample pairs a normalized input vector with its target output vector.
type Sample struct {
	Input  []float64
	Target []float64
}

// Network is a fully-connected network. weights[i] is a
// layers[i+1] x layers[i] matrix and biases[i] has layers[i+1] entries.
type Network struct {
	layers       []int
	weights      [][][]float64
	biases       [][]float64
	learningRate float64
	mu           sync.RWMutex
}

// New builds a network with Xavier-style uniform weights and small random
// biases drawn from rng.
func New(layers []int, learningRate float64, rng *rand.Rand) (*Network, error) {
	if err := validateLayers(layers); err != nil {
		return nil, err
	}

	n := &Network{
		layers:       append([]int(nil), layers...),
		weights:      make([][][]float64, len(layers)-1),
		biases:       make([][]float64, len(layers)-1),
		learningRate: learningRate,
	}

	for i := 0; i < len(layers)-1; i++ {
		fanIn, fanOut := layers[i], layers[i+1]
		scale := math.Sqrt(float64(fanIn))

		n.weights[i] = make([][]float64, fanOut)
		for j := 0; j < fanOut; j++ {
			n.weights[i][j] = make([]float64, fanIn)
			for k := 0; k < fanIn; k++ {
				n.weights[i][j][k] = (rng.Float64() - 0.5) * 2 / scale
			}
		}

		n.biases[i] = make([]float64, fanOut)
		for j := 0; j < fanOut; j++ {
			n.biases[i][j] = (rng.Float64() - 0.5) * 0.1
		}
	}

	return n, nil
}

func validateLayers(layers []int) error {
	if len(layers) < 2 {
		return fmt.Errorf("%w: need at least 2 layers, got %d", ErrInvalidLayers, len(layers))
	}
	for i, width := range layers {
		if width <= 0 {
			return fmt.Errorf("%w: layer %d has width %d", ErrInvalidLayers, i, width)
		}
	}
	return nil
}

// Layers returns a copy of the layer widths.
func (n *Network) Layers() []int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]int(nil), n.layers...)
}

func (n *Network) LearningRate() float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.learningRate
}

func (n *Network) InputSize() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.layers[0]
}

func (n *Network) OutputSize() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.layers[len(n.layers)-1]
}

// Forward runs inference. It never mutates the network.
func (n *Network) Forward(input []float64) ([]float64, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if len(input) != n.layers[0] {
		return nil, fmt.Errorf("%w: input has %d values, expected %d", ErrShapeMismatch, len(input), n.layers[0])
	}

	activations := n.forward(input)
	return activations[len(activations)-1], nil
}

// forward returns the activations of every layer, input included.
// Callers must hold n.mu.
func (n *Network) forward(input []float64) [][]float64 {
	activations := make([][]float64, len(n.layers))
	activations[0] = append([]float64(nil), input...)

	last := len(n.weights) - 1
	for i, layer := range n.weights {
		prev := activations[i]
		out := make([]float64, len(layer))
		for j, row := range layer {
			sum := n.biases[i][j]
			for k, w := range row {
				sum += w * prev[k]
			}
			if i == last {
				out[j] = sigmoid(sum)
			} else {
				out[j] = relu(sum)
			}
		}
		activations[i+1] = out
	}

	return activations
}

// Train runs online gradient descent over samples, in order, for the given
// number of epochs and returns the mean squared error of the last epoch.
func (n *Network) Train(samples []Sample, epochs int) (float64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	inputSize, outputSize := n.layers[0], n.layers[len(n.layers)-1]
	for i, s := range samples {
		if len(s.Input) != inputSize {
			return 0, fmt.Errorf("%w: sample %d input has %d values, expected %d", ErrShapeMismatch, i, len(s.Input), inputSize)
		}
		if len(s.Target) != outputSize {
			return 0, fmt.Errorf("%w: sample %d target has %d values, expected %d", ErrShapeMismatch, i, len(s.Target), outputSize)
		}
	}

	if epochs <= 0 || len(samples) == 0 {
		return 0, nil
	}

	var mse float64
	for epoch := 0; epoch < epochs; epoch++ {
		total := 0.0
		for _, s := range samples {
			total += n.step(s)
		}
		mse = total / float64(len(samples))
	}

	return mse, nil
}

// step applies one backpropagation update and returns the sample's squared
// error averaged over outputs, measured before the update.
func (n *Network) step(s Sample) float64 {
	activations := n.forward(s.Input)
	output := activations[len(activations)-1]

	errs := make([]float64, len(output))
	sqErr := 0.0
	for j := range output {
		errs[j] = s.Target[j] - output[j]
		sqErr += errs[j] * errs[j]
	}

	last := len(n.weights) - 1
	for i := last; i >= 0; i-- {
		current := activations[i+1]
		prev := activations[i]

		deltas := make([]float64, len(current))
		for j, a := range current {
			if i == last {
				deltas[j] = errs[j] * sigmoidDerivative(a)
			} else {
				deltas[j] = errs[j] * reluDerivative(a)
			}
		}

		// Error for the layer below uses the weights as they were before this update.
		prevErrs := make([]float64, len(prev))
		for j, row := range n.weights[i] {
			for k, w := range row {
				prevErrs[k] += w * deltas[j]
			}
		}

		for j, row := range n.weights[i] {
			for k := range row {
				row[k] += n.learningRate * deltas[j] * prev[k]
			}
			n.biases[i][j] += n.learningRate * deltas[j]
		}

		errs = prevErrs
	}

	return sqErr / float64(len(output))
}

func sigmoid(x float64) float64 {
	x = math.Max(-sigmoidClamp, math.Min(sigmoidClamp, x))
	return 1 / (1 + math.Exp(-x))
}

func sigmoidDerivative(a float64) float64 {
	return a * (1 - a)
}

func relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

func reluDerivative(a float64) float64 {
	if a > 0 {
		return 1
	}
	return 0
}
