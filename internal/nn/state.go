package nn

import "fmt"

// State is a detached copy of everything needed to rebuild a network.
type State struct {
	Layers       []int         `json:"layers"`
	Weights      [][][]float64 `json:"weights"`
	Biases       [][]float64   `json:"biases"`
	LearningRate float64       `json:"learningRate"`
}

// State returns a deep copy of the network's parameters.
func (n *Network) State() State {
	n.mu.RLock()
	defer n.mu.RUnlock()

	s := State{
		Layers:       append([]int(nil), n.layers...),
		Weights:      make([][][]float64, len(n.weights)),
		Biases:       make([][]float64, len(n.biases)),
		LearningRate: n.learningRate,
	}
	for i, layer := range n.weights {
		s.Weights[i] = make([][]float64, len(layer))
		for j, row := range layer {
			s.Weights[i][j] = append([]float64(nil), row...)
		}
		s.Biases[i] = append([]float64(nil), n.biases[i]...)
	}
	return s
}

// Restore replaces the network's parameters with s. The network is left
// untouched if s is not internally consistent.
func (n *Network) Restore(s State) error {
	if err := s.Validate(); err != nil {
		return err
	}

	restored := State{
		Layers:       append([]int(nil), s.Layers...),
		Weights:      make([][][]float64, len(s.Weights)),
		Biases:       make([][]float64, len(s.Biases)),
		LearningRate: s.LearningRate,
	}
	for i, layer := range s.Weights {
		restored.Weights[i] = make([][]float64, len(layer))
		for j, row := range layer {
			restored.Weights[i][j] = append([]float64(nil), row...)
		}
		restored.Biases[i] = append([]float64(nil), s.Biases[i]...)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.layers = restored.Layers
	n.weights = restored.Weights
	n.biases = restored.Biases
	n.learningRate = restored.LearningRate
	return nil
}

// Validate checks that weights and biases agree with the layer widths.
func (s State) Validate() error {
	if err := validateLayers(s.Layers); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	edges := len(s.Layers) - 1
	if len(s.Weights) != edges || len(s.Biases) != edges {
		return fmt.Errorf("%w: expected %d weight and bias layers, got %d and %d",
			ErrInvalidState, edges, len(s.Weights), len(s.Biases))
	}
	for i := 0; i < edges; i++ {
		rows, cols := s.Layers[i+1], s.Layers[i]
		if len(s.Weights[i]) != rows {
			return fmt.Errorf("%w: weights[%d] has %d rows, expected %d", ErrInvalidState, i, len(s.Weights[i]), rows)
		}
		for j, row := range s.Weights[i] {
			if len(row) != cols {
				return fmt.Errorf("%w: weights[%d][%d] has %d columns, expected %d", ErrInvalidState, i, j, len(row), cols)
			}
		}
		if len(s.Biases[i]) != rows {
			return fmt.Errorf("%w: biases[%d] has %d entries, expected %d", ErrInvalidState, i, len(s.Biases[i]), rows)
		}
	}
	return nil
}
