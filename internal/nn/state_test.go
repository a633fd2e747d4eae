package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_RestoreRoundTrip(t *testing.T) {
	src, err := New([]int{5, 10, 6, 1}, 0.1, seeded(21))
	require.NoError(t, err)
	dst, err := New([]int{5, 10, 6, 1}, 0.2, seeded(22))
	require.NoError(t, err)

	require.NoError(t, dst.Restore(src.State()))

	input := []float64{0.2, 0.4, 0.6, 0.8, 1.0}
	want, err := src.Forward(input)
	require.NoError(t, err)
	got, err := dst.Forward(input)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, 0.1, dst.LearningRate())
}

func TestState_IsDeepCopy(t *testing.T) {
	net, err := New([]int{2, 2}, 0.1, seeded(1))
	require.NoError(t, err)

	s := net.State()
	s.Weights[0][0][0] = 99
	s.Biases[0][0] = 99
	s.Layers[0] = 99

	fresh := net.State()
	assert.NotEqual(t, 99.0, fresh.Weights[0][0][0])
	assert.NotEqual(t, 99.0, fresh.Biases[0][0])
	assert.Equal(t, 2, fresh.Layers[0])
}

func TestState_RestoreCanChangeArchitecture(t *testing.T) {
	small, err := New([]int{2, 1}, 0.1, seeded(1))
	require.NoError(t, err)
	big, err := New([]int{3, 4, 2}, 0.1, seeded(2))
	require.NoError(t, err)

	require.NoError(t, small.Restore(big.State()))
	assert.Equal(t, []int{3, 4, 2}, small.Layers())
}

func TestState_RestoreRejectsInconsistentState(t *testing.T) {
	valid := func() State {
		net, err := New([]int{2, 3, 1}, 0.1, seeded(9))
		require.NoError(t, err)
		return net.State()
	}

	tests := []struct {
		name   string
		mutate func(*State)
	}{
		{"too few layers", func(s *State) { s.Layers = []int{2} }},
		{"missing weight layer", func(s *State) { s.Weights = s.Weights[:1] }},
		{"missing bias layer", func(s *State) { s.Biases = s.Biases[:1] }},
		{"short row", func(s *State) { s.Weights[0][1] = s.Weights[0][1][:1] }},
		{"extra row", func(s *State) { s.Weights[1] = append(s.Weights[1], []float64{0, 0, 0}) }},
		{"short bias", func(s *State) { s.Biases[0] = s.Biases[0][:2] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, err := New([]int{2, 3, 1}, 0.1, seeded(4))
			require.NoError(t, err)
			before := net.State()

			s := valid()
			tt.mutate(&s)

			err = net.Restore(s)
			assert.ErrorIs(t, err, ErrInvalidState)
			assert.Equal(t, before, net.State())
		})
	}
}
