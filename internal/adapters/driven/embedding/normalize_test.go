package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_UnitNorm(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
	}{
		{"already unit", []float32{1, 0, 0}},
		{"scaled", []float32{3, 4}},
		{"negative components", []float32{-2, 2, -2, 2}},
		{"tiny values", []float32{1e-4, 1e-4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Normalize(tt.in)
			assert.InDelta(t, 1.0, Norm(out), 1e-5)
		})
	}
}

func TestNormalize_ZeroVectorUnchanged(t *testing.T) {
	v := []float32{0, 0, 0}
	out := Normalize(v)
	assert.Equal(t, []float32{0, 0, 0}, out)
}

func TestNormalize_PreservesDirection(t *testing.T) {
	out := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, out[0], 1e-6)
	assert.InDelta(t, 0.8, out[1], 1e-6)
}
