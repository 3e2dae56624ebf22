package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	v := []float32{3, 4}
	Normalize(v)
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)

	zero := []float32{0, 0}
	Normalize(zero)
	assert.Equal(t, []float32{0, 0}, zero)
}

func TestApplyDefaults(t *testing.T) {
	opts := (&EmbeddingOptions{}).Apply(WithModel("m"), WithDimensions(256))
	assert.Equal(t, "m", opts.Model)
	assert.Equal(t, 256, opts.Dimensions)
	assert.Equal(t, 1, opts.BatchSize)
}
