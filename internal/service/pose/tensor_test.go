package pose

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeInto(t *testing.T) {
	src := []byte{0, 127, 255, 64}
	dst := make([]float32, len(src))

	require.NoError(t, NormalizeInto(dst, src))

	assert.Equal(t, float32(-1.0), dst[0])
	assert.InDelta(t, -0.00392, dst[1], 1e-4)
	assert.Equal(t, float32(1.0), dst[2])
	assert.InDelta(t, -0.49804, dst[3], 1e-4)
}

func TestNormalizeInto_StaysInUnitRange(t *testing.T) {
	src := make([]byte, 256)
	for i := range src {
		src[i] = byte(i)
	}
	dst := make([]float32, len(src))
	require.NoError(t, NormalizeInto(dst, src))

	for i, v := range dst {
		assert.GreaterOrEqual(t, v, float32(-1.0), "byte %d", i)
		assert.LessOrEqual(t, v, float32(1.0), "byte %d", i)
	}
}

func TestNormalizeInto_SizeMismatch(t *testing.T) {
	err := NormalizeInto(make([]float32, 3), make([]byte, 4))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBufferSize))
}
