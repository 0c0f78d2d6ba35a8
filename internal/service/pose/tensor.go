package pose

import (
	"errors"
	"fmt"
)

// ErrBufferSize is returned when a buffer does not have the expected length.
var ErrBufferSize = errors.New("buffer size mismatch")

// NormalizeInto maps every pixel byte v of src to v/127.5 - 1 in dst, keeping
// the byte layout (row-major, then channel). Both buffers must be the same length.
func NormalizeInto(dst []float32, src []byte) error {
	if len(dst) != len(src) {
		return fmt.Errorf("%w: tensor has %d values, image has %d bytes", ErrBufferSize, len(dst), len(src))
	}

	for i, v := range src {
		dst[i] = float32(v)/127.5 - 1.0
	}
	return nil
}
