package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForCoversEveryIndexOnce(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 8, 100} {
		n := 37
		hits := make([]int32, n)
		For(n, workers, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			assert.Equal(t, int32(1), h, "index %d with %d workers", i, workers)
		}
	}
}

func TestForEmpty(t *testing.T) {
	called := false
	For(0, 4, func(start, end int) { called = true })
	assert.False(t, called)
}
