// Package parallel holds the chunked worker loop shared by the projector and
// the mask synthesizer.
package parallel

import (
	"runtime"
	"sync"
)

// For splits [0, n) into at most workers contiguous chunks and calls fn once
// per chunk, each in its own goroutine. It returns when every chunk is done.
// workers <= 0 uses runtime.NumCPU().
func For(n, workers int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers == 1 {
		fn(0, n)
		return
	}

	perWorker := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * perWorker
		if start >= n {
			break
		}
		end := start + perWorker
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}
	wg.Wait()
}
