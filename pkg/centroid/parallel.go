package centroid

import "golang.org/x/sync/errgroup"

// forEachRange calls fn over [0, n) split into contiguous ranges. With one
// worker, or when n is small, fn runs once on the calling goroutine. When
// several ranges fail, the error from the lowest range is returned so the
// reported failure matches a sequential scan.
func (c *Calculator) forEachRange(n int, fn func(lo, hi int) error) error {
	workers := c.Workers
	if workers <= 1 || n < ParallelThreshold {
		return fn(0, n)
	}

	chunk := (n + workers - 1) / workers
	if chunk < ParallelThreshold/4 {
		chunk = ParallelThreshold / 4
	}
	chunks := (n + chunk - 1) / chunk
	errs := make([]error, chunks)

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < chunks; i++ {
		lo := i * chunk
		hi := min(lo+chunk, n)
		g.Go(func() error {
			errs[i] = fn(lo, hi)
			return errs[i]
		})
	}
	if g.Wait() == nil {
		return nil
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
