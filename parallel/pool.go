package parallel

import (
	"runtime"
	"sync"
)

// Pool runs submitted funcs on a fixed set of goroutines. A pool with a
// single worker runs everything inline on the caller's goroutine.
type Pool struct {
	wg    sync.WaitGroup
	work  chan func()
	close func()
}

func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{close: func() {}}
	if numWorkers == 1 {
		return pool
	}

	pool.work = make(chan func(), numWorkers)
	for range numWorkers {
		pool.wg.Go(func() {
			for f := range pool.work {
				f()
			}
		})
	}
	pool.close = sync.OnceFunc(func() { close(pool.work) })

	return pool
}

func (p *Pool) Do(f func()) {
	if p.work == nil {
		f()
		return
	}
	p.work <- f
}

// Stop closes the pool and waits for queued work to drain. Do must not be
// called afterwards.
func (p *Pool) Stop() {
	p.close()
	p.wg.Wait()
}

// Range splits [0, n) into chunks of at most size elements, hands each chunk
// to the pool and returns once all of them are done.
func (p *Pool) Range(n, size int, fn func(lo, hi int)) {
	if size < 1 {
		size = 1
	}

	var batch sync.WaitGroup
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		batch.Add(1)
		p.Do(func() {
			defer batch.Done()
			fn(lo, hi)
		})
	}
	batch.Wait()
}
