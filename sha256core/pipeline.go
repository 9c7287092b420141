package sha256core

import (
	"fmt"
	"sync"

	"github.com/panjf2000/ants"

	sherrors "massnet.org/shapipe/errors"
	"massnet.org/shapipe/logging"
)

// laneStatus is the engine-chain flag set: idle, loading, extending,
// compressing, done-pending-commit.
type laneStatus int

const (
	laneIdle laneStatus = iota
	laneLoading
	laneExtending
	laneCompressing
	laneDonePendingCommit
)

func (s laneStatus) String() string {
	switch s {
	case laneIdle:
		return "idle"
	case laneLoading:
		return "loading"
	case laneExtending:
		return "extending"
	case laneCompressing:
		return "compressing"
	case laneDonePendingCommit:
		return "done-pending-commit"
	default:
		return "unknown"
	}
}

// lane is the bookkeeping record for one engine in the ring: its
// dispatch status and the block it is currently assigned, kept for
// introspection and for the assertion checks in Pipeline.Run's failure
// handling.
type lane struct {
	mu     sync.Mutex
	index  int
	status laneStatus
	block  int
}

func (l *lane) set(status laneStatus, block int) {
	l.mu.Lock()
	l.status, l.block = status, block
	l.mu.Unlock()
}

// assertf panics with a formatted message when cond is false. It marks
// the call site as an internal invariant violation rather than an
// ordinary, caller-recoverable error.
func assertf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

// Pipeline is an N-lane block pipeline: it dispatches successive
// blocks to a ring of N lanes, overlapping lane i+1's schedule load
// with lane i's compression, and chains H-state in strictly increasing
// block-index order regardless of which lane physically ran which
// block.
//
// The lane ring is driven by a fixed-size ants worker pool: each
// block's job is submitted to the pool and its result collected
// through a per-block channel, with a WaitGroup marking the barrier
// where every block in the run has either completed or failed.
type Pipeline struct {
	n     int
	src   wordFetcher
	lanes []*lane
	pool  *ants.Pool
}

// NewPipeline constructs a pipeline of n lanes reading blocks from
// src. n must be at least 1.
func NewPipeline(src wordFetcher, n int) (*Pipeline, error) {
	if n < 1 {
		return nil, sherrors.Wrap(sherrors.ErrEngineRange, "pipeline lane count must be >= 1")
	}
	pool, err := ants.NewPoolPreMalloc(n)
	if err != nil {
		return nil, err
	}
	lanes := make([]*lane, n)
	for i := range lanes {
		lanes[i] = &lane{index: i, status: laneIdle}
	}
	return &Pipeline{n: n, src: src, lanes: lanes, pool: pool}, nil
}

// Release returns the pipeline's worker pool resources. It should be
// called once the pipeline is no longer needed.
func (p *Pipeline) Release() {
	p.pool.Release()
}

// Run dispatches blocks 0..numBlocks-1 across the lane ring and
// returns the final hash state, chained from h0 (FIPS H⁰, or a
// continuation state if resuming a checkpoint). Dispatch is always in
// strictly increasing block-index order: lane (b mod n) loads and
// extends block b's schedule independently of hash state, then waits
// for block b-1's finished H-state before compressing, and hands its
// own result to block b+1. The net externally observable effect is
// identical to processing the blocks on a single engine in order.
func (p *Pipeline) Run(numBlocks int, h0 [8]uint32) ([8]uint32, error) {
	if numBlocks == 0 {
		return h0, nil
	}

	// handoff[b] carries the hash state block b should seed from;
	// handoff[numBlocks] carries the final result.
	handoff := make([]chan [8]uint32, numBlocks+1)
	for i := range handoff {
		handoff[i] = make(chan [8]uint32, 1)
	}
	handoff[0] <- h0

	errCh := make(chan error, numBlocks)
	var wg sync.WaitGroup
	for b := 0; b < numBlocks; b++ {
		b := b
		lane := p.lanes[b%p.n]
		wg.Add(1)
		job := func() {
			defer wg.Done()
			defer func() {
				// A failed block closes its successor's handoff, so every
				// later block fails the closed-channel assertion instead
				// of waiting forever.
				if r := recover(); r != nil {
					errCh <- fmt.Errorf("lane %d block %d: %v", lane.index, b, r)
					close(handoff[b+1])
				}
			}()
			p.runLaneBlock(lane, b, handoff)
		}
		if err := p.pool.Submit(job); err != nil {
			wg.Done()
			errCh <- err
			close(handoff[b+1])
		}
	}
	wg.Wait()

	select {
	case err := <-errCh:
		return [8]uint32{}, err
	default:
	}

	final := <-handoff[numBlocks]
	return final, nil
}

// runLaneBlock executes one block on the given lane: the LOAD+EXTEND
// phase runs immediately (it has no dependency on hash state, which
// is precisely the phase the source overlaps across lanes), then the
// lane blocks on its predecessor's committed H-state before
// COMPRESS+UPDATE and handing its own result forward.
func (p *Pipeline) runLaneBlock(l *lane, block int, handoff []chan [8]uint32) {
	l.set(laneLoading, block)
	logging.VPrint(logging.DEBUG, "pipeline lane loading block",
		logging.LogFormat{"lane": l.index, "block": block})

	w, err := loadSchedule(p.src, block)
	// word() only fails on programming errors (out-of-range indices or
	// serving before done); the dispatcher never assigns those.
	assertf(err == nil, "lane %d block %d: word-fetch failed: %v", l.index, block, err)

	l.set(laneExtending, block)

	hIn, ok := <-handoff[block]
	assertf(ok, "lane %d block %d: consumed a closed handoff channel", l.index, block)

	l.set(laneCompressing, block)
	hOut := compressBlock(hIn, w)

	l.set(laneDonePendingCommit, block)
	handoff[block+1] <- hOut
	l.set(laneIdle, -1)
}
